package market

import (
	"math/rand"
	"sync"
	"time"

	"stock-simulator/src/interfaces"
	"stock-simulator/src/logger"
	"stock-simulator/src/models"
	"stock-simulator/src/utils"
)

// -----------------------------------------------------------------------------
// PriceEngine owns the simulated price state for every registered symbol.
//
// Each symbol is either Stale (no real-quote refresh yet today) or Fresh.
// The first price query of a calendar day pulls a real quote from the
// configured source; every later query that day applies a bounded random
// walk. Querying prices is what advances simulated time, there is no
// peek-without-mutating read.
// -----------------------------------------------------------------------------

const refreshDateLayout = "2006-01-02"

type PriceEngine struct {
	Config   models.MMarketConfig
	Registry *TickerRegistry
	Source   interfaces.IQuoteSource
	Logger   *logger.Logger

	mu      sync.Mutex
	states  map[string]*models.MPriceState
	history map[string]*utils.PriceRing

	now func() time.Time
	rng *rand.Rand
}

// -----------------------------------------------------------------------------

func NewPriceEngine(cfg models.MMarketConfig, registry *TickerRegistry, source interfaces.IQuoteSource, log *logger.Logger) *PriceEngine {
	return &PriceEngine{
		Config:   cfg,
		Registry: registry,
		Source:   source,
		Logger:   log,
		states:   make(map[string]*models.MPriceState),
		history:  make(map[string]*utils.PriceRing),
		now:      time.Now,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// -----------------------------------------------------------------------------

// SetClock replaces the wall clock. Wiring hook, not safe once queries run.
func (e *PriceEngine) SetClock(now func() time.Time) {
	e.now = now
}

// SetRand replaces the random source. Wiring hook, not safe once queries run.
func (e *PriceEngine) SetRand(rng *rand.Rand) {
	e.rng = rng
}

// -----------------------------------------------------------------------------

// RegisterTicker registers a symbol and creates its price state. Concurrent
// registration of the same symbol keeps the first price state; a newly
// created state starts Stale so the next query gives it a real-quote
// attempt even mid-day.
func (e *PriceEngine) RegisterTicker(symbol, displayName string) (*models.MTicker, error) {
	t, err := e.Registry.Register(symbol, displayName)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.states[t.Symbol]; !ok {
		e.states[t.Symbol] = &models.MPriceState{}
		e.history[t.Symbol] = utils.NewPriceRing(e.Config.HistorySize)
	}
	return t, nil
}

// -----------------------------------------------------------------------------

// GetAllPrices advances the price state machine for every registered symbol
// and returns the resulting snapshot. It never fails: quote-source errors
// degrade to the previous price or a synthetic seed price.
func (e *PriceEngine) GetAllPrices() []models.MQuoteSnapshot {
	tickers := e.Registry.All()

	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.now().Format(refreshDateLayout)
	snapshot := make([]models.MQuoteSnapshot, 0, len(tickers))

	for _, t := range tickers {
		st, ok := e.states[t.Symbol]
		if !ok {
			st = &models.MPriceState{}
			e.states[t.Symbol] = st
			e.history[t.Symbol] = utils.NewPriceRing(e.Config.HistorySize)
		}

		if st.LastRefresh != today {
			// Stale -> Fresh: one real-quote refresh per symbol per day.
			// The check-and-set on LastRefresh happens under the engine
			// mutex so concurrent callers cannot double-refresh.
			e.refreshLocked(t.Symbol, st)
			st.LastRefresh = today
		} else {
			st.CurrentPrice = e.walkLocked(st.CurrentPrice)
		}

		e.history[t.Symbol].Push(st.CurrentPrice)
		snapshot = append(snapshot, models.MQuoteSnapshot{
			Symbol:      t.Symbol,
			DisplayName: t.DisplayName,
			Price:       st.CurrentPrice,
		})
	}

	return snapshot
}

// -----------------------------------------------------------------------------

// refreshLocked pulls a real quote for symbol. On failure (or a
// non-positive quote) it keeps the previous price when one exists,
// otherwise draws a synthetic seed price from the fallback range.
func (e *PriceEngine) refreshLocked(symbol string, st *models.MPriceState) {
	quote, err := e.Source.GetLastPrice(symbol)
	if err == nil && quote > 0 {
		if quote < e.Config.PriceFloor {
			quote = e.Config.PriceFloor
		}
		st.CurrentPrice = quote
		return
	}

	if err != nil {
		e.Logger.Warning("quote refresh failed for %s, using fallback: %v", symbol, err)
	}

	if st.CurrentPrice > 0 {
		return // keep yesterday's price
	}
	span := e.Config.FallbackMax - e.Config.FallbackMin + 1
	st.CurrentPrice = e.Config.FallbackMin + e.rng.Int63n(span)
}

// -----------------------------------------------------------------------------

// walkLocked applies the bounded random walk: uniform step in
// [-WalkDelta, +WalkDelta], floored at PriceFloor.
func (e *PriceEngine) walkLocked(price int64) int64 {
	step := e.rng.Int63n(2*e.Config.WalkDelta+1) - e.Config.WalkDelta
	price += step
	if price < e.Config.PriceFloor {
		price = e.Config.PriceFloor
	}
	return price
}

// -----------------------------------------------------------------------------

// History returns the recent snapshot prices for symbol, oldest first.
func (e *PriceEngine) History(symbol string) []int64 {
	e.mu.Lock()
	ring, ok := e.history[symbol]
	e.mu.Unlock()

	if !ok {
		return nil
	}
	return ring.Values()
}

// -----------------------------------------------------------------------------

// State returns a copy of the price state for symbol.
func (e *PriceEngine) State(symbol string) (models.MPriceState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.states[symbol]
	if !ok {
		return models.MPriceState{}, false
	}
	return *st, true
}
