package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"stock-simulator/src/auth"
	"stock-simulator/src/logger"
	"stock-simulator/src/market"
	"stock-simulator/src/models"
	"stock-simulator/src/storage"
)

// Offline smoke harness: runs a full scripted trading session against a
// throwaway flat-file store and a canned quote source, no network, no
// server. Useful for eyeballing engine and ledger behavior end to end.

// -----------------------------------------------------------------------------

// cannedQuoteSource serves fixed quotes and counts calls.
type cannedQuoteSource struct {
	quotes map[string]int64
	calls  int
}

func (s *cannedQuoteSource) Name() string { return "canned" }

func (s *cannedQuoteSource) GetLastPrice(symbol string) (int64, error) {
	s.calls++
	return s.quotes[symbol], nil // 0 for unknown symbols -> fallback path
}

// -----------------------------------------------------------------------------

func main() {
	log := logger.NewLogger("DEBUG", "smoke")

	dir, err := os.MkdirTemp("", "stock-simulator-smoke")
	if err != nil {
		log.Critical("mkdtemp: %v", err)
	}
	defer os.RemoveAll(dir)

	store := storage.NewJSONFileStore(filepath.Join(dir, "users_db.json"), log.Named("store"))
	if err := store.Initialize(); err != nil {
		log.Critical("store init: %v", err)
	}

	source := &cannedQuoteSource{quotes: map[string]int64{
		"005930.KS": 71_000,
		"000660.KS": 132_500,
		"035420.KS": 189_000,
	}}

	cfg := models.MMarketConfig{
		PriceFloor:  1000,
		WalkDelta:   1000,
		FallbackMin: 50_000,
		FallbackMax: 300_000,
		HistorySize: 64,
	}

	registry := market.NewTickerRegistry()
	engine := market.NewPriceEngine(cfg, registry, source, log.Named("engine"))
	engine.SetRand(rand.New(rand.NewSource(42)))
	engine.SetClock(func() time.Time { return time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC) })

	for _, sym := range []string{"005930.KS", "000660.KS", "035420.KS", "NEWCO"} {
		if _, err := engine.RegisterTicker(sym, ""); err != nil {
			log.Critical("register %s: %v", sym, err)
		}
	}

	authSvc := auth.NewService(store, 1_000_000)

	runScenario(log, engine, store, authSvc, source)
}
