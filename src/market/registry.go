package market

import (
	"strings"
	"sync"

	"stock-simulator/src/helpers"
	"stock-simulator/src/models"
)

// -----------------------------------------------------------------------------
// TickerRegistry is the shared set of known symbols. Registration is
// idempotent and safe under concurrent sessions; symbols are upper-cased
// on the way in.
// -----------------------------------------------------------------------------

type TickerRegistry struct {
	mu      sync.RWMutex
	tickers map[string]*models.MTicker
	order   []string // registration order, for stable snapshots
}

// -----------------------------------------------------------------------------

func NewTickerRegistry() *TickerRegistry {
	return &TickerRegistry{
		tickers: make(map[string]*models.MTicker),
	}
}

// -----------------------------------------------------------------------------

// Register adds a symbol to the registry. A blank symbol is rejected.
// Registering an existing symbol is a no-op returning the existing entry.
// displayName defaults to the symbol; a display name already used by a
// different symbol is suffixed with "(SYMBOL)" so names stay usable as
// presentation keys.
func (r *TickerRegistry) Register(symbol, displayName string) (*models.MTicker, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, helpers.NewValidationError("symbol cannot be blank")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.tickers[symbol]; ok {
		return existing, nil
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = symbol
	}
	if r.displayNameTakenLocked(displayName) {
		displayName = displayName + " (" + symbol + ")"
	}

	t := &models.MTicker{Symbol: symbol, DisplayName: displayName}
	r.tickers[symbol] = t
	r.order = append(r.order, symbol)
	return t, nil
}

// -----------------------------------------------------------------------------

func (r *TickerRegistry) displayNameTakenLocked(name string) bool {
	for _, t := range r.tickers {
		if t.DisplayName == name {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

// Lookup returns the ticker for symbol (case-insensitive).
func (r *TickerRegistry) Lookup(symbol string) (*models.MTicker, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tickers[symbol]
	return t, ok
}

// -----------------------------------------------------------------------------

// All returns the registered tickers in registration order.
func (r *TickerRegistry) All() []models.MTicker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.MTicker, 0, len(r.order))
	for _, sym := range r.order {
		out = append(out, *r.tickers[sym])
	}
	return out
}

// -----------------------------------------------------------------------------

// Symbols returns the registered symbols in registration order.
func (r *TickerRegistry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
