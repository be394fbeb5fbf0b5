package models

// MTicker represents a registered tradable instrument.
type MTicker struct {
	Symbol      string `json:"symbol"`
	DisplayName string `json:"display_name"`
}

// MPriceState is the per-symbol simulated price state.
// LastRefresh holds the date ("2006-01-02") of the last real-quote refresh,
// empty string means the symbol has never been refreshed.
type MPriceState struct {
	CurrentPrice int64  `json:"current_price"`
	LastRefresh  string `json:"last_refresh"`
}

// MQuoteSnapshot is one row of a price snapshot returned by the engine.
type MQuoteSnapshot struct {
	Symbol      string `json:"symbol"`
	DisplayName string `json:"display_name"`
	Price       int64  `json:"price"`
}

// MPriceBroadcast is the websocket payload pushed to clients after each
// price snapshot evaluation.
type MPriceBroadcast struct {
	Type      string           `json:"type"` // "INITIAL" or "UPDATE"
	Prices    []MQuoteSnapshot `json:"prices"`
	Timestamp int64            `json:"timestamp"`
}
