package models

import "time"

// Trade log actions
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// MTradeLogEntry is an immutable record of one executed trade.
// Entries are appended to the portfolio log and never mutated or removed.
type MTradeLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Symbol    string    `json:"symbol"`
	Quantity  int64     `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
}

// MPortfolio is the trading state of one user: cash, holdings and the
// FIFO cost-basis queues (oldest purchase price first).
type MPortfolio struct {
	Cash       int64              `json:"cash"`
	Holdings   map[string]int64   `json:"holdings"`
	BuyPrices  map[string][]int64 `json:"buy_prices"`
	TradeLog   []MTradeLogEntry   `json:"trade_log"`
	TradeCount int                `json:"trade_count"`
}

// NewPortfolio creates an empty portfolio seeded with zero holdings for
// the given symbols.
func NewPortfolio(startingCash int64, symbols []string) *MPortfolio {
	p := &MPortfolio{
		Cash:      startingCash,
		Holdings:  make(map[string]int64, len(symbols)),
		BuyPrices: make(map[string][]int64, len(symbols)),
	}
	for _, s := range symbols {
		p.Holdings[s] = 0
		p.BuyPrices[s] = []int64{}
	}
	return p
}
