package models

import "time"

// MUserRecord is the persisted document for one account: credentials plus
// the trading portfolio. Stores treat it as an opaque document keyed by
// username.
type MUserRecord struct {
	Username     string     `json:"username"`
	PasswordHash string     `json:"password"`
	CreatedAt    time.Time  `json:"created_at"`
	Portfolio    MPortfolio `json:"portfolio"`
}

// MLeaderboardEntry is a derived ranking row, computed on demand and
// never persisted.
type MLeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Cash     int64  `json:"cash"`
}
