package leaderboard

import (
	"sort"

	"stock-simulator/src/models"
)

// -----------------------------------------------------------------------------

// Rank orders the given accounts by cash, richest first, and assigns ranks
// 1..n. Ties on cash break by username ascending so the ordering is
// deterministic whatever enumeration order the backing store yields. The
// result is derived on each call and never persisted.
func Rank(records []models.MUserRecord) []models.MLeaderboardEntry {
	entries := make([]models.MLeaderboardEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, models.MLeaderboardEntry{
			Username: r.Username,
			Cash:     r.Portfolio.Cash,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Cash != entries[j].Cash {
			return entries[i].Cash > entries[j].Cash
		}
		return entries[i].Username < entries[j].Username
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
