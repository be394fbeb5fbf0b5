package leaderboard

import (
	"testing"

	"stock-simulator/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(username string, cash int64) models.MUserRecord {
	return models.MUserRecord{
		Username:  username,
		Portfolio: models.MPortfolio{Cash: cash},
	}
}

func TestRankOrdersByCashDescending(t *testing.T) {
	t.Parallel()

	entries := Rank([]models.MUserRecord{
		record("carol", 500),
		record("alice", 1500),
		record("bob", 1500),
		record("dave", 200),
	})

	require.Len(t, entries, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank, entries[3].Rank})

	// Ties at 1500 break by username ascending.
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, "bob", entries[1].Username)
	assert.Equal(t, int64(1500), entries[0].Cash)
	assert.Equal(t, int64(1500), entries[1].Cash)
	assert.Equal(t, "carol", entries[2].Username)
	assert.Equal(t, "dave", entries[3].Username)
}

func TestRankTieBreakIsDeterministic(t *testing.T) {
	t.Parallel()

	a := Rank([]models.MUserRecord{record("x", 100), record("y", 100), record("z", 100)})
	b := Rank([]models.MUserRecord{record("z", 100), record("x", 100), record("y", 100)})
	assert.Equal(t, a, b, "rank is independent of store enumeration order")
}

func TestRankEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Rank(nil))
}
