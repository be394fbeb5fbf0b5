package storage

import (
	"path/filepath"
	"testing"
	"time"

	"stock-simulator/src/logger"
	"stock-simulator/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJSONStore(t *testing.T) *JSONFileStore {
	t.Helper()

	s := NewJSONFileStore(filepath.Join(t.TempDir(), "users_db.json"), logger.NewLogger("ERROR", "store-test"))
	require.NoError(t, s.Initialize())
	return s
}

func sampleRecord(username string) *models.MUserRecord {
	return &models.MUserRecord{
		Username:     username,
		PasswordHash: "$2a$10$fakehash",
		CreatedAt:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Portfolio: models.MPortfolio{
			Cash:      1_000_000,
			Holdings:  map[string]int64{"AAA": 3},
			BuyPrices: map[string][]int64{"AAA": {70_000, 71_000, 72_000}},
			TradeLog: []models.MTradeLogEntry{{
				Timestamp: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
				Action:    models.ActionBuy,
				Symbol:    "AAA",
				Quantity:  3,
				UnitPrice: 71_000,
			}},
			TradeCount: 1,
		},
	}
}

// -----------------------------------------------------------------------------

func TestJSONFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestJSONStore(t)
	want := sampleRecord("alice")
	require.NoError(t, s.Save(want))

	got, err := s.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestJSONFileStoreGetUnknownUser(t *testing.T) {
	t.Parallel()

	s := newTestJSONStore(t)
	_, err := s.Get("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestJSONFileStoreSaveOverwrites(t *testing.T) {
	t.Parallel()

	s := newTestJSONStore(t)
	record := sampleRecord("alice")
	require.NoError(t, s.Save(record))

	record.Portfolio.Cash = 42
	require.NoError(t, s.Save(record))

	got, err := s.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Portfolio.Cash)
}

func TestJSONFileStoreDelete(t *testing.T) {
	t.Parallel()

	s := newTestJSONStore(t)
	require.NoError(t, s.Save(sampleRecord("alice")))

	require.NoError(t, s.Delete("alice"))
	_, err := s.Get("alice")
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, s.Delete("alice"), ErrUserNotFound)
}

func TestJSONFileStoreListAll(t *testing.T) {
	t.Parallel()

	s := newTestJSONStore(t)
	require.NoError(t, s.Save(sampleRecord("alice")))
	require.NoError(t, s.Save(sampleRecord("bob")))

	records, err := s.ListAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestJSONFileStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "users_db.json")
	log := logger.NewLogger("ERROR", "store-test")

	s1 := NewJSONFileStore(path, log)
	require.NoError(t, s1.Initialize())
	require.NoError(t, s1.Save(sampleRecord("alice")))
	require.NoError(t, s1.Close())

	s2 := NewJSONFileStore(path, log)
	require.NoError(t, s2.Initialize())
	got, err := s2.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}
