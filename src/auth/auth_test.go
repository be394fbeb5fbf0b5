package auth

import (
	"path/filepath"
	"testing"

	"stock-simulator/src/helpers"
	"stock-simulator/src/logger"
	"stock-simulator/src/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedSymbols = []string{"005930.KS", "000660.KS"}

func newTestService(t *testing.T) *Service {
	t.Helper()

	store := storage.NewJSONFileStore(filepath.Join(t.TempDir(), "users_db.json"), logger.NewLogger("ERROR", "auth-test"))
	require.NoError(t, store.Initialize())
	return NewService(store, 1_000_000)
}

// -----------------------------------------------------------------------------

func TestSignUpSeedsPortfolio(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	record, err := svc.SignUp("alice", "secret", seedSymbols)
	require.NoError(t, err)

	assert.Equal(t, int64(1_000_000), record.Portfolio.Cash)
	for _, sym := range seedSymbols {
		qty, ok := record.Portfolio.Holdings[sym]
		assert.True(t, ok)
		assert.Zero(t, qty)
		assert.Empty(t, record.Portfolio.BuyPrices[sym])
	}
	assert.NotEqual(t, "secret", record.PasswordHash, "password must be stored hashed")

	// Persisted, not just returned.
	stored, err := svc.Store.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, record.Username, stored.Username)
}

func TestSignUpRejectsBlankCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	var verr *helpers.ValidationError

	_, err := svc.SignUp("", "secret", seedSymbols)
	assert.ErrorAs(t, err, &verr)
	_, err = svc.SignUp("alice", "", seedSymbols)
	assert.ErrorAs(t, err, &verr)
}

func TestSignUpRejectsDuplicateUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, err := svc.SignUp("alice", "secret", seedSymbols)
	require.NoError(t, err)

	_, err = svc.SignUp("alice", "other", seedSymbols)
	assert.ErrorIs(t, err, ErrUserExists)
}

// -----------------------------------------------------------------------------

func TestLogIn(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, err := svc.SignUp("alice", "secret", seedSymbols)
	require.NoError(t, err)

	record, err := svc.LogIn("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", record.Username)

	_, err = svc.LogIn("alice", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.LogIn("nobody", "secret")
	assert.ErrorIs(t, err, ErrUnknownUser)
}
