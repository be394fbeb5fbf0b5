package market

import (
	"fmt"
	"sync"
	"testing"

	"stock-simulator/src/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterNormalizesCase(t *testing.T) {
	t.Parallel()

	r := NewTickerRegistry()
	ticker, err := r.Register("aapl", "Apple")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", ticker.Symbol)

	found, ok := r.Lookup("AaPl")
	require.True(t, ok)
	assert.Equal(t, ticker, found)
}

func TestRegisterBlankSymbolRejected(t *testing.T) {
	t.Parallel()

	r := NewTickerRegistry()
	for _, sym := range []string{"", "   ", "\t"} {
		_, err := r.Register(sym, "whatever")
		var verr *helpers.ValidationError
		assert.ErrorAs(t, err, &verr)
	}
	assert.Empty(t, r.All())
}

func TestRegisterIsIdempotent(t *testing.T) {
	t.Parallel()

	r := NewTickerRegistry()
	first, err := r.Register("AAPL", "Apple")
	require.NoError(t, err)

	second, err := r.Register("AAPL", "Apple Inc.")
	require.NoError(t, err)

	assert.Same(t, first, second, "re-registration returns the existing entry")
	assert.Equal(t, "Apple", second.DisplayName)
	assert.Len(t, r.All(), 1)
}

func TestDisplayNameDefaultsToSymbol(t *testing.T) {
	t.Parallel()

	r := NewTickerRegistry()
	ticker, err := r.Register("NEWCO", "")
	require.NoError(t, err)
	assert.Equal(t, "NEWCO", ticker.DisplayName)
}

func TestDisplayNameCollisionGetsSymbolSuffix(t *testing.T) {
	t.Parallel()

	r := NewTickerRegistry()
	_, err := r.Register("AAA", "Acme")
	require.NoError(t, err)

	ticker, err := r.Register("BBB", "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme (BBB)", ticker.DisplayName)
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	t.Parallel()

	r := NewTickerRegistry()
	for i := 0; i < 10; i++ {
		_, err := r.Register(fmt.Sprintf("S%02d", i), "")
		require.NoError(t, err)
	}

	symbols := r.Symbols()
	require.Len(t, symbols, 10)
	for i, sym := range symbols {
		assert.Equal(t, fmt.Sprintf("S%02d", i), sym)
	}
}

func TestConcurrentRegistrationDoesNotDiverge(t *testing.T) {
	t.Parallel()

	r := NewTickerRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Register("SAME", "Same Corp")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, r.All(), 1)
}
