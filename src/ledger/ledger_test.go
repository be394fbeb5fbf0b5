package ledger

import (
	"testing"

	"stock-simulator/src/helpers"
	"stock-simulator/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feeRate = 0.0003

func newPortfolio(cash int64) *models.MPortfolio {
	return models.NewPortfolio(cash, []string{"X", "Y"})
}

// -----------------------------------------------------------------------------

func TestBuyHappyPath(t *testing.T) {
	t.Parallel()

	p := newPortfolio(1_000_000)

	cost, err := Buy(p, "X", 10, 1000, feeRate)
	require.NoError(t, err)

	assert.Equal(t, int64(10003), cost)
	assert.Equal(t, int64(989_997), p.Cash)
	assert.Equal(t, int64(10), p.Holdings["X"])
	assert.Equal(t, []int64{1000}, p.BuyPrices["X"])
	require.Len(t, p.TradeLog, 1)
	assert.Equal(t, models.ActionBuy, p.TradeLog[0].Action)
	assert.Equal(t, int64(1000), p.TradeLog[0].UnitPrice)
	assert.Equal(t, 1, p.TradeCount)
}

func TestSellHappyPath(t *testing.T) {
	t.Parallel()

	p := newPortfolio(1_000_000)
	_, err := Buy(p, "X", 10, 1000, feeRate)
	require.NoError(t, err)

	revenue, err := Sell(p, "X", 10, 1100, feeRate)
	require.NoError(t, err)

	assert.Equal(t, int64(10996), revenue)
	assert.Equal(t, int64(1_000_993), p.Cash)
	assert.Equal(t, int64(0), p.Holdings["X"])
	assert.Empty(t, p.BuyPrices["X"])
	assert.Equal(t, 2, p.TradeCount)
	assert.Len(t, p.TradeLog, p.TradeCount)
}

// -----------------------------------------------------------------------------

// Buying and immediately selling the same quantity at the same price costs
// exactly the two independently floored fees, not one combined formula.
func TestRoundTripFeesFlooredIndependently(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		qty   int64
		price int64
	}{
		{"round_amounts", 10, 1000},
		{"odd_amounts", 7, 12345},
		{"single_share", 1, 3333},
		{"large_order", 99, 54321},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newPortfolio(100_000_000)
			startCash := p.Cash

			cost, err := Buy(p, "X", tt.qty, tt.price, feeRate)
			require.NoError(t, err)
			revenue, err := Sell(p, "X", tt.qty, tt.price, feeRate)
			require.NoError(t, err)

			gross := tt.qty * tt.price
			buyFee := cost - gross
			sellFee := gross - revenue
			assert.Equal(t, int64(float64(gross)*(1+feeRate))-gross, buyFee)
			assert.Equal(t, gross-int64(float64(gross)*(1-feeRate)), sellFee)
			assert.Equal(t, startCash-buyFee-sellFee, p.Cash)
		})
	}
}

// -----------------------------------------------------------------------------

func TestBuyInsufficientFundsLeavesPortfolioUntouched(t *testing.T) {
	t.Parallel()

	p := newPortfolio(10_000)
	before := *models.NewPortfolio(10_000, []string{"X", "Y"})

	_, err := Buy(p, "X", 10, 1000, feeRate) // cost 10003 > 10000
	var funds *InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	assert.Equal(t, int64(10003), funds.Needed)
	assert.Equal(t, int64(10_000), funds.Available)

	assert.Equal(t, before.Cash, p.Cash)
	assert.Equal(t, before.Holdings, p.Holdings)
	assert.Equal(t, before.BuyPrices, p.BuyPrices)
	assert.Empty(t, p.TradeLog)
	assert.Zero(t, p.TradeCount)
}

func TestSellInsufficientHoldingsLeavesPortfolioUntouched(t *testing.T) {
	t.Parallel()

	p := newPortfolio(1_000_000)
	_, err := Buy(p, "X", 5, 1000, feeRate)
	require.NoError(t, err)
	cashAfterBuy := p.Cash

	_, err = Sell(p, "X", 6, 1000, feeRate)
	var holdings *InsufficientHoldingsError
	require.ErrorAs(t, err, &holdings)
	assert.Equal(t, int64(6), holdings.Requested)
	assert.Equal(t, int64(5), holdings.Held)

	assert.Equal(t, cashAfterBuy, p.Cash)
	assert.Equal(t, int64(5), p.Holdings["X"])
	assert.Equal(t, []int64{1000}, p.BuyPrices["X"])
	assert.Equal(t, 1, p.TradeCount)
}

func TestSellUnknownSymbolRejected(t *testing.T) {
	t.Parallel()

	p := newPortfolio(1_000_000)
	_, err := Sell(p, "NOPE", 1, 1000, feeRate)

	var holdings *InsufficientHoldingsError
	require.ErrorAs(t, err, &holdings)
	assert.Equal(t, int64(0), holdings.Held)
}

// -----------------------------------------------------------------------------

func TestValidationRejectedBeforeMutation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		symbol string
		qty    int64
		price  int64
	}{
		{"zero_quantity", "X", 0, 1000},
		{"negative_quantity", "X", -3, 1000},
		{"zero_price", "X", 10, 0},
		{"negative_price", "X", 10, -50},
		{"blank_symbol", "  ", 10, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newPortfolio(1_000_000)

			var verr *helpers.ValidationError
			_, err := Buy(p, tt.symbol, tt.qty, tt.price, feeRate)
			assert.ErrorAs(t, err, &verr)
			_, err = Sell(p, tt.symbol, tt.qty, tt.price, feeRate)
			assert.ErrorAs(t, err, &verr)

			assert.Equal(t, int64(1_000_000), p.Cash)
			assert.Empty(t, p.TradeLog)
		})
	}
}

// -----------------------------------------------------------------------------

func TestBuyCreatesHoldingForNewSymbol(t *testing.T) {
	t.Parallel()

	p := newPortfolio(1_000_000)

	_, err := Buy(p, "ZZZ", 2, 5000, feeRate)
	require.NoError(t, err)

	assert.Equal(t, int64(2), p.Holdings["ZZZ"])
	assert.Equal(t, []int64{5000}, p.BuyPrices["ZZZ"])
}

// -----------------------------------------------------------------------------

// The cost-basis queue pops at most its own length on sell, so it can
// legitimately drift away from the held quantity. This documents the drift
// instead of papering over it.
func TestCostBasisQueueCanDivergeFromHoldings(t *testing.T) {
	t.Parallel()

	p := newPortfolio(100_000_000)

	// Two lots, 10 shares total, queue length 2.
	_, err := Buy(p, "X", 5, 1000, feeRate)
	require.NoError(t, err)
	_, err = Buy(p, "X", 5, 1200, feeRate)
	require.NoError(t, err)
	require.Equal(t, int64(10), p.Holdings["X"])
	require.Len(t, p.BuyPrices["X"], 2)

	// Selling 4 shares wants 4 lots but only 2 exist: pop both.
	_, err = Sell(p, "X", 4, 1100, feeRate)
	require.NoError(t, err)

	assert.Equal(t, int64(6), p.Holdings["X"])
	assert.Empty(t, p.BuyPrices["X"], "queue drained while shares remain held")

	// Further sells keep working with an empty queue.
	_, err = Sell(p, "X", 6, 1100, feeRate)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Holdings["X"])
}

// -----------------------------------------------------------------------------

func TestSellPopsOldestLotsFirst(t *testing.T) {
	t.Parallel()

	p := newPortfolio(100_000_000)
	for _, price := range []int64{1000, 1100, 1200} {
		_, err := Buy(p, "X", 1, price, feeRate)
		require.NoError(t, err)
	}

	_, err := Sell(p, "X", 1, 1500, feeRate)
	require.NoError(t, err)

	assert.Equal(t, []int64{1100, 1200}, p.BuyPrices["X"])
}

// -----------------------------------------------------------------------------

func TestTruncationFixtures(t *testing.T) {
	t.Parallel()

	// Cash parity fixtures: values must truncate, never round.
	assert.Equal(t, int64(10003), Cost(10, 1000, feeRate))
	assert.Equal(t, int64(10996), Revenue(10, 1100, feeRate))
	assert.Equal(t, int64(3333), Cost(1, 3333, feeRate))    // 3333.9999
	assert.Equal(t, int64(3332), Revenue(1, 3333, feeRate)) // 3332.0001
}
