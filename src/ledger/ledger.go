package ledger

import (
	"fmt"
	"strings"
	"time"

	"stock-simulator/src/helpers"
	"stock-simulator/src/models"
)

// -----------------------------------------------------------------------------
// Trading ledger: stateless Buy/Sell over a caller-supplied portfolio and a
// caller-supplied current price. No hidden state, no I/O; persistence is the
// caller's problem. Neither call is idempotent, each one executes a trade.
//
// All monetary amounts truncate toward zero. Cost and revenue are computed
// through float64 on purpose: the resulting truncation is part of the cash
// contract (floor(10*1000*1.0003) == 10003) and must not be "fixed" with
// exact decimal arithmetic.
// -----------------------------------------------------------------------------

// InsufficientFundsError is an expected business outcome of Buy, not a fault.
type InsufficientFundsError struct {
	Needed    int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %d, have %d", e.Needed, e.Available)
}

// InsufficientHoldingsError is an expected business outcome of Sell.
type InsufficientHoldingsError struct {
	Symbol    string
	Requested int64
	Held      int64
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("insufficient holdings of %s: want to sell %d, hold %d", e.Symbol, e.Requested, e.Held)
}

// -----------------------------------------------------------------------------

func validate(symbol string, quantity, unitPrice int64) error {
	if strings.TrimSpace(symbol) == "" {
		return helpers.NewValidationError("symbol cannot be blank")
	}
	if quantity <= 0 {
		return helpers.NewValidationError("quantity must be positive, got %d", quantity)
	}
	if unitPrice <= 0 {
		return helpers.NewValidationError("unit price must be positive, got %d", unitPrice)
	}
	return nil
}

// -----------------------------------------------------------------------------

// Cost returns the cash debited by a buy: quantity*unitPrice plus the
// proportional fee, truncated.
func Cost(quantity, unitPrice int64, feeRate float64) int64 {
	return int64(float64(quantity*unitPrice) * (1 + feeRate))
}

// Revenue returns the cash credited by a sell: quantity*unitPrice minus the
// proportional fee, truncated.
func Revenue(quantity, unitPrice int64, feeRate float64) int64 {
	return int64(float64(quantity*unitPrice) * (1 - feeRate))
}

// -----------------------------------------------------------------------------

// Buy executes a purchase against p at unitPrice. On any error the
// portfolio is left untouched. On success it debits cash, increments the
// holding (creating it for a symbol new to this portfolio), appends the
// purchase price to the FIFO cost-basis queue and logs the trade.
func Buy(p *models.MPortfolio, symbol string, quantity, unitPrice int64, feeRate float64) (int64, error) {
	if err := validate(symbol, quantity, unitPrice); err != nil {
		return 0, err
	}

	cost := Cost(quantity, unitPrice, feeRate)
	if cost > p.Cash {
		return 0, &InsufficientFundsError{Needed: cost, Available: p.Cash}
	}

	if p.Holdings == nil {
		p.Holdings = make(map[string]int64)
	}
	if p.BuyPrices == nil {
		p.BuyPrices = make(map[string][]int64)
	}

	p.Cash -= cost
	p.Holdings[symbol] += quantity
	p.BuyPrices[symbol] = append(p.BuyPrices[symbol], unitPrice)
	p.TradeLog = append(p.TradeLog, models.MTradeLogEntry{
		Timestamp: time.Now().UTC(),
		Action:    models.ActionBuy,
		Symbol:    symbol,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	p.TradeCount++

	return cost, nil
}

// -----------------------------------------------------------------------------

// Sell executes a sale against p at unitPrice. On any error the portfolio
// is left untouched. On success it credits cash, decrements the holding and
// pops up to quantity lots from the front of the cost-basis queue.
//
// The pop is capped at the queue length, so the queue can drift out of sync
// with the held quantity. The queue is a best-effort cost-basis trail, not a
// reconciled book.
func Sell(p *models.MPortfolio, symbol string, quantity, unitPrice int64, feeRate float64) (int64, error) {
	if err := validate(symbol, quantity, unitPrice); err != nil {
		return 0, err
	}

	held := p.Holdings[symbol]
	if held < quantity {
		return 0, &InsufficientHoldingsError{Symbol: symbol, Requested: quantity, Held: held}
	}

	revenue := Revenue(quantity, unitPrice, feeRate)
	p.Cash += revenue
	p.Holdings[symbol] -= quantity

	queue := p.BuyPrices[symbol]
	pop := quantity
	if int64(len(queue)) < pop {
		pop = int64(len(queue))
	}
	p.BuyPrices[symbol] = queue[pop:]

	p.TradeLog = append(p.TradeLog, models.MTradeLogEntry{
		Timestamp: time.Now().UTC(),
		Action:    models.ActionSell,
		Symbol:    symbol,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	p.TradeCount++

	return revenue, nil
}
