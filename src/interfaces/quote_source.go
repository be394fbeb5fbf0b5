package interfaces

// -----------------------------------------------------------------------------
// IQuoteSource is the contract for fetching a best-effort last traded price
// for a symbol from an external source.
// -----------------------------------------------------------------------------

type IQuoteSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// GetLastPrice returns the most recent known trading price for symbol.
	// A non-nil error means the quote is unavailable; callers are expected
	// to degrade to a fallback price rather than propagate the failure.
	GetLastPrice(symbol string) (int64, error)
}
