package helpers

import (
	"fmt"
	"time"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type SimulatorError struct {
	Message string
	Cause   error
}

func (e *SimulatorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SimulatorError) Unwrap() error {
	return e.Cause
}

// Distinct error types for type assertions via errors.As.
type ValidationError struct{ SimulatorError }
type QuoteSourceError struct{ SimulatorError }
type DatabaseError struct{ SimulatorError }

// -----------------------------------------------------------------------------

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{SimulatorError{Message: fmt.Sprintf(format, args...)}}
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff attempts to execute the operation up to maxRetries times
// with exponential backoff.
func RetryWithBackoff(operation string, maxRetries int, baseDelay time.Duration, fn func() (interface{}, error)) (interface{}, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		res, err := fn()
		if err == nil {
			return res, nil
		}

		lastErr = err
		if attempt == maxRetries-1 {
			break
		}

		delay := baseDelay * (1 << attempt)
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s failed after %d attempts: %w", operation, maxRetries, lastErr)
}
