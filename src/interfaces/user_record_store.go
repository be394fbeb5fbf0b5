package interfaces

import "stock-simulator/src/models"

// -----------------------------------------------------------------------------
// IUserRecordStore defines the contract for account persistence. Backends
// (flat file, SQLite, Postgres) are interchangeable; the ledger and the
// price engine never talk to a store directly.
// -----------------------------------------------------------------------------

type IUserRecordStore interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the backing schema or file.
	Initialize() error

	// -----------------------------------------------------------------------------

	// Get returns the record for username, or storage.ErrUserNotFound.
	Get(username string) (*models.MUserRecord, error)

	// -----------------------------------------------------------------------------

	// Save upserts the record keyed by its username.
	Save(record *models.MUserRecord) error

	// -----------------------------------------------------------------------------

	// Delete removes the record for username, or storage.ErrUserNotFound.
	Delete(username string) error

	// -----------------------------------------------------------------------------

	// ListAll returns every stored record.
	ListAll() ([]models.MUserRecord, error)

	// -----------------------------------------------------------------------------

	// Close the underlying connection or file handle.
	Close() error
}
