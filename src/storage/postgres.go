package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"stock-simulator/src/logger"
	"stock-simulator/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------
// PostgresStore persists one JSONB document per user, the document-database
// flavor of the user record store.
// -----------------------------------------------------------------------------

type PostgresStore struct {
	ConnectionString string
	Logger           *logger.Logger
	DB               *sql.DB
}

// -----------------------------------------------------------------------------

func NewPostgresStore(connectionString string, log *logger.Logger) *PostgresStore {
	return &PostgresStore{ConnectionString: connectionString, Logger: log}
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) Initialize() error {
	db, err := sql.Open("postgres", s.ConnectionString)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		return err
	}
	s.DB = db

	query := `
		CREATE TABLE IF NOT EXISTS users (
			username TEXT PRIMARY KEY,
			doc      JSONB NOT NULL
		);
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	s.Logger.Info("PostgresStore initialized successfully")
	return nil
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) Get(username string) (*models.MUserRecord, error) {
	var doc []byte
	err := s.DB.QueryRow("SELECT doc FROM users WHERE username = $1", username).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", username, err)
	}

	var record models.MUserRecord
	if err := json.Unmarshal(doc, &record); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", username, err)
	}
	return &record, nil
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) Save(record *models.MUserRecord) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode user %s: %w", record.Username, err)
	}

	query := `
		INSERT INTO users (username, doc) VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET doc = EXCLUDED.doc;
	`
	if _, err := s.DB.Exec(query, record.Username, doc); err != nil {
		return fmt.Errorf("failed to save user %s: %w", record.Username, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) Delete(username string) error {
	res, err := s.DB.Exec("DELETE FROM users WHERE username = $1", username)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) ListAll() ([]models.MUserRecord, error) {
	rows, err := s.DB.Query("SELECT doc FROM users")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var out []models.MUserRecord
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var record models.MUserRecord
		if err := json.Unmarshal(doc, &record); err != nil {
			return nil, fmt.Errorf("failed to decode user row: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
