package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"stock-simulator/src/logger"
	"stock-simulator/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------
// SQLiteStore persists one JSON document per user in a local SQLite file.
// -----------------------------------------------------------------------------

type SQLiteStore struct {
	Path   string
	Logger *logger.Logger
	DB     *sql.DB
}

// -----------------------------------------------------------------------------

func NewSQLiteStore(path string, log *logger.Logger) *SQLiteStore {
	return &SQLiteStore{Path: path, Logger: log}
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) Initialize() error {
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		return err
	}
	s.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		s.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		s.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	query := `
		CREATE TABLE IF NOT EXISTS users (
			username TEXT PRIMARY KEY,
			doc      TEXT NOT NULL
		);
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) Get(username string) (*models.MUserRecord, error) {
	var doc string
	err := s.DB.QueryRow("SELECT doc FROM users WHERE username = ?", username).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", username, err)
	}

	var record models.MUserRecord
	if err := json.Unmarshal([]byte(doc), &record); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", username, err)
	}
	return &record, nil
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) Save(record *models.MUserRecord) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode user %s: %w", record.Username, err)
	}

	query := `
		INSERT INTO users (username, doc) VALUES (?, ?)
		ON CONFLICT(username) DO UPDATE SET doc = excluded.doc;
	`
	if _, err := s.DB.Exec(query, record.Username, string(doc)); err != nil {
		return fmt.Errorf("failed to save user %s: %w", record.Username, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) Delete(username string) error {
	res, err := s.DB.Exec("DELETE FROM users WHERE username = ?", username)
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

func (s *SQLiteStore) ListAll() ([]models.MUserRecord, error) {
	rows, err := s.DB.Query("SELECT doc FROM users")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var out []models.MUserRecord
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var record models.MUserRecord
		if err := json.Unmarshal([]byte(doc), &record); err != nil {
			return nil, fmt.Errorf("failed to decode user row: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
