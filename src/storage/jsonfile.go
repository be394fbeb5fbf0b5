package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"stock-simulator/src/logger"
	"stock-simulator/src/models"
)

// ErrUserNotFound is returned by Get/Delete for unknown usernames,
// whichever backend is in use.
var ErrUserNotFound = errors.New("user not found")

// -----------------------------------------------------------------------------
// JSONFileStore keeps all user records in a single JSON file, a map of
// username to record. Writes go through a temp file and rename so a crash
// never leaves a half-written database behind.
// -----------------------------------------------------------------------------

type JSONFileStore struct {
	Path   string
	Logger *logger.Logger

	mu sync.Mutex
}

// -----------------------------------------------------------------------------

func NewJSONFileStore(path string, log *logger.Logger) *JSONFileStore {
	return &JSONFileStore{Path: path, Logger: log}
}

// -----------------------------------------------------------------------------

func (s *JSONFileStore) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.Path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return s.writeAllLocked(map[string]models.MUserRecord{})
}

// -----------------------------------------------------------------------------

func (s *JSONFileStore) readAllLocked() (map[string]models.MUserRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]models.MUserRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read user db '%s': %w", s.Path, err)
	}
	if len(data) == 0 {
		return map[string]models.MUserRecord{}, nil
	}

	var users map[string]models.MUserRecord
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse user db '%s': %w", s.Path, err)
	}
	if users == nil {
		users = map[string]models.MUserRecord{}
	}
	return users, nil
}

// -----------------------------------------------------------------------------

func (s *JSONFileStore) writeAllLocked(users map[string]models.MUserRecord) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user db: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write user db: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("failed to replace user db: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *JSONFileStore) Get(username string) (*models.MUserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readAllLocked()
	if err != nil {
		return nil, err
	}
	record, ok := users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &record, nil
}

// -----------------------------------------------------------------------------

func (s *JSONFileStore) Save(record *models.MUserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readAllLocked()
	if err != nil {
		return err
	}
	users[record.Username] = *record
	return s.writeAllLocked(users)
}

// -----------------------------------------------------------------------------

func (s *JSONFileStore) Delete(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readAllLocked()
	if err != nil {
		return err
	}
	if _, ok := users[username]; !ok {
		return ErrUserNotFound
	}
	delete(users, username)
	return s.writeAllLocked(users)
}

// -----------------------------------------------------------------------------

func (s *JSONFileStore) ListAll() ([]models.MUserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readAllLocked()
	if err != nil {
		return nil, err
	}
	out := make([]models.MUserRecord, 0, len(users))
	for _, r := range users {
		out = append(out, r)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

func (s *JSONFileStore) Close() error {
	return nil
}
