package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stock-simulator/src/helpers"
	"stock-simulator/src/interfaces"
	"stock-simulator/src/models"
	"stock-simulator/src/storage"

	"golang.org/x/crypto/bcrypt"
)

// -----------------------------------------------------------------------------
// Account service: sign-up and log-in against a user record store.
// Passwords are stored as bcrypt hashes only.
// -----------------------------------------------------------------------------

var (
	ErrUserExists    = errors.New("user already exists")
	ErrWrongPassword = errors.New("wrong password")
	ErrUnknownUser   = errors.New("user does not exist")
)

// -----------------------------------------------------------------------------

type Service struct {
	Store        interfaces.IUserRecordStore
	StartingCash int64
}

func NewService(store interfaces.IUserRecordStore, startingCash int64) *Service {
	return &Service{Store: store, StartingCash: startingCash}
}

// -----------------------------------------------------------------------------

// SignUp creates a new account with the starting cash balance and zero
// holdings for every symbol in the given seed list.
func (s *Service) SignUp(username, password string, symbols []string) (*models.MUserRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, helpers.NewValidationError("username and password are required")
	}

	if _, err := s.Store.Get(username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	record := &models.MUserRecord{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
		Portfolio:    *models.NewPortfolio(s.StartingCash, symbols),
	}

	if err := s.Store.Save(record); err != nil {
		return nil, fmt.Errorf("failed to save new user: %w", err)
	}
	return record, nil
}

// -----------------------------------------------------------------------------

// LogIn verifies the credentials and returns the stored record.
func (s *Service) LogIn(username, password string) (*models.MUserRecord, error) {
	record, err := s.Store.Get(username)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)) != nil {
		return nil, ErrWrongPassword
	}
	return record, nil
}
