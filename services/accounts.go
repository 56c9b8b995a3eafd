package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/MatsalakO/social-meda-api/models"
	"github.com/MatsalakO/social-meda-api/store"
	"github.com/MatsalakO/social-meda-api/utils"
)

const minPasswordLength = 8

// AccountService is the thin identity layer: email/password accounts only.
type AccountService struct {
	store store.Store
	log   *zap.Logger
}

// NewAccountService creates an AccountService.
func NewAccountService(st store.Store, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{store: st, log: logger}
}

// Register creates an account with a bcrypt-hashed password.
func (s *AccountService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, newError(ErrInvalid, "email: Enter a valid email address.")
	}
	if len(password) < minPasswordLength {
		return nil, newError(ErrInvalid, "password: Ensure this field has at least 8 characters.")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{Email: email, PasswordHash: hash}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, newError(ErrConflict, "A user with that email already exists.")
		}
		return nil, err
	}
	s.log.Info("account registered", zap.Uint("user_id", u.ID))
	return u, nil
}

// Authenticate checks credentials and returns the matching account.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	invalid := newError(ErrUnauthorized, "Invalid email or password.")
	u, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if !utils.CheckPassword(u.PasswordHash, password) {
		return nil, invalid
	}
	return u, nil
}

// GetAccount returns the account with id.
func (s *AccountService) GetAccount(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found.")
		}
		return nil, err
	}
	return u, nil
}
