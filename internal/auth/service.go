package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", models.ErrUnauthorized)

type Service struct {
	store  Store
	tokens *Tokens
	logger *logger.Logger
}

func NewService(store Store, tokens *Tokens, log *logger.Logger) *Service {
	return &Service{store: store, tokens: tokens, logger: log}
}

// Login checks the password and issues a token.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest, requestID string) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, models.ValidationError{Field: "username", Message: "username and password are required"}
	}

	staff, err := s.store.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "load staff", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login_failed", "Invalid password", requestID, map[string]interface{}{"username": username})
		return nil, errInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(staff)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login_succeeded", "Staff logged in", requestID, map[string]interface{}{
		"username": username,
		"role":     string(staff.Role),
	})
	return &models.LoginResponse{Token: token, ExpiresAt: expires, Role: staff.Role}, nil
}

// EnsureAdmin creates or resets the configured admin account. An empty password is a no-op.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.store.Upsert(ctx, username, hash, models.RoleAdmin)
}

// HashPassword hashes a password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
