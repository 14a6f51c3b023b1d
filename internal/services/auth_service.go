package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"auction-house/internal/aucterrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/internal/utils"
)

// AuthService handles registration and credential authentication
type AuthService struct {
	repo *repository.Repository
}

// NewAuthService creates a new AuthService
func NewAuthService(repo *repository.Repository) *AuthService {
	return &AuthService{repo: repo}
}

// Register creates a new user account. The username must be unused and the
// password must match its confirmation.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", aucterrors.ErrValidation)
	}
	if req.Password != req.Confirmation {
		return nil, fmt.Errorf("%w: passwords must match", aucterrors.ErrValidation)
	}

	existing, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", aucterrors.ErrConflict, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		// Unique index backstop for a racing duplicate registration
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", aucterrors.ErrConflict, username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	utils.Info("user registered", map[string]any{"user_id": user.ID, "username": user.Username})
	return user, nil
}

// Authenticate verifies a username/password pair. A wrong password is an
// expected outcome and surfaces as ErrUnauthorized, never as a server fault.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}
	if user == nil {
		return nil, aucterrors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, aucterrors.ErrUnauthorized
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// isUniqueViolation reports whether err looks like a unique constraint error.
// Matched by message so it covers both the postgres and sqlite drivers.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
