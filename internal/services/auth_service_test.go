package services

import (
	"context"
	"errors"
	"testing"

	"auction-house/internal/aucterrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewRepository(db))
	ctx := context.Background()

	user, err := svc.Register(ctx, &models.RegisterRequest{
		Username:     "alice",
		Email:        "a@x.com",
		Password:     "pw",
		Confirmation: "pw",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected username alice, got %s", user.Username)
	}
	if user.PasswordHash == "pw" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	authed, err := svc.Authenticate(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if authed.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, authed.ID)
	}

	// Wrong password is an expected outcome, not a server fault
	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, aucterrors.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "pw"); !errors.Is(err, aucterrors.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for unknown user, got %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewRepository(db))
	ctx := context.Background()

	req := &models.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw", Confirmation: "pw"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.Register(ctx, req); !errors.Is(err, aucterrors.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewRepository(db))
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"password_mismatch", models.RegisterRequest{Username: "bob", Password: "pw", Confirmation: "other"}},
		{"blank_username", models.RegisterRequest{Username: "  ", Password: "pw", Confirmation: "pw"}},
		{"blank_password", models.RegisterRequest{Username: "bob", Password: "", Confirmation: ""}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, &tc.req); !errors.Is(err, aucterrors.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}
