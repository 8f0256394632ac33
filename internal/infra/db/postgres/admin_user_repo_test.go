//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"telegram-admin-backend/internal/domain"
	"telegram-admin-backend/internal/domain/model"
)

func TestAdminUserRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	repo := NewAdminUserRepo(testDB)
	ctx := context.Background()

	t.Run("should create, find and touch login", func(t *testing.T) {
		cleanup(t)
		u, err := model.NewAdminUser("ops@example.com", "Ops", "hash")
		if err != nil {
			t.Fatalf("NewAdminUser: %v", err)
		}
		if err := repo.Create(ctx, nil, u); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		byEmail, err := repo.FindByEmail(ctx, nil, " OPS@example.com ")
		if err != nil {
			t.Fatalf("FindByEmail failed: %v", err)
		}
		if byEmail.ID != u.ID || byEmail.LastLoginAt != nil {
			t.Errorf("unexpected user: %+v", byEmail)
		}

		if err := repo.TouchLogin(ctx, nil, u.ID); err != nil {
			t.Fatalf("TouchLogin failed: %v", err)
		}
		byID, err := repo.FindByID(ctx, nil, u.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if byID.LastLoginAt == nil {
			t.Error("expected last_login_at to be set")
		}

		n, err := repo.Count(ctx, nil)
		if err != nil || n != 1 {
			t.Errorf("Count = %d, err=%v", n, err)
		}
	})

	t.Run("should map duplicate email to ErrAlreadyExists", func(t *testing.T) {
		cleanup(t)
		a, _ := model.NewAdminUser("dup@example.com", "A", "hash")
		b, _ := model.NewAdminUser("dup@example.com", "B", "hash")
		if err := repo.Create(ctx, nil, a); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := repo.Create(ctx, nil, b); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("should return ErrNotFound for unknown email", func(t *testing.T) {
		cleanup(t)
		if _, err := repo.FindByEmail(ctx, nil, "ghost@example.com"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
