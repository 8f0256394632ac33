package repository

import (
	"context"

	"telegram-admin-backend/internal/domain/model"
)

type AdminUserRepository interface {
	Create(ctx context.Context, tx Tx, u *model.AdminUser) error
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.AdminUser, error)
	FindByID(ctx context.Context, tx Tx, id string) (*model.AdminUser, error)
	Count(ctx context.Context, tx Tx) (int, error)
	TouchLogin(ctx context.Context, tx Tx, id string) error
}
