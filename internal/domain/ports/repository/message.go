package repository

import (
	"context"

	"telegram-admin-backend/internal/domain/model"
)

type MessageRepository interface {
	// Create inserts m and fills in the store-assigned fields.
	Create(ctx context.Context, tx Tx, m *model.Message) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Message, error)
	List(ctx context.Context, tx Tx, f model.MessageFilter) ([]*model.Message, error)
	Count(ctx context.Context, tx Tx, status model.MessageStatus) (int, error)
	CountByStatus(ctx context.Context, tx Tx) (map[model.MessageStatus]int, error)
	UpdateStatus(ctx context.Context, tx Tx, id int64, status model.MessageStatus) (*model.Message, error)
	Delete(ctx context.Context, tx Tx, id int64) error
}
