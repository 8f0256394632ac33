package adapter

import (
	"context"

	"telegram-admin-backend/internal/domain/model"
)

// MessagingGateway is the outbound side of the bot platform.
type MessagingGateway interface {
	// GetBotIdentity never fails loudly; ok=false means the gateway is unreachable or misconfigured.
	GetBotIdentity(ctx context.Context) (identity *model.BotIdentity, ok bool)
	RegisterWebhook(ctx context.Context, url string) bool
	DeleteWebhook(ctx context.Context) bool
	// SendAdminNotification reports sent=false with a nil error when delivery was skipped
	// (gateway disabled or no admin chat configured).
	SendAdminNotification(ctx context.Context, text string) (sent bool, err error)
	SendMessage(ctx context.Context, chatID int64, text string) error
}
