package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-admin-backend/internal/domain"
	"telegram-admin-backend/internal/domain/model"
	"telegram-admin-backend/internal/domain/ports/adapter"
)

var _ adapter.MessagingGateway = (*NoopGateway)(nil)

// NoopGateway stands in when no bot token is configured.
// It logs instead of calling Telegram and reports every send as skipped.
type NoopGateway struct {
	log *zerolog.Logger
}

func NewNoopGateway(logger *zerolog.Logger) *NoopGateway {
	compLog := logger.With().Str("component", "noop-telegram").Logger()
	return &NoopGateway{log: &compLog}
}

func (n *NoopGateway) GetBotIdentity(ctx context.Context) (*model.BotIdentity, bool) {
	n.log.Warn().Msg("telegram gateway disabled; no bot identity")
	return nil, false
}

func (n *NoopGateway) RegisterWebhook(ctx context.Context, url string) bool {
	n.log.Warn().Str("url", url).Msg("telegram gateway disabled; webhook not registered")
	return false
}

func (n *NoopGateway) DeleteWebhook(ctx context.Context) bool { return false }

func (n *NoopGateway) SendAdminNotification(ctx context.Context, text string) (bool, error) {
	n.log.Debug().Int("len", len(text)).Msg("telegram gateway disabled; notification skipped")
	return false, nil
}

func (n *NoopGateway) SendMessage(ctx context.Context, chatID int64, text string) error {
	return domain.ErrGatewayDisabled
}
