package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"telegram-admin-backend/internal/domain/model"
	"telegram-admin-backend/internal/domain/ports/adapter"
	"telegram-admin-backend/internal/domain/ports/repository"
	"telegram-admin-backend/internal/infra/logging"
	"telegram-admin-backend/internal/infra/metrics"
)

// Compile-time check
var _ WebhookUseCase = (*webhookUC)(nil)

// maxNotificationRunes keeps the admin notification under Telegram's 4096 character cap.
const maxNotificationRunes = 4000

// WebhookUseCase ingests one inbound Telegram message.
type WebhookUseCase interface {
	HandleUpdate(ctx context.Context, msg *model.InboundMessage) (*model.WebhookResult, error)
}

type webhookUC struct {
	persistenceEnabled bool
	messages           repository.MessageRepository
	gateway            adapter.MessagingGateway
	dev                bool
	log                *zerolog.Logger
}

// NewWebhookUseCase wires the ingestion path. messages may be nil when
// persistenceEnabled is false.
func NewWebhookUseCase(persistenceEnabled bool, messages repository.MessageRepository, gateway adapter.MessagingGateway, dev bool, logger *zerolog.Logger) *webhookUC {
	return &webhookUC{
		persistenceEnabled: persistenceEnabled && messages != nil,
		messages:           messages,
		gateway:            gateway,
		dev:                dev,
		log:                logger,
	}
}

// HandleUpdate persists msg (when enabled) and then notifies the admin chat.
// The two steps are independent: a failed insert does not stop the notification
// and a failed notification does not undo the insert. The returned result always
// carries both outcomes, even when err is non-nil.
func (w *webhookUC) HandleUpdate(ctx context.Context, msg *model.InboundMessage) (*model.WebhookResult, error) {
	defer logging.TraceDuration(w.log, "WebhookUC.HandleUpdate")()

	if msg == nil {
		metrics.IncWebhookUpdate("ignored")
		return model.SkippedWebhookResult(), nil
	}

	ctx = logging.WithUpdateID(ctx, msg.UpdateID)
	log := logging.With(ctx, w.log)
	res := model.SkippedWebhookResult()

	persistErr := w.persist(ctx, msg, res)
	if persistErr != nil {
		log.Error().Err(persistErr).Str("user_id", msg.UserID).Msg("failed to persist inbound message")
	}

	notifyErr := w.notify(ctx, msg, res)
	if notifyErr != nil {
		log.Error().Err(notifyErr).Str("user_id", msg.UserID).Msg("failed to notify admin")
	}

	metrics.ObserveIngestion(string(res.Persisted), string(res.Notified))
	err := errors.Join(persistErr, notifyErr)
	if err != nil {
		metrics.IncWebhookUpdate("error")
		return res, err
	}

	log.Info().
		Str("user_id", msg.UserID).
		Str("text", logging.Redact(msg.Text, w.dev)).
		Str("persisted", string(res.Persisted)).
		Str("notified", string(res.Notified)).
		Msg("inbound message handled")
	metrics.IncWebhookUpdate("ok")
	return res, nil
}

func (w *webhookUC) persist(ctx context.Context, msg *model.InboundMessage, res *model.WebhookResult) error {
	if !w.persistenceEnabled {
		return nil
	}
	rec, err := model.NewInboundMessageRecord(msg)
	if err != nil {
		res.Persisted = model.OutcomeFailed
		return fmt.Errorf("build message record: %w", err)
	}
	if err := w.messages.Create(ctx, repository.NoTX, rec); err != nil {
		res.Persisted = model.OutcomeFailed
		return err
	}
	res.Persisted = model.OutcomeDone
	res.Message = rec
	return nil
}

func (w *webhookUC) notify(ctx context.Context, msg *model.InboundMessage, res *model.WebhookResult) error {
	sent, err := w.gateway.SendAdminNotification(ctx, FormatAdminNotification(msg.UserID, msg.Text))
	switch {
	case err != nil:
		res.Notified = model.OutcomeFailed
		return err
	case sent:
		res.Notified = model.OutcomeDone
	default:
		res.Notified = model.OutcomeSkipped
	}
	return nil
}

// FormatAdminNotification renders the text forwarded to the admin chat.
func FormatAdminNotification(userID, text string) string {
	out := fmt.Sprintf("📩 New message\nFrom: %s\nText: %s", userID, text)
	if r := []rune(out); len(r) > maxNotificationRunes {
		out = string(r[:maxNotificationRunes-1]) + "…"
	}
	return out
}
