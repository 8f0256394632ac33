package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-admin-backend/internal/domain"
	"telegram-admin-backend/internal/domain/model"
	"telegram-admin-backend/internal/domain/ports/adapter"
	"telegram-admin-backend/internal/domain/ports/repository"
	"telegram-admin-backend/internal/infra/logging"
)

// Compile-time check
var _ MessageUseCase = (*messageUC)(nil)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// MessagePage is one page of a message listing.
type MessagePage struct {
	Data   []*model.Message `json:"data"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// MessageStats counts messages per status.
type MessageStats struct {
	New      int `json:"new"`
	Read     int `json:"read"`
	Replied  int `json:"replied"`
	Archived int `json:"archived"`
	Total    int `json:"total"`
}

// MessageUseCase backs the admin message management routes.
type MessageUseCase interface {
	List(ctx context.Context, f model.MessageFilter) (*MessagePage, error)
	Get(ctx context.Context, id int64) (*model.Message, error)
	UpdateStatus(ctx context.Context, id int64, status model.MessageStatus) (*model.Message, error)
	Delete(ctx context.Context, id int64) error
	Reply(ctx context.Context, id int64, text string) (*model.Message, error)
	Stats(ctx context.Context) (*MessageStats, error)
}

type messageUC struct {
	messages repository.MessageRepository
	gateway  adapter.MessagingGateway
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewMessageUseCase(messages repository.MessageRepository, gateway adapter.MessagingGateway, tm repository.TransactionManager, logger *zerolog.Logger) *messageUC {
	return &messageUC{messages: messages, gateway: gateway, tm: tm, log: logger}
}

// ClampPage applies the listing defaults and bounds.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (m *messageUC) List(ctx context.Context, f model.MessageFilter) (*MessagePage, error) {
	defer logging.TraceDuration(m.log, "MessageUC.List")()

	if f.Status != "" && !f.Status.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	f.Limit, f.Offset = ClampPage(f.Limit, f.Offset)

	items, err := m.messages.List(ctx, repository.NoTX, f)
	if err != nil {
		return nil, err
	}
	total, err := m.messages.Count(ctx, repository.NoTX, f.Status)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Message{}
	}
	return &MessagePage{Data: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (m *messageUC) Get(ctx context.Context, id int64) (*model.Message, error) {
	defer logging.TraceDuration(m.log, "MessageUC.Get")()
	return m.messages.FindByID(ctx, repository.NoTX, id)
}

func (m *messageUC) UpdateStatus(ctx context.Context, id int64, status model.MessageStatus) (*model.Message, error) {
	defer logging.TraceDuration(m.log, "MessageUC.UpdateStatus")()
	if !status.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	return m.messages.UpdateStatus(ctx, repository.NoTX, id, status)
}

func (m *messageUC) Delete(ctx context.Context, id int64) error {
	defer logging.TraceDuration(m.log, "MessageUC.Delete")()
	return m.messages.Delete(ctx, repository.NoTX, id)
}

// Reply sends text to the chat the message came from and marks it replied.
// The row is locked for the duration so concurrent replies do not interleave.
func (m *messageUC) Reply(ctx context.Context, id int64, text string) (*model.Message, error) {
	defer logging.TraceDuration(m.log, "MessageUC.Reply")()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidArgument
	}

	var updated *model.Message
	err := m.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		msg, err := m.messages.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		chatID, err := strconv.ParseInt(msg.ReplyChatID(), 10, 64)
		if err != nil {
			return fmt.Errorf("message %d chat %q: %w", id, msg.ReplyChatID(), domain.ErrNoReplyChat)
		}
		if err := m.gateway.SendMessage(ctx, chatID, text); err != nil {
			return err
		}
		updated, err = m.messages.UpdateStatus(ctx, tx, id, model.MessageStatusReplied)
		return err
	})
	if err != nil {
		logging.With(ctx, m.log).Error().Err(err).Int64("message_id", id).Msg("reply failed")
		return nil, err
	}
	return updated, nil
}

func (m *messageUC) Stats(ctx context.Context) (*MessageStats, error) {
	defer logging.TraceDuration(m.log, "MessageUC.Stats")()

	counts, err := m.messages.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	s := &MessageStats{
		New:      counts[model.MessageStatusNew],
		Read:     counts[model.MessageStatusRead],
		Replied:  counts[model.MessageStatusReplied],
		Archived: counts[model.MessageStatusArchived],
	}
	for _, n := range counts {
		s.Total += n
	}
	return s, nil
}
