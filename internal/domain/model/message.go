package model

import (
	"strings"
	"time"

	"telegram-admin-backend/internal/domain"
)

type MessageStatus string

const (
	MessageStatusNew      MessageStatus = "new"
	MessageStatusRead     MessageStatus = "read"
	MessageStatusReplied  MessageStatus = "replied"
	MessageStatusArchived MessageStatus = "archived"
)

// MessageStatuses lists every status in display order.
var MessageStatuses = []MessageStatus{
	MessageStatusNew,
	MessageStatusRead,
	MessageStatusReplied,
	MessageStatusArchived,
}

// ParseMessageStatus normalizes s and checks it against the known statuses.
func ParseMessageStatus(s string) (MessageStatus, error) {
	st := MessageStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", domain.ErrInvalidArgument
	}
	return st, nil
}

func (s MessageStatus) Valid() bool {
	for _, known := range MessageStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Message is an inbound Telegram message stored for the admin panel.
// ID and CreatedAt are assigned by the store.
type Message struct {
	ID        int64         `json:"id"`
	UserID    string        `json:"user_id"`
	ChatID    string        `json:"chat_id,omitempty"`
	Text      string        `json:"text"`
	Status    MessageStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewInboundMessageRecord builds the row persisted for a webhook message.
func NewInboundMessageRecord(in *InboundMessage) (*Message, error) {
	if in == nil || in.UserID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Message{
		UserID: in.UserID,
		ChatID: in.ChatID,
		Text:   in.Text,
		Status: MessageStatusNew,
	}, nil
}

// ReplyChatID is the chat a reply should go to. Private chats share the user id.
func (m *Message) ReplyChatID() string {
	if m.ChatID != "" {
		return m.ChatID
	}
	return m.UserID
}

// MessageFilter narrows message listings. Empty Status means all.
type MessageFilter struct {
	Status MessageStatus
	Offset int
	Limit  int
}
