//go:build !integration

package web

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-admin-backend/internal/domain"
	"telegram-admin-backend/internal/domain/model"
	"telegram-admin-backend/internal/usecase"
)

// newTestLogger creates a silent logger for tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// --- Mock use cases ---

type mockWebhookUC struct {
	mu    sync.Mutex
	calls []*model.InboundMessage
	res   *model.WebhookResult
	err   error
}

func (m *mockWebhookUC) HandleUpdate(ctx context.Context, msg *model.InboundMessage) (*model.WebhookResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, msg)
	m.mu.Unlock()
	if m.res != nil || m.err != nil {
		return m.res, m.err
	}
	if msg == nil {
		return model.SkippedWebhookResult(), nil
	}
	return &model.WebhookResult{Persisted: model.OutcomeDone, Notified: model.OutcomeDone}, nil
}

type mockAuthUC struct {
	usecase.AuthUseCase // Embed interface for forward compatibility
	users               map[string]*model.AdminUser
	password            string
	registerErr         error
}

func newMockAuthUC() *mockAuthUC {
	u := &model.AdminUser{ID: "admin-1", Email: "ops@example.com", Name: "ops", Role: "admin", CreatedAt: time.Now()}
	return &mockAuthUC{users: map[string]*model.AdminUser{u.ID: u}, password: "password1"}
}

func (m *mockAuthUC) Register(ctx context.Context, email, password, name string) (*model.AdminUser, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return &model.AdminUser{ID: "admin-2", Email: email, Name: name, Role: "admin"}, nil
}

func (m *mockAuthUC) Login(ctx context.Context, email, password string) (*model.AdminUser, error) {
	for _, u := range m.users {
		if u.Email == email && password == m.password {
			return u, nil
		}
	}
	return nil, domain.ErrUnauthorized
}

func (m *mockAuthUC) Me(ctx context.Context, id string) (*model.AdminUser, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

type mockMessageUC struct {
	usecase.MessageUseCase // Embed interface for forward compatibility
	messages               map[int64]*model.Message
	replyErr               error
	lastFilter             model.MessageFilter
}

func newMockMessageUC() *mockMessageUC {
	return &mockMessageUC{messages: map[int64]*model.Message{
		1: {ID: 1, UserID: "200", ChatID: "100", Text: "hello", Status: model.MessageStatusNew},
	}}
}

func (m *mockMessageUC) List(ctx context.Context, f model.MessageFilter) (*usecase.MessagePage, error) {
	m.lastFilter = f
	f.Limit, f.Offset = usecase.ClampPage(f.Limit, f.Offset)
	var data []*model.Message
	for _, msg := range m.messages {
		data = append(data, msg)
	}
	return &usecase.MessagePage{Data: data, Total: len(data), Limit: f.Limit, Offset: f.Offset}, nil
}

func (m *mockMessageUC) Get(ctx context.Context, id int64) (*model.Message, error) {
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockMessageUC) UpdateStatus(ctx context.Context, id int64, status model.MessageStatus) (*model.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	msg.Status = status
	return msg, nil
}

func (m *mockMessageUC) Delete(ctx context.Context, id int64) error {
	if _, ok := m.messages[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.messages, id)
	return nil
}

func (m *mockMessageUC) Reply(ctx context.Context, id int64, text string) (*model.Message, error) {
	if m.replyErr != nil {
		return nil, m.replyErr
	}
	msg, ok := m.messages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	msg.Status = model.MessageStatusReplied
	return msg, nil
}

func (m *mockMessageUC) Stats(ctx context.Context) (*usecase.MessageStats, error) {
	return &usecase.MessageStats{New: len(m.messages), Total: len(m.messages)}, nil
}

// --- Redis-backed collaborators ---

type mockLimiter struct {
	mu   sync.Mutex
	hits map[string]int
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hits == nil {
		m.hits = make(map[string]int)
	}
	m.hits[key]++
	return m.hits[key] <= limit, nil
}

type mockRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (m *mockRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]time.Time)
	}
	m.revoked[tokenID] = expiresAt
	return nil
}

func (m *mockRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}
