//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-admin-backend/internal/domain"
	"telegram-admin-backend/internal/domain/model"
	"telegram-admin-backend/internal/domain/ports/adapter"
	"telegram-admin-backend/internal/domain/ports/repository"
)

// =============================
// Adapters
// =============================

type sentMessage struct {
	ChatID int64
	Text   string
}

// MockGateway records notifications and direct sends.
type MockGateway struct {
	mu            sync.Mutex
	Notifications []string
	Sent          []sentMessage

	SendAdminNotificationFunc func(ctx context.Context, text string) (bool, error)
	SendMessageFunc           func(ctx context.Context, chatID int64, text string) error
}

var _ adapter.MessagingGateway = (*MockGateway)(nil)

func (m *MockGateway) GetBotIdentity(ctx context.Context) (*model.BotIdentity, bool) {
	return &model.BotIdentity{ID: 1, Username: "test_bot"}, true
}

func (m *MockGateway) RegisterWebhook(ctx context.Context, url string) bool { return true }

func (m *MockGateway) DeleteWebhook(ctx context.Context) bool { return true }

func (m *MockGateway) SendAdminNotification(ctx context.Context, text string) (bool, error) {
	m.mu.Lock()
	m.Notifications = append(m.Notifications, text)
	m.mu.Unlock()
	if m.SendAdminNotificationFunc != nil {
		return m.SendAdminNotificationFunc(ctx, text)
	}
	return true, nil
}

func (m *MockGateway) SendMessage(ctx context.Context, chatID int64, text string) error {
	if m.SendMessageFunc != nil {
		if err := m.SendMessageFunc(ctx, chatID, text); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

// =============================
// Repositories
// =============================

// MockMessageRepo is an in-memory message store; CreateFunc overrides inserts.
type MockMessageRepo struct {
	mu      sync.Mutex
	nextID  int64
	store   map[int64]*model.Message
	Creates int

	CreateFunc func(ctx context.Context, tx repository.Tx, m *model.Message) error
}

var _ repository.MessageRepository = (*MockMessageRepo)(nil)

func NewMockMessageRepo() *MockMessageRepo {
	return &MockMessageRepo{store: make(map[int64]*model.Message)}
}

func (r *MockMessageRepo) Create(ctx context.Context, tx repository.Tx, m *model.Message) error {
	r.mu.Lock()
	r.Creates++
	r.mu.Unlock()
	if r.CreateFunc != nil {
		return r.CreateFunc(ctx, tx, m)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	cp := *m
	r.store[m.ID] = &cp
	return nil
}

func (r *MockMessageRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *MockMessageRepo) filtered(status model.MessageStatus) []*model.Message {
	var out []*model.Message
	for id := int64(1); id <= r.nextID; id++ {
		m, ok := r.store[id]
		if !ok || (status != "" && m.Status != status) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out
}

func (r *MockMessageRepo) List(ctx context.Context, tx repository.Tx, f model.MessageFilter) ([]*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.filtered(f.Status)
	if f.Offset >= len(all) {
		return nil, nil
	}
	end := f.Offset + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end], nil
}

func (r *MockMessageRepo) Count(ctx context.Context, tx repository.Tx, status model.MessageStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filtered(status)), nil
}

func (r *MockMessageRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.MessageStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[model.MessageStatus]int)
	for _, m := range r.store {
		out[m.Status]++
	}
	return out, nil
}

func (r *MockMessageRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id int64, status model.MessageStatus) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.Status = status
	cp := *m
	return &cp, nil
}

func (r *MockMessageRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store, id)
	return nil
}

// MockAdminUserRepo keeps admins keyed by email.
type MockAdminUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*model.AdminUser
	Touched []string

	TouchLoginFunc func(ctx context.Context, tx repository.Tx, id string) error
}

var _ repository.AdminUserRepository = (*MockAdminUserRepo)(nil)

func NewMockAdminUserRepo() *MockAdminUserRepo {
	return &MockAdminUserRepo{byEmail: make(map[string]*model.AdminUser)}
}

func (r *MockAdminUserRepo) Create(ctx context.Context, tx repository.Tx, u *model.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *MockAdminUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MockAdminUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockAdminUserRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEmail), nil
}

func (r *MockAdminUserRepo) TouchLogin(ctx context.Context, tx repository.Tx, id string) error {
	if r.TouchLoginFunc != nil {
		return r.TouchLoginFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Touched = append(r.Touched, id)
	return nil
}

// =============================
// Transactions & logging
// =============================

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
	Calls      int
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs fn immediately with NoTX unless WithTxFunc is set.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.Calls++
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
