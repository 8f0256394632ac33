package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"telegram-admin-backend/internal/domain"
	"telegram-admin-backend/internal/domain/model"
	"telegram-admin-backend/internal/domain/ports/repository"
)

var _ repository.MessageRepository = (*MessageRepo)(nil)

const messageColumns = `id, user_id, COALESCE(chat_id, ''), text, status, created_at, updated_at`

type MessageRepo struct {
	db *DB
}

func NewMessageRepo(db *DB) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) Create(ctx context.Context, tx repository.Tx, m *model.Message) error {
	const q = `
INSERT INTO messages (user_id, chat_id, text, status)
VALUES ($1, NULLIF($2, ''), $3, $4)
RETURNING id, created_at, updated_at;`

	ex, err := getExecutor(r.db, tx)
	if err != nil {
		return err
	}
	if m.Status == "" {
		m.Status = model.MessageStatusNew
	}
	row := ex.QueryRow(ctx, q, m.UserID, m.ChatID, m.Text, string(m.Status))
	if err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return wrapErr("insert message", err)
	}
	return nil
}

func (r *MessageRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Message, error) {
	q := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	ex, err := getExecutor(r.db, tx)
	if err != nil {
		return nil, err
	}
	return scanMessage(ex.QueryRow(ctx, q, id))
}

func (r *MessageRepo) List(ctx context.Context, tx repository.Tx, f model.MessageFilter) ([]*model.Message, error) {
	const q = `
SELECT ` + messageColumns + `
  FROM messages
 WHERE ($1::text = '' OR status = $1::text)
 ORDER BY created_at DESC, id DESC
 LIMIT $2 OFFSET $3;`

	ex, err := getExecutor(r.db, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, string(f.Status), f.Limit, f.Offset)
	if err != nil {
		return nil, wrapErr("list messages", err)
	}
	defer rows.Close()

	out := make([]*model.Message, 0, f.Limit)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, wrapErr("list messages", rows.Err())
}

func (r *MessageRepo) Count(ctx context.Context, tx repository.Tx, status model.MessageStatus) (int, error) {
	const q = `SELECT COUNT(*) FROM messages WHERE ($1::text = '' OR status = $1::text);`
	ex, err := getExecutor(r.db, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, q, string(status)).Scan(&n); err != nil {
		return 0, wrapErr("count messages", err)
	}
	return n, nil
}

func (r *MessageRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.MessageStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM messages GROUP BY status;`
	ex, err := getExecutor(r.db, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q)
	if err != nil {
		return nil, wrapErr("count by status", err)
	}
	defer rows.Close()

	out := make(map[model.MessageStatus]int, len(model.MessageStatuses))
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, wrapErr("count by status", err)
		}
		out[model.MessageStatus(status)] = n
	}
	return out, wrapErr("count by status", rows.Err())
}

func (r *MessageRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id int64, status model.MessageStatus) (*model.Message, error) {
	const q = `
UPDATE messages SET status = $2, updated_at = NOW()
 WHERE id = $1
RETURNING ` + messageColumns + `;`
	ex, err := getExecutor(r.db, tx)
	if err != nil {
		return nil, err
	}
	return scanMessage(ex.QueryRow(ctx, q, id, string(status)))
}

func (r *MessageRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	ex, err := getExecutor(r.db, tx)
	if err != nil {
		return err
	}
	tag, err := ex.Exec(ctx, `DELETE FROM messages WHERE id = $1;`, id)
	if err != nil {
		return wrapErr("delete message", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMessage(row pgx.Row) (*model.Message, error) {
	var (
		m      model.Message
		status string
	)
	if err := row.Scan(&m.ID, &m.UserID, &m.ChatID, &m.Text, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("scan message", err)
	}
	m.Status = model.MessageStatus(status)
	return &m, nil
}
