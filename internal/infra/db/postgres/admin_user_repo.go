package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"telegram-admin-backend/internal/domain"
	"telegram-admin-backend/internal/domain/model"
	"telegram-admin-backend/internal/domain/ports/repository"
)

var _ repository.AdminUserRepository = (*AdminUserRepo)(nil)

const adminUserColumns = `id, email, name, role, password_hash, created_at, last_login_at`

type AdminUserRepo struct {
	db *DB
}

func NewAdminUserRepo(db *DB) *AdminUserRepo {
	return &AdminUserRepo{db: db}
}

func (r *AdminUserRepo) Create(ctx context.Context, tx repository.Tx, u *model.AdminUser) error {
	const q = `
INSERT INTO admin_users (id, email, name, role, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5, $6);`
	ex, err := getExecutor(r.db, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q, u.ID, u.Email, u.Name, u.Role, u.PasswordHash, u.CreatedAt); err != nil {
		err = wrapErr("insert admin user", err)
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *AdminUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.AdminUser, error) {
	ex, err := getExecutor(r.db, tx)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + adminUserColumns + ` FROM admin_users WHERE email = $1;`
	return scanAdminUser(ex.QueryRow(ctx, q, model.NormalizeEmail(email)))
}

func (r *AdminUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.AdminUser, error) {
	ex, err := getExecutor(r.db, tx)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + adminUserColumns + ` FROM admin_users WHERE id = $1;`
	return scanAdminUser(ex.QueryRow(ctx, q, id))
}

func (r *AdminUserRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	ex, err := getExecutor(r.db, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, `SELECT COUNT(*) FROM admin_users;`).Scan(&n); err != nil {
		return 0, wrapErr("count admin users", err)
	}
	return n, nil
}

func (r *AdminUserRepo) TouchLogin(ctx context.Context, tx repository.Tx, id string) error {
	ex, err := getExecutor(r.db, tx)
	if err != nil {
		return err
	}
	tag, err := ex.Exec(ctx, `UPDATE admin_users SET last_login_at = NOW() WHERE id = $1;`, id)
	if err != nil {
		return wrapErr("touch admin login", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAdminUser(row pgx.Row) (*model.AdminUser, error) {
	var u model.AdminUser
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.LastLoginAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("scan admin user", err)
	}
	return &u, nil
}
