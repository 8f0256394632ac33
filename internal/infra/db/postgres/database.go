package postgres

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"telegram-admin-backend/internal/domain"
)

// DB is the access shim over a lazily created pgx pool. Nothing touches the
// network until the first statement runs; Close is safe to call repeatedly.
type DB struct {
	dsn      string
	maxConns int32
	log      *zerolog.Logger

	mu     sync.Mutex
	pool   *pgxpool.Pool
	closed bool
}

func NewDB(dsn string, maxConns int32, logger *zerolog.Logger) *DB {
	compLog := logger.With().Str("component", "postgres").Logger()
	return &DB{dsn: dsn, maxConns: maxConns, log: &compLog}
}

func (d *DB) acquirePool(ctx context.Context) (*pgxpool.Pool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, &domain.DatabaseError{Op: "connect", Err: domain.ErrDatabaseClosed}
	}
	if d.pool != nil {
		return d.pool, nil
	}

	cfg, err := pgxpool.ParseConfig(d.dsn)
	if err != nil {
		return nil, wrapErr("connect", err)
	}
	if d.maxConns > 0 {
		cfg.MaxConns = d.maxConns
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, wrapErr("connect", err)
	}
	d.log.Info().Int32("max_conns", cfg.MaxConns).Msg("database pool connected")
	d.pool = pool
	return pool, nil
}

func (d *DB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	pool, err := d.acquirePool(ctx)
	if err != nil {
		return nil, err
	}
	tag, err := pool.Exec(ctx, sql, args...)
	return tag, wrapErr("exec", err)
}

func (d *DB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	pool, err := d.acquirePool(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapErr("query", err)
	}
	return rows, nil
}

func (d *DB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	pool, err := d.acquirePool(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return pool.QueryRow(ctx, sql, args...)
}

func (d *DB) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	pool, err := d.acquirePool(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := pool.BeginTx(ctx, opts)
	return tx, wrapErr("begin", err)
}

// Stats reports pool counters; ok is false until the pool exists.
func (d *DB) Stats() (total, idle, inUse int32, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pool == nil || d.closed {
		return 0, 0, 0, false
	}
	s := d.pool.Stat()
	return s.TotalConns(), s.IdleConns(), s.AcquiredConns(), true
}

// Close releases pooled connections. Later statements fail with ErrDatabaseClosed.
func (d *DB) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.pool != nil {
		d.pool.Close()
		d.pool = nil
		d.log.Info().Msg("database pool closed")
	}
}

type errRow struct{ err error }

func (r errRow) Scan(...interface{}) error { return r.err }

// wrapErr turns driver failures into *domain.DatabaseError. pgx.ErrNoRows is
// returned untouched so repositories can map it to domain.ErrNotFound.
func wrapErr(op string, err error) error {
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	var dbErr *domain.DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}
	e := &domain.DatabaseError{Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		e.Code = pgErr.Code
	}
	return e
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var dbErr *domain.DatabaseError
	return errors.As(err, &dbErr) && dbErr.Code == uniqueViolation
}
