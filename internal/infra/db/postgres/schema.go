package postgres

import "context"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS messages (
  id          BIGSERIAL PRIMARY KEY,
  user_id     VARCHAR(64) NOT NULL,
  chat_id     VARCHAR(64),
  text        TEXT NOT NULL DEFAULT '',
  status      VARCHAR(20) NOT NULL DEFAULT 'new',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_status ON messages (status)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
  id             UUID PRIMARY KEY,
  email          VARCHAR(255) NOT NULL UNIQUE,
  name           VARCHAR(255) NOT NULL,
  role           VARCHAR(32) NOT NULL DEFAULT 'admin',
  password_hash  TEXT NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  last_login_at  TIMESTAMPTZ
)`,
}

// InitializeTables creates the schema if missing. Safe to run on every startup.
func (d *DB) InitializeTables(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := d.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	d.log.Info().Int("statements", len(schemaStatements)).Msg("database tables initialized")
	return nil
}
