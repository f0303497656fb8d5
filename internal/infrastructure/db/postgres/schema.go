package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied idempotently at startup. The UNIQUE constraint on
// users.login is the single authority on login uniqueness; the application
// never pre-checks before insert.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	login         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	lastname      TEXT NOT NULL DEFAULT '',
	firstname     TEXT NOT NULL DEFAULT '',
	middlename    TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS deals (
	id               BIGSERIAL PRIMARY KEY,
	title            TEXT NOT NULL,
	client_id        BIGINT NOT NULL REFERENCES users(id),
	responsible_id   BIGINT REFERENCES users(id),
	budget           DOUBLE PRECISION NOT NULL DEFAULT 0,
	status           TEXT NOT NULL DEFAULT 'new',
	stage            TEXT NOT NULL DEFAULT 'new',
	comment          TEXT NOT NULL DEFAULT '',
	reason           TEXT NOT NULL DEFAULT '',
	lawyer           TEXT NOT NULL DEFAULT '',
	contract_number  TEXT NOT NULL DEFAULT '',
	service_type     TEXT NOT NULL DEFAULT '',
	specialist_type  TEXT NOT NULL DEFAULT '',
	desired_date     TIMESTAMPTZ,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	first_contact_at TIMESTAMPTZ,
	reaction_time    BIGINT,
	nps              INT,
	nps_comment      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_deals_client_id      ON deals (client_id);
CREATE INDEX IF NOT EXISTS idx_deals_responsible_id ON deals (responsible_id);
CREATE INDEX IF NOT EXISTS idx_deals_created_at     ON deals (created_at DESC);

CREATE TABLE IF NOT EXISTS services (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	type        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       DOUBLE PRECISION NOT NULL DEFAULT 0
);
`

// EnsureSchema creates the tables and indexes when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
