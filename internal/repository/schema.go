package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS reservations (
	id            BIGSERIAL PRIMARY KEY,
	booking_ref   UUID        NOT NULL,
	name          TEXT        NOT NULL,
	email         TEXT        NOT NULL,
	phone         TEXT        NOT NULL,
	party_size    INTEGER     NOT NULL CHECK (party_size >= 1),
	date          TEXT        NOT NULL,
	time          TEXT        NOT NULL,
	tables_needed INTEGER     NOT NULL,
	expires_at    TIMESTAMPTZ NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS reservations_date_time_idx ON reservations (date, time);
CREATE INDEX IF NOT EXISTS reservations_expires_at_idx ON reservations (expires_at);
CREATE INDEX IF NOT EXISTS reservations_booking_ref_idx ON reservations (booking_ref);
`

// EnsureSchema creates the reservations table and its indexes if missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
