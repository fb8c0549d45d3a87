package database

import (
	"context"
	"fmt"
)

const checkoutSchema = `
CREATE TABLE IF NOT EXISTS checkouts (
	id                   UUID PRIMARY KEY,
	owner_key            TEXT NOT NULL,
	listing_kind         TEXT NOT NULL CHECK (listing_kind IN ('apartment', 'event')),
	listing_id           TEXT NOT NULL,
	listing_title        TEXT NOT NULL DEFAULT '',
	state                TEXT NOT NULL,
	approval_url         TEXT,
	last_error           TEXT,
	attempts             INTEGER NOT NULL DEFAULT 0,
	payment_requested_at TIMESTAMPTZ,
	confirmed_at         TIMESTAMPTZ,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_checkouts_owner_key ON checkouts (owner_key, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_checkouts_state_updated ON checkouts (state, updated_at);
`

// EnsureSchema creates the gateway's own tables when they are missing
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.ExecContext(ctx, checkoutSchema); err != nil {
		return fmt.Errorf("failed to ensure checkout schema: %w", err)
	}
	return nil
}
