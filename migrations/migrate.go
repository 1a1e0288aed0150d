// Schema bootstrap. Statements are idempotent and run on every boot.
package migrations

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		identity TEXT PRIMARY KEY,
		api_token TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reminders (
		id UUID PRIMARY KEY,
		owner_identity TEXT NOT NULL REFERENCES users(identity),
		assigned_identity TEXT NOT NULL,
		subject TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		due_at TIMESTAMPTZ,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		notify_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		notified_at TIMESTAMPTZ,
		shared_at TIMESTAMPTZ,
		shared_from UUID REFERENCES reminders(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS reminders_assigned_idx ON reminders (assigned_identity)`,
	`CREATE INDEX IF NOT EXISTS reminders_due_idx ON reminders (due_at) WHERE notify_enabled AND NOT completed AND notified_at IS NULL`,
	`CREATE TABLE IF NOT EXISTS share_invitations (
		reminder_id UUID NOT NULL REFERENCES reminders(id) ON DELETE CASCADE,
		owner_identity TEXT NOT NULL,
		invitee_identity TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('accepted', 'rejected')),
		responded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (reminder_id, invitee_identity)
	)`,
	`CREATE TABLE IF NOT EXISTS push_subscriptions (
		identity TEXT NOT NULL REFERENCES users(identity),
		notif_id TEXT NOT NULL UNIQUE,
		auth TEXT NOT NULL,
		p256dh TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		ua TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS push_subscriptions_identity_idx ON push_subscriptions (identity)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range statements {
		_, err := pool.Exec(ctx, stmt)

		if err != nil {
			return err
		}
	}

	return nil
}
