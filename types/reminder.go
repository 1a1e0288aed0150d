package types

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// A reminder instance. The owner keeps their own copy; every accepted share
// produces a new row with the same owner but a different assigned identity,
// after which the two copies live independently.
type Reminder struct {
	ID               string             `db:"id" json:"id" description:"The ID of the reminder"`
	OwnerIdentity    string             `db:"owner_identity" json:"owner_identity" description:"Identity of the creator. Immutable after creation"`
	AssignedIdentity string             `db:"assigned_identity" json:"assigned_identity" description:"Identity of the current holder of this copy"`
	Subject          string             `db:"subject" json:"subject"`
	Description      string             `db:"description" json:"description"`
	DueAt            pgtype.Timestamptz `db:"due_at" json:"due_at" description:"When the reminder should trigger. Required if notify_enabled"`
	Completed        bool               `db:"completed" json:"completed"`
	NotifyEnabled    bool               `db:"notify_enabled" json:"notify_enabled" description:"Whether a push notification should fire at due_at"`
	NotifiedAt       pgtype.Timestamptz `db:"notified_at" json:"-"`
	SharedAt         pgtype.Timestamptz `db:"shared_at" json:"shared_at" description:"When the owner last issued a share invitation, if ever"`
	SharedFrom       pgtype.Text        `db:"shared_from" json:"-"` // owner-copy ID this copy was accepted from
	CreatedAt        time.Time          `db:"created_at" json:"created_at"`

	// Derived per-viewer on every load, never persisted or trusted from the wire
	FromOwner bool `db:"-" json:"from_owner" description:"Whether this copy was received via sharing rather than self-created"`
	IsExpired bool `db:"-" json:"is_expired" description:"Whether the reminder is past due and not completed"`
}

type ReminderList struct {
	Reminders []Reminder `json:"reminders"`
}

type CreateReminder struct {
	Subject       string `json:"subject" validate:"required,notblank,max=100"`
	Description   string `json:"description" validate:"max=2000"`
	DueAt         *int64 `json:"due_at" description:"Unix timestamp (seconds) of the trigger time, if any"`
	NotifyEnabled bool   `json:"notify_enabled"`
}

type UpdateReminder struct {
	Subject       string `json:"subject" validate:"required,notblank,max=100"`
	Description   string `json:"description" validate:"max=2000"`
	DueAt         *int64 `json:"due_at"`
	NotifyEnabled bool   `json:"notify_enabled"`
}

type SetCompleted struct {
	Completed bool `json:"completed"`
}
