package types

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type InvitationStatus string

const (
	// Pending is never stored; it is the absence of a response row
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRejected InvitationStatus = "rejected"
)

// A terminal response to a share invitation. At most one row may exist per
// (reminder, invitee) pair; the store enforces this, not the client.
type ShareInvitation struct {
	ReminderID      string             `db:"reminder_id" json:"reminder_id"`
	OwnerIdentity   string             `db:"owner_identity" json:"owner_identity"`
	InviteeIdentity string             `db:"invitee_identity" json:"invitee_identity"`
	Status          InvitationStatus   `db:"status" json:"status"`
	RespondedAt     pgtype.Timestamptz `db:"responded_at" json:"responded_at"`
}

// Returned on share, identifies the invitation the owner can now hand out
type InvitationRef struct {
	ReminderID    string    `json:"reminder_id"`
	OwnerIdentity string    `json:"owner_identity"`
	SharedAt      time.Time `json:"shared_at"`
}

type ShareResponse struct {
	Invitation InvitationRef `json:"invitation"`
	// Set when the owner has no push subscription registered, so a later
	// rejection cannot be delivered to them
	Warning string `json:"warning,omitempty"`
}

type AcceptResponse struct {
	Reminder        Reminder `json:"reminder"`
	AlreadyAccepted bool     `json:"already_accepted"`
	Message         string   `json:"message,omitempty"`
	Warning         string   `json:"warning,omitempty"`
}

type RejectResponse struct {
	AlreadyRejected bool   `json:"already_rejected"`
	Message         string `json:"message,omitempty"`
}
