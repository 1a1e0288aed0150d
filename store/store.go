// Postgres persistence for reminders, share invitations and push
// subscriptions. The store is the single source of truth for terminal
// invitation state: duplicate accept/reject attempts are serialized by the
// (reminder_id, invitee_identity) primary key, never inferred client-side.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"remindshare/db"
	"remindshare/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("store: not found")

var (
	reminderColsArr = db.GetCols(types.Reminder{})
	reminderCols    = strings.Join(reminderColsArr, ",")

	invitationColsArr = db.GetCols(types.ShareInvitation{})
	invitationCols    = strings.Join(invitationColsArr, ",")
)

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) CreateReminder(ctx context.Context, owner, subject, description string, dueAt *time.Time, notifyEnabled bool) (types.Reminder, error) {
	id := uuid.New().String()

	_, err := s.pool.Exec(
		ctx,
		"INSERT INTO reminders (id, owner_identity, assigned_identity, subject, description, due_at, completed, notify_enabled) VALUES ($1, $2, $2, $3, $4, $5, false, $6)",
		id,
		owner,
		subject,
		description,
		dueAt,
		notifyEnabled,
	)

	if err != nil {
		return types.Reminder{}, err
	}

	return s.GetReminder(ctx, id)
}

func (s *Postgres) GetReminder(ctx context.Context, id string) (types.Reminder, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+reminderCols+" FROM reminders WHERE id = $1", id)

	if err != nil {
		return types.Reminder{}, err
	}

	reminder, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[types.Reminder])

	if errors.Is(err, pgx.ErrNoRows) {
		return types.Reminder{}, ErrNotFound
	}

	if err != nil {
		return types.Reminder{}, err
	}

	return reminder, nil
}

// ListReminders returns every copy held by an identity: self-created
// reminders plus accepted shared-in copies.
func (s *Postgres) ListReminders(ctx context.Context, identity string) ([]types.Reminder, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+reminderCols+" FROM reminders WHERE assigned_identity = $1 ORDER BY created_at DESC", identity)

	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[types.Reminder])
}

// ListAssignedReminders returns only the accepted shared-in copies.
func (s *Postgres) ListAssignedReminders(ctx context.Context, identity string) ([]types.Reminder, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+reminderCols+" FROM reminders WHERE assigned_identity = $1 AND owner_identity != $1 ORDER BY created_at DESC", identity)

	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[types.Reminder])
}

func (s *Postgres) UpdateReminder(ctx context.Context, id, subject, description string, dueAt *time.Time, notifyEnabled bool) error {
	tag, err := s.pool.Exec(
		ctx,
		"UPDATE reminders SET subject = $2, description = $3, due_at = $4, notify_enabled = $5, notified_at = NULL WHERE id = $1",
		id,
		subject,
		description,
		dueAt,
		notifyEnabled,
	)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Postgres) DeleteReminder(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM reminders WHERE id = $1", id)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Postgres) SetCompleted(ctx context.Context, id string, completed bool) error {
	tag, err := s.pool.Exec(ctx, "UPDATE reminders SET completed = $2 WHERE id = $1", id)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CreateInvitation marks the owner's copy as shared. Re-sharing refreshes the
// mark and is harmless.
func (s *Postgres) CreateInvitation(ctx context.Context, reminderID, owner string) (types.InvitationRef, error) {
	now := time.Now()

	tag, err := s.pool.Exec(
		ctx,
		"UPDATE reminders SET shared_at = $3 WHERE id = $1 AND owner_identity = $2 AND assigned_identity = $2",
		reminderID,
		owner,
		now,
	)

	if err != nil {
		return types.InvitationRef{}, err
	}

	if tag.RowsAffected() == 0 {
		return types.InvitationRef{}, ErrNotFound
	}

	return types.InvitationRef{
		ReminderID:    reminderID,
		OwnerIdentity: owner,
		SharedAt:      now,
	}, nil
}

func (s *Postgres) GetInvitation(ctx context.Context, reminderID, invitee string) (types.ShareInvitation, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+invitationCols+" FROM share_invitations WHERE reminder_id = $1 AND invitee_identity = $2", reminderID, invitee)

	if err != nil {
		return types.ShareInvitation{}, err
	}

	invitation, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[types.ShareInvitation])

	if errors.Is(err, pgx.ErrNoRows) {
		return types.ShareInvitation{}, ErrNotFound
	}

	if err != nil {
		return types.ShareInvitation{}, err
	}

	return invitation, nil
}

// AcceptInvitation records a pending -> accepted transition and creates the
// invitee's independent copy. If a terminal response already exists it is
// returned unchanged along with the invitee's copy (if any); no new rows are
// created. The insert races on the primary key, so two concurrent accepts
// resolve to one fresh accept and one already-accepted result.
func (s *Postgres) AcceptInvitation(ctx context.Context, reminderID, invitee string) (types.Reminder, *types.ShareInvitation, error) {
	tx, err := s.pool.Begin(ctx)

	if err != nil {
		return types.Reminder{}, nil, err
	}

	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, "SELECT "+reminderCols+" FROM reminders WHERE id = $1 AND owner_identity = assigned_identity", reminderID)

	if err != nil {
		return types.Reminder{}, nil, err
	}

	original, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[types.Reminder])

	if errors.Is(err, pgx.ErrNoRows) {
		return types.Reminder{}, nil, ErrNotFound
	}

	if err != nil {
		return types.Reminder{}, nil, err
	}

	tag, err := tx.Exec(
		ctx,
		"INSERT INTO share_invitations (reminder_id, owner_identity, invitee_identity, status, responded_at) VALUES ($1, $2, $3, 'accepted', NOW()) ON CONFLICT (reminder_id, invitee_identity) DO NOTHING",
		reminderID,
		original.OwnerIdentity,
		invitee,
	)

	if err != nil {
		return types.Reminder{}, nil, err
	}

	if tag.RowsAffected() == 0 {
		// Terminal response already exists, surface it as-is
		prior, err := s.getInvitationTx(ctx, tx, reminderID, invitee)

		if err != nil {
			return types.Reminder{}, nil, err
		}

		var copy types.Reminder

		if prior.Status == types.InvitationStatusAccepted {
			copyRows, err := tx.Query(ctx, "SELECT "+reminderCols+" FROM reminders WHERE shared_from = $1 AND assigned_identity = $2", reminderID, invitee)

			if err != nil {
				return types.Reminder{}, nil, err
			}

			copy, err = pgx.CollectOneRow(copyRows, pgx.RowToStructByName[types.Reminder])

			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return types.Reminder{}, nil, err
			}
		}

		return copy, &prior, tx.Commit(ctx)
	}

	copyID := uuid.New().String()

	_, err = tx.Exec(
		ctx,
		"INSERT INTO reminders (id, owner_identity, assigned_identity, subject, description, due_at, completed, notify_enabled, shared_from) VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8)",
		copyID,
		original.OwnerIdentity,
		invitee,
		original.Subject,
		original.Description,
		original.DueAt,
		original.NotifyEnabled,
		reminderID,
	)

	if err != nil {
		return types.Reminder{}, nil, err
	}

	copyRows, err := tx.Query(ctx, "SELECT "+reminderCols+" FROM reminders WHERE id = $1", copyID)

	if err != nil {
		return types.Reminder{}, nil, err
	}

	copy, err := pgx.CollectOneRow(copyRows, pgx.RowToStructByName[types.Reminder])

	if err != nil {
		return types.Reminder{}, nil, err
	}

	return copy, nil, tx.Commit(ctx)
}

// RejectInvitation records a pending -> rejected transition. A prior terminal
// response (accepted or rejected) makes this a no-op and is returned as-is.
func (s *Postgres) RejectInvitation(ctx context.Context, reminderID, invitee string) (*types.ShareInvitation, error) {
	var owner string

	err := s.pool.QueryRow(ctx, "SELECT owner_identity FROM reminders WHERE id = $1 AND owner_identity = assigned_identity", reminderID).Scan(&owner)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	tag, err := s.pool.Exec(
		ctx,
		"INSERT INTO share_invitations (reminder_id, owner_identity, invitee_identity, status, responded_at) VALUES ($1, $2, $3, 'rejected', NOW()) ON CONFLICT (reminder_id, invitee_identity) DO NOTHING",
		reminderID,
		owner,
		invitee,
	)

	if err != nil {
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		prior, err := s.GetInvitation(ctx, reminderID, invitee)

		if err != nil {
			return nil, err
		}

		return &prior, nil
	}

	return nil, nil
}

// HasPushSubscription reports whether any webpush subscription is registered
// for an identity. Used as the soft notification-permission probe.
func (s *Postgres) HasPushSubscription(ctx context.Context, identity string) (bool, error) {
	var count int64

	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM push_subscriptions WHERE identity = $1", identity).Scan(&count)

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *Postgres) getInvitationTx(ctx context.Context, tx pgx.Tx, reminderID, invitee string) (types.ShareInvitation, error) {
	rows, err := tx.Query(ctx, "SELECT "+invitationCols+" FROM share_invitations WHERE reminder_id = $1 AND invitee_identity = $2", reminderID, invitee)

	if err != nil {
		return types.ShareInvitation{}, err
	}

	invitation, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[types.ShareInvitation])

	if errors.Is(err, pgx.ErrNoRows) {
		return types.ShareInvitation{}, ErrNotFound
	}

	return invitation, err
}
