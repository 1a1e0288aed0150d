// Ownership, sharing and acceptance rules for reminders.
//
// Every rule about who may edit, delete, share, accept or reject a reminder
// lives here, behind explicit identity parameters. Handlers never compare
// identities themselves and never trust from_owner flags coming off the wire.
package sharing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"remindshare/store"
	"remindshare/types"

	"go.uber.org/zap"
)

// DenyReason names a permission failure so the UI can render a message.
// Rule violations are results, not panics.
type DenyReason string

const (
	DenyNotOwner            DenyReason = "NotOwner"
	DenySharedCopyImmutable DenyReason = "SharedCopyImmutable"
)

// PermissionError is returned when an operation fails an ownership or
// sharing rule. User-correctable; shown as a message, never retried.
type PermissionError struct {
	Reason DenyReason
}

func (e *PermissionError) Error() string {
	return "permission denied: " + string(e.Reason)
}

// Business-rule violations on the accept/reject state machine
var (
	ErrSelfAccept      = errors.New("sharing: owner cannot accept their own invitation")
	ErrNotShared       = errors.New("sharing: reminder has not been shared by its owner")
	ErrAlreadyRejected = errors.New("sharing: invitation was already declined")
	ErrDueAtRequired   = errors.New("sharing: a trigger time is required when notifications are enabled")
)

// Store is the persistence collaborator. Terminal invitation responses are
// serialized by the store itself; the coordinator never infers "not yet
// accepted" from anything cached.
type Store interface {
	CreateReminder(ctx context.Context, owner, subject, description string, dueAt *time.Time, notifyEnabled bool) (types.Reminder, error)
	GetReminder(ctx context.Context, id string) (types.Reminder, error)
	ListReminders(ctx context.Context, identity string) ([]types.Reminder, error)
	ListAssignedReminders(ctx context.Context, identity string) ([]types.Reminder, error)
	UpdateReminder(ctx context.Context, id, subject, description string, dueAt *time.Time, notifyEnabled bool) error
	DeleteReminder(ctx context.Context, id string) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	CreateInvitation(ctx context.Context, reminderID, owner string) (types.InvitationRef, error)
	AcceptInvitation(ctx context.Context, reminderID, invitee string) (types.Reminder, *types.ShareInvitation, error)
	RejectInvitation(ctx context.Context, reminderID, invitee string) (*types.ShareInvitation, error)
	HasPushSubscription(ctx context.Context, identity string) (bool, error)
}

// Notifier delivers fire-and-forget messages. Failures are logged by the
// implementation and never roll back the operation that triggered them.
type Notifier interface {
	NotifyIdentity(ctx context.Context, identity string, msg types.Message)
}

type State struct {
	Store    Store
	Notifier Notifier
	Logger   *zap.SugaredLogger
	Now      func() time.Time
}

var state State

func Setup(s State) {
	if s.Store == nil {
		panic("sharing: Store is required")
	}

	if s.Now == nil {
		s.Now = time.Now
	}

	state = s
}

// DeriveFromOwner is the single source of truth for the from-owner flag:
// true exactly when both identities are present and unequal. Missing fields
// (legacy records) default to false and are logged as an anomaly.
func DeriveFromOwner(ownerIdentity, assignedIdentity string) bool {
	if ownerIdentity == "" || assignedIdentity == "" {
		if state.Logger != nil {
			state.Logger.Warnw("reminder record missing identity fields, defaulting from_owner to false",
				"owner_identity", ownerIdentity,
				"assigned_identity", assignedIdentity,
			)
		}
		return false
	}

	return ownerIdentity != assignedIdentity
}

// CanEdit reports whether a viewer may edit a reminder copy: only the owner's
// own, non-shared-in copy is editable.
func CanEdit(r types.Reminder, viewerIdentity string) (bool, DenyReason) {
	if viewerIdentity != r.OwnerIdentity {
		return false, DenyNotOwner
	}

	if r.AssignedIdentity != r.OwnerIdentity {
		return false, DenySharedCopyImmutable
	}

	return true, ""
}

// CanDelete has the same rule as CanEdit: holders of a shared-in copy may
// reject/unlink it, never delete the owner's record.
func CanDelete(r types.Reminder, viewerIdentity string) (bool, DenyReason) {
	return CanEdit(r, viewerIdentity)
}

// CanShare permits sharing only by the owner, and never of a copy that was
// itself received via sharing.
func CanShare(r types.Reminder, viewerIdentity string) (bool, DenyReason) {
	if viewerIdentity != r.OwnerIdentity {
		return false, DenyNotOwner
	}

	if DeriveFromOwner(r.OwnerIdentity, r.AssignedIdentity) {
		return false, DenySharedCopyImmutable
	}

	return true, ""
}

// CanComplete reports whether a viewer may toggle completion: the assigned
// holder of this particular copy, whoever that is.
func CanComplete(r types.Reminder, viewerIdentity string) (bool, DenyReason) {
	if viewerIdentity != r.AssignedIdentity {
		return false, DenyNotOwner
	}

	return true, ""
}

// Reconcile recomputes the derived view fields on a record as loaded from the
// store. Derived fields are never persisted and never trusted off the wire.
func Reconcile(r *types.Reminder, now time.Time) {
	r.FromOwner = DeriveFromOwner(r.OwnerIdentity, r.AssignedIdentity)
	r.IsExpired = r.DueAt.Valid && !r.Completed && r.DueAt.Time.Before(now)
}

// LoadReminders fetches everything visible to an identity (own plus accepted
// shared-in copies) with derived fields recomputed.
func LoadReminders(ctx context.Context, identity string) ([]types.Reminder, error) {
	reminders, err := state.Store.ListReminders(ctx, identity)

	if err != nil {
		return nil, err
	}

	now := state.Now()

	for i := range reminders {
		Reconcile(&reminders[i], now)
	}

	return reminders, nil
}

// LoadAssignedReminders fetches only the accepted shared-in copies.
func LoadAssignedReminders(ctx context.Context, identity string) ([]types.Reminder, error) {
	reminders, err := state.Store.ListAssignedReminders(ctx, identity)

	if err != nil {
		return nil, err
	}

	now := state.Now()

	for i := range reminders {
		Reconcile(&reminders[i], now)
	}

	return reminders, nil
}

// LoadReminder fetches a single reminder with derived fields recomputed.
func LoadReminder(ctx context.Context, id string) (types.Reminder, error) {
	reminder, err := state.Store.GetReminder(ctx, id)

	if err != nil {
		return types.Reminder{}, err
	}

	Reconcile(&reminder, state.Now())

	return reminder, nil
}

// CreateReminder creates a reminder owned and held by the caller.
func CreateReminder(ctx context.Context, ownerIdentity, subject, description string, dueAt *time.Time, notifyEnabled bool) (types.Reminder, error) {
	if notifyEnabled && dueAt == nil {
		return types.Reminder{}, ErrDueAtRequired
	}

	reminder, err := state.Store.CreateReminder(ctx, ownerIdentity, subject, description, dueAt, notifyEnabled)

	if err != nil {
		return types.Reminder{}, err
	}

	Reconcile(&reminder, state.Now())

	return reminder, nil
}

// UpdateReminder edits the mutable fields of the viewer's own, non-shared-in
// copy.
func UpdateReminder(ctx context.Context, id, viewerIdentity, subject, description string, dueAt *time.Time, notifyEnabled bool) (types.Reminder, error) {
	if notifyEnabled && dueAt == nil {
		return types.Reminder{}, ErrDueAtRequired
	}

	reminder, err := state.Store.GetReminder(ctx, id)

	if err != nil {
		return types.Reminder{}, err
	}

	if ok, reason := CanEdit(reminder, viewerIdentity); !ok {
		return types.Reminder{}, &PermissionError{Reason: reason}
	}

	err = state.Store.UpdateReminder(ctx, id, subject, description, dueAt, notifyEnabled)

	if err != nil {
		return types.Reminder{}, err
	}

	return LoadReminder(ctx, id)
}

// DeleteReminder removes the viewer's own copy. Holders of a shared-in copy
// may reject the invitation instead; they can never delete the owner's
// record.
func DeleteReminder(ctx context.Context, id, viewerIdentity string) error {
	reminder, err := state.Store.GetReminder(ctx, id)

	if err != nil {
		return err
	}

	if ok, reason := CanDelete(reminder, viewerIdentity); !ok {
		return &PermissionError{Reason: reason}
	}

	return state.Store.DeleteReminder(ctx, id)
}

// SetCompleted toggles completion on the copy held by the viewer. Completion
// of an accepted copy never touches the owner's copy, and vice versa.
func SetCompleted(ctx context.Context, id, viewerIdentity string, completed bool) (types.Reminder, error) {
	reminder, err := state.Store.GetReminder(ctx, id)

	if err != nil {
		return types.Reminder{}, err
	}

	if ok, reason := CanComplete(reminder, viewerIdentity); !ok {
		return types.Reminder{}, &PermissionError{Reason: reason}
	}

	err = state.Store.SetCompleted(ctx, id, completed)

	if err != nil {
		return types.Reminder{}, err
	}

	return LoadReminder(ctx, id)
}

// ShareReminder issues a share invitation for the viewer's own reminder.
// Delivery of the invitation (share link/message) is the client's concern.
// The result carries a warning when the owner has no push subscription, since
// a later rejection could not be delivered back; that never blocks the share.
func ShareReminder(ctx context.Context, reminderID, viewerIdentity string) (types.ShareResponse, error) {
	reminder, err := state.Store.GetReminder(ctx, reminderID)

	if err != nil {
		return types.ShareResponse{}, err
	}

	if ok, reason := CanShare(reminder, viewerIdentity); !ok {
		return types.ShareResponse{}, &PermissionError{Reason: reason}
	}

	ref, err := state.Store.CreateInvitation(ctx, reminderID, viewerIdentity)

	if err != nil {
		return types.ShareResponse{}, err
	}

	resp := types.ShareResponse{Invitation: ref}

	if warning := notifyProbe(ctx, viewerIdentity); warning != "" {
		resp.Warning = warning
	}

	return resp, nil
}

// AcceptInvitation performs the pending -> accepted transition for the
// invitee, producing an independent copy of the reminder. Idempotent from the
// caller's perspective: a repeated accept returns the prior acceptance tagged
// already_accepted, with the copy unchanged.
func AcceptInvitation(ctx context.Context, reminderID, inviteeIdentity string) (types.AcceptResponse, error) {
	original, err := state.Store.GetReminder(ctx, reminderID)

	if err != nil {
		return types.AcceptResponse{}, err
	}

	if inviteeIdentity == original.OwnerIdentity {
		return types.AcceptResponse{}, ErrSelfAccept
	}

	if !original.SharedAt.Valid {
		return types.AcceptResponse{}, ErrNotShared
	}

	copy, prior, err := state.Store.AcceptInvitation(ctx, reminderID, inviteeIdentity)

	if err != nil {
		return types.AcceptResponse{}, err
	}

	if prior != nil {
		if prior.Status == types.InvitationStatusRejected {
			return types.AcceptResponse{}, ErrAlreadyRejected
		}

		Reconcile(&copy, state.Now())

		return types.AcceptResponse{
			Reminder:        copy,
			AlreadyAccepted: true,
			Message:         "You have already accepted this reminder",
		}, nil
	}

	Reconcile(&copy, state.Now())

	resp := types.AcceptResponse{Reminder: copy}

	if warning := notifyProbe(ctx, inviteeIdentity); warning != "" {
		resp.Warning = warning
	}

	return resp, nil
}

// RejectInvitation performs the pending -> rejected transition. The owner is
// informed fire-and-forget on a fresh rejection only; a repeated reject, or a
// reject after an accept, is a no-op and never an error.
func RejectInvitation(ctx context.Context, reminderID, inviteeIdentity string) (types.RejectResponse, error) {
	original, err := state.Store.GetReminder(ctx, reminderID)

	if err != nil {
		return types.RejectResponse{}, err
	}

	if inviteeIdentity == original.OwnerIdentity {
		return types.RejectResponse{}, ErrSelfAccept
	}

	if !original.SharedAt.Valid {
		return types.RejectResponse{}, ErrNotShared
	}

	prior, err := state.Store.RejectInvitation(ctx, reminderID, inviteeIdentity)

	if err != nil {
		return types.RejectResponse{}, err
	}

	if prior != nil {
		return types.RejectResponse{
			AlreadyRejected: prior.Status == types.InvitationStatusRejected,
			Message:         "Invitation was already responded to",
		}, nil
	}

	if state.Notifier != nil {
		state.Notifier.NotifyIdentity(ctx, original.OwnerIdentity, types.Message{
			Title:   "Invitation declined",
			Message: fmt.Sprintf("Your shared reminder %q was declined", original.Subject),
		})
	}

	return types.RejectResponse{}, nil
}

// IsNotFound reports whether an error is a stale-reference failure that
// should surface as a list refresh rather than a hard error.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func notifyProbe(ctx context.Context, identity string) string {
	ok, err := state.Store.HasPushSubscription(ctx, identity)

	if err != nil {
		// Best-effort probe; a store hiccup here degrades to a warning
		if state.Logger != nil {
			state.Logger.Errorw("failed to probe push subscriptions", "error", err, "identity", identity)
		}
		return ""
	}

	if !ok {
		return "No push subscription is registered; reminder notifications will not be delivered"
	}

	return ""
}
