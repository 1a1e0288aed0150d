package sharing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"remindshare/store"
	"remindshare/types"

	"github.com/jackc/pgx/v5/pgtype"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeStore mirrors the Postgres store semantics in memory: one reminder row
// per copy, at most one terminal invitation row per (reminder, invitee).
type fakeStore struct {
	reminders   map[string]types.Reminder
	invitations map[string]types.ShareInvitation
	subs        map[string]bool
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reminders:   map[string]types.Reminder{},
		invitations: map[string]types.ShareInvitation{},
		subs:        map[string]bool{},
	}
}

func (f *fakeStore) invitationKey(reminderID, invitee string) string {
	return reminderID + "/" + invitee
}

func (f *fakeStore) CreateReminder(ctx context.Context, owner, subject, description string, dueAt *time.Time, notifyEnabled bool) (types.Reminder, error) {
	f.nextID++
	id := "rem-" + strconv.Itoa(f.nextID)

	r := types.Reminder{
		ID:               id,
		OwnerIdentity:    owner,
		AssignedIdentity: owner,
		Subject:          subject,
		Description:      description,
		NotifyEnabled:    notifyEnabled,
		CreatedAt:        fixedNow,
	}

	if dueAt != nil {
		r.DueAt = pgtype.Timestamptz{Time: *dueAt, Valid: true}
	}

	f.reminders[id] = r

	return r, nil
}

func (f *fakeStore) GetReminder(ctx context.Context, id string) (types.Reminder, error) {
	r, ok := f.reminders[id]

	if !ok {
		return types.Reminder{}, store.ErrNotFound
	}

	return r, nil
}

func (f *fakeStore) ListReminders(ctx context.Context, identity string) ([]types.Reminder, error) {
	var out []types.Reminder

	for _, r := range f.reminders {
		if r.AssignedIdentity == identity {
			out = append(out, r)
		}
	}

	return out, nil
}

func (f *fakeStore) ListAssignedReminders(ctx context.Context, identity string) ([]types.Reminder, error) {
	var out []types.Reminder

	for _, r := range f.reminders {
		if r.AssignedIdentity == identity && r.OwnerIdentity != identity {
			out = append(out, r)
		}
	}

	return out, nil
}

func (f *fakeStore) UpdateReminder(ctx context.Context, id, subject, description string, dueAt *time.Time, notifyEnabled bool) error {
	r, ok := f.reminders[id]

	if !ok {
		return store.ErrNotFound
	}

	r.Subject = subject
	r.Description = description
	r.NotifyEnabled = notifyEnabled
	r.NotifiedAt = pgtype.Timestamptz{}
	r.DueAt = pgtype.Timestamptz{}

	if dueAt != nil {
		r.DueAt = pgtype.Timestamptz{Time: *dueAt, Valid: true}
	}

	f.reminders[id] = r

	return nil
}

func (f *fakeStore) DeleteReminder(ctx context.Context, id string) error {
	if _, ok := f.reminders[id]; !ok {
		return store.ErrNotFound
	}

	delete(f.reminders, id)

	return nil
}

func (f *fakeStore) SetCompleted(ctx context.Context, id string, completed bool) error {
	r, ok := f.reminders[id]

	if !ok {
		return store.ErrNotFound
	}

	r.Completed = completed
	f.reminders[id] = r

	return nil
}

func (f *fakeStore) CreateInvitation(ctx context.Context, reminderID, owner string) (types.InvitationRef, error) {
	r, ok := f.reminders[reminderID]

	if !ok || r.OwnerIdentity != owner || r.AssignedIdentity != owner {
		return types.InvitationRef{}, store.ErrNotFound
	}

	r.SharedAt = pgtype.Timestamptz{Time: fixedNow, Valid: true}
	f.reminders[reminderID] = r

	return types.InvitationRef{
		ReminderID:    reminderID,
		OwnerIdentity: owner,
		SharedAt:      fixedNow,
	}, nil
}

func (f *fakeStore) AcceptInvitation(ctx context.Context, reminderID, invitee string) (types.Reminder, *types.ShareInvitation, error) {
	original, ok := f.reminders[reminderID]

	if !ok || original.OwnerIdentity != original.AssignedIdentity {
		return types.Reminder{}, nil, store.ErrNotFound
	}

	key := f.invitationKey(reminderID, invitee)

	if prior, ok := f.invitations[key]; ok {
		var copy types.Reminder

		if prior.Status == types.InvitationStatusAccepted {
			for _, r := range f.reminders {
				if r.SharedFrom.Valid && r.SharedFrom.String == reminderID && r.AssignedIdentity == invitee {
					copy = r
					break
				}
			}
		}

		return copy, &prior, nil
	}

	f.invitations[key] = types.ShareInvitation{
		ReminderID:      reminderID,
		OwnerIdentity:   original.OwnerIdentity,
		InviteeIdentity: invitee,
		Status:          types.InvitationStatusAccepted,
		RespondedAt:     pgtype.Timestamptz{Time: fixedNow, Valid: true},
	}

	f.nextID++
	copyID := "rem-" + strconv.Itoa(f.nextID)

	copy := types.Reminder{
		ID:               copyID,
		OwnerIdentity:    original.OwnerIdentity,
		AssignedIdentity: invitee,
		Subject:          original.Subject,
		Description:      original.Description,
		DueAt:            original.DueAt,
		NotifyEnabled:    original.NotifyEnabled,
		SharedFrom:       pgtype.Text{String: reminderID, Valid: true},
		CreatedAt:        fixedNow,
	}

	f.reminders[copyID] = copy

	return copy, nil, nil
}

func (f *fakeStore) RejectInvitation(ctx context.Context, reminderID, invitee string) (*types.ShareInvitation, error) {
	original, ok := f.reminders[reminderID]

	if !ok || original.OwnerIdentity != original.AssignedIdentity {
		return nil, store.ErrNotFound
	}

	key := f.invitationKey(reminderID, invitee)

	if prior, ok := f.invitations[key]; ok {
		return &prior, nil
	}

	f.invitations[key] = types.ShareInvitation{
		ReminderID:      reminderID,
		OwnerIdentity:   original.OwnerIdentity,
		InviteeIdentity: invitee,
		Status:          types.InvitationStatusRejected,
		RespondedAt:     pgtype.Timestamptz{Time: fixedNow, Valid: true},
	}

	return nil, nil
}

func (f *fakeStore) HasPushSubscription(ctx context.Context, identity string) (bool, error) {
	return f.subs[identity], nil
}

type fakeNotifier struct {
	sent []struct {
		Identity string
		Msg      types.Message
	}
}

func (n *fakeNotifier) NotifyIdentity(ctx context.Context, identity string, msg types.Message) {
	n.sent = append(n.sent, struct {
		Identity string
		Msg      types.Message
	}{identity, msg})
}

func setup(t *testing.T) (*fakeStore, *fakeNotifier) {
	t.Helper()

	fs := newFakeStore()
	fn := &fakeNotifier{}

	Setup(State{
		Store:    fs,
		Notifier: fn,
		Now:      func() time.Time { return fixedNow },
	})

	return fs, fn
}

func mustCreate(t *testing.T, owner, subject string) types.Reminder {
	t.Helper()

	r, err := CreateReminder(context.Background(), owner, subject, "", nil, false)
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	return r
}

func mustShare(t *testing.T, reminderID, owner string) {
	t.Helper()

	if _, err := ShareReminder(context.Background(), reminderID, owner); err != nil {
		t.Fatalf("share reminder: %v", err)
	}
}

func TestDeriveFromOwner(t *testing.T) {
	setup(t)

	tests := []struct {
		name     string
		owner    string
		assigned string
		want     bool
	}{
		{name: "own copy", owner: "alice", assigned: "alice", want: false},
		{name: "shared copy", owner: "alice", assigned: "bob", want: true},
		{name: "missing owner", owner: "", assigned: "bob", want: false},
		{name: "missing assigned", owner: "alice", assigned: "", want: false},
		{name: "both missing", owner: "", assigned: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveFromOwner(tt.owner, tt.assigned); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPermissions(t *testing.T) {
	setup(t)

	own := types.Reminder{ID: "r1", OwnerIdentity: "alice", AssignedIdentity: "alice"}
	sharedCopy := types.Reminder{ID: "r2", OwnerIdentity: "alice", AssignedIdentity: "bob"}

	tests := []struct {
		name       string
		check      func(types.Reminder, string) (bool, DenyReason)
		reminder   types.Reminder
		viewer     string
		want       bool
		wantReason DenyReason
	}{
		{name: "owner edits own copy", check: CanEdit, reminder: own, viewer: "alice", want: true},
		{name: "stranger edits own copy", check: CanEdit, reminder: own, viewer: "bob", want: false, wantReason: DenyNotOwner},
		{name: "holder edits shared copy", check: CanEdit, reminder: sharedCopy, viewer: "bob", want: false, wantReason: DenyNotOwner},
		{name: "owner edits holder copy", check: CanEdit, reminder: sharedCopy, viewer: "alice", want: false, wantReason: DenySharedCopyImmutable},
		{name: "owner deletes own copy", check: CanDelete, reminder: own, viewer: "alice", want: true},
		{name: "holder deletes shared copy", check: CanDelete, reminder: sharedCopy, viewer: "bob", want: false, wantReason: DenyNotOwner},
		{name: "owner shares own copy", check: CanShare, reminder: own, viewer: "alice", want: true},
		{name: "holder reshares shared copy", check: CanShare, reminder: sharedCopy, viewer: "bob", want: false, wantReason: DenyNotOwner},
		{name: "owner shares holder copy", check: CanShare, reminder: sharedCopy, viewer: "alice", want: false, wantReason: DenySharedCopyImmutable},
		{name: "owner completes own copy", check: CanComplete, reminder: own, viewer: "alice", want: true},
		{name: "holder completes shared copy", check: CanComplete, reminder: sharedCopy, viewer: "bob", want: true},
		{name: "owner completes holder copy", check: CanComplete, reminder: sharedCopy, viewer: "alice", want: false, wantReason: DenyNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := tt.check(tt.reminder, tt.viewer)
			if got != tt.want {
				t.Fatalf("expected %v, got %v (reason %q)", tt.want, got, reason)
			}
			if !tt.want && reason != tt.wantReason {
				t.Fatalf("expected reason %q, got %q", tt.wantReason, reason)
			}
		})
	}
}

func TestReconcileExpiry(t *testing.T) {
	setup(t)

	past := pgtype.Timestamptz{Time: fixedNow.Add(-time.Hour), Valid: true}
	future := pgtype.Timestamptz{Time: fixedNow.Add(time.Hour), Valid: true}

	tests := []struct {
		name      string
		dueAt     pgtype.Timestamptz
		completed bool
		want      bool
	}{
		{name: "past due", dueAt: past, want: true},
		{name: "past due but completed", dueAt: past, completed: true, want: false},
		{name: "not yet due", dueAt: future, want: false},
		{name: "no due time", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := types.Reminder{OwnerIdentity: "alice", AssignedIdentity: "alice", DueAt: tt.dueAt, Completed: tt.completed}
			Reconcile(&r, fixedNow)
			if r.IsExpired != tt.want {
				t.Fatalf("expected is_expired %v, got %v", tt.want, r.IsExpired)
			}
		})
	}
}

func TestCreateReminderNotifyRequiresDueAt(t *testing.T) {
	setup(t)

	_, err := CreateReminder(context.Background(), "alice", "water plants", "", nil, true)
	if !errors.Is(err, ErrDueAtRequired) {
		t.Fatalf("expected ErrDueAtRequired, got %v", err)
	}

	due := fixedNow.Add(time.Hour)
	r, err := CreateReminder(context.Background(), "alice", "water plants", "", &due, true)
	if err != nil {
		t.Fatalf("create with due time: %v", err)
	}
	if !r.NotifyEnabled {
		t.Fatalf("expected notify_enabled")
	}
}

func TestShareAcceptLifecycle(t *testing.T) {
	fs, _ := setup(t)

	original := mustCreate(t, "alice", "water plants")
	mustShare(t, original.ID, "alice")

	resp, err := AcceptInvitation(context.Background(), original.ID, "bob")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if resp.AlreadyAccepted {
		t.Fatalf("fresh accept should not be tagged already_accepted")
	}
	if resp.Reminder.ID == original.ID {
		t.Fatalf("accepted copy must be a new record")
	}
	if resp.Reminder.OwnerIdentity != "alice" {
		t.Fatalf("copy must keep the owner identity, got %q", resp.Reminder.OwnerIdentity)
	}
	if resp.Reminder.AssignedIdentity != "bob" {
		t.Fatalf("copy must be assigned to the invitee, got %q", resp.Reminder.AssignedIdentity)
	}
	if !resp.Reminder.FromOwner {
		t.Fatalf("copy must derive from_owner true")
	}

	// The owner's copy is untouched and still theirs
	ownerCopy, err := LoadReminder(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("load owner copy: %v", err)
	}
	if ownerCopy.FromOwner {
		t.Fatalf("owner copy must derive from_owner false")
	}

	assigned, err := LoadAssignedReminders(context.Background(), "bob")
	if err != nil {
		t.Fatalf("load assigned: %v", err)
	}
	if len(assigned) != 1 || assigned[0].ID != resp.Reminder.ID {
		t.Fatalf("expected exactly the accepted copy in assigned list, got %+v", assigned)
	}

	if len(fs.reminders) != 2 {
		t.Fatalf("expected 2 reminder rows, got %d", len(fs.reminders))
	}
}

func TestAcceptIsIdempotent(t *testing.T) {
	fs, _ := setup(t)

	original := mustCreate(t, "alice", "water plants")
	mustShare(t, original.ID, "alice")

	first, err := AcceptInvitation(context.Background(), original.ID, "bob")
	if err != nil {
		t.Fatalf("first accept: %v", err)
	}

	second, err := AcceptInvitation(context.Background(), original.ID, "bob")
	if err != nil {
		t.Fatalf("second accept: %v", err)
	}
	if !second.AlreadyAccepted {
		t.Fatalf("repeated accept must be tagged already_accepted")
	}
	if second.Message == "" {
		t.Fatalf("repeated accept must carry a message")
	}
	if second.Reminder.ID != first.Reminder.ID {
		t.Fatalf("repeated accept must return the same copy, got %q and %q", first.Reminder.ID, second.Reminder.ID)
	}

	if len(fs.reminders) != 2 {
		t.Fatalf("repeated accept must not create another copy, got %d rows", len(fs.reminders))
	}
}

func TestAcceptOwnInvitation(t *testing.T) {
	setup(t)

	original := mustCreate(t, "alice", "water plants")
	mustShare(t, original.ID, "alice")

	_, err := AcceptInvitation(context.Background(), original.ID, "alice")
	if !errors.Is(err, ErrSelfAccept) {
		t.Fatalf("expected ErrSelfAccept, got %v", err)
	}
}

func TestAcceptUnsharedReminder(t *testing.T) {
	setup(t)

	original := mustCreate(t, "alice", "water plants")

	_, err := AcceptInvitation(context.Background(), original.ID, "bob")
	if !errors.Is(err, ErrNotShared) {
		t.Fatalf("expected ErrNotShared, got %v", err)
	}
}

func TestAcceptAfterReject(t *testing.T) {
	setup(t)

	original := mustCreate(t, "alice", "water plants")
	mustShare(t, original.ID, "alice")

	if _, err := RejectInvitation(context.Background(), original.ID, "bob"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	_, err := AcceptInvitation(context.Background(), original.ID, "bob")
	if !errors.Is(err, ErrAlreadyRejected) {
		t.Fatalf("expected ErrAlreadyRejected, got %v", err)
	}
}

func TestRejectNotifiesOwnerOnce(t *testing.T) {
	_, fn := setup(t)

	original := mustCreate(t, "alice", "water plants")
	mustShare(t, original.ID, "alice")

	resp, err := RejectInvitation(context.Background(), original.ID, "bob")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if resp.AlreadyRejected {
		t.Fatalf("fresh reject should not be tagged already_rejected")
	}
	if len(fn.sent) != 1 || fn.sent[0].Identity != "alice" {
		t.Fatalf("expected one notification to the owner, got %+v", fn.sent)
	}

	resp, err = RejectInvitation(context.Background(), original.ID, "bob")
	if err != nil {
		t.Fatalf("repeated reject: %v", err)
	}
	if !resp.AlreadyRejected {
		t.Fatalf("repeated reject must be tagged already_rejected")
	}
	if len(fn.sent) != 1 {
		t.Fatalf("repeated reject must not notify again, got %d notifications", len(fn.sent))
	}
}

func TestRejectAfterAccept(t *testing.T) {
	fs, fn := setup(t)

	original := mustCreate(t, "alice", "water plants")
	mustShare(t, original.ID, "alice")

	accepted, err := AcceptInvitation(context.Background(), original.ID, "bob")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	resp, err := RejectInvitation(context.Background(), original.ID, "bob")
	if err != nil {
		t.Fatalf("reject after accept: %v", err)
	}
	if resp.AlreadyRejected {
		t.Fatalf("reject after accept must not be tagged already_rejected")
	}
	if resp.Message == "" {
		t.Fatalf("reject after accept must say the invitation was already responded to")
	}
	if len(fn.sent) != 0 {
		t.Fatalf("reject after accept must not notify the owner")
	}

	// The accepted copy survives
	if _, ok := fs.reminders[accepted.Reminder.ID]; !ok {
		t.Fatalf("accepted copy must survive a later reject")
	}
}

func TestRejectOwnInvitation(t *testing.T) {
	setup(t)

	original := mustCreate(t, "alice", "water plants")
	mustShare(t, original.ID, "alice")

	_, err := RejectInvitation(context.Background(), original.ID, "alice")
	if !errors.Is(err, ErrSelfAccept) {
		t.Fatalf("expected ErrSelfAccept, got %v", err)
	}
}

func TestCopiesLiveIndependently(t *testing.T) {
	setup(t)

	original := mustCreate(t, "alice", "water plants")
	mustShare(t, original.ID, "alice")

	accepted, err := AcceptInvitation(context.Background(), original.ID, "bob")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	// Bob completes his copy; Alice's stays open
	if _, err := SetCompleted(context.Background(), accepted.Reminder.ID, "bob", true); err != nil {
		t.Fatalf("complete copy: %v", err)
	}

	ownerCopy, err := LoadReminder(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("load owner copy: %v", err)
	}
	if ownerCopy.Completed {
		t.Fatalf("completing the accepted copy must not touch the owner copy")
	}

	// Alice edits her copy; Bob's is untouched
	if _, err := UpdateReminder(context.Background(), original.ID, "alice", "water plants twice", "", nil, false); err != nil {
		t.Fatalf("update owner copy: %v", err)
	}

	bobCopy, err := LoadReminder(context.Background(), accepted.Reminder.ID)
	if err != nil {
		t.Fatalf("load accepted copy: %v", err)
	}
	if bobCopy.Subject != "water plants" {
		t.Fatalf("editing the owner copy must not touch the accepted copy, got %q", bobCopy.Subject)
	}

	// Alice deletes her copy; Bob's survives
	if err := DeleteReminder(context.Background(), original.ID, "alice"); err != nil {
		t.Fatalf("delete owner copy: %v", err)
	}

	if _, err := LoadReminder(context.Background(), accepted.Reminder.ID); err != nil {
		t.Fatalf("accepted copy must survive owner deletion: %v", err)
	}
}

func TestPermissionErrorsSurfaceReasons(t *testing.T) {
	setup(t)

	original := mustCreate(t, "alice", "water plants")

	_, err := UpdateReminder(context.Background(), original.ID, "bob", "hijack", "", nil, false)

	var perm *PermissionError
	if !errors.As(err, &perm) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
	if perm.Reason != DenyNotOwner {
		t.Fatalf("expected DenyNotOwner, got %q", perm.Reason)
	}

	err = DeleteReminder(context.Background(), original.ID, "bob")
	if !errors.As(err, &perm) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
}

func TestShareWarnsWithoutPushSubscription(t *testing.T) {
	fs, _ := setup(t)

	original := mustCreate(t, "alice", "water plants")

	resp, err := ShareReminder(context.Background(), original.ID, "alice")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if resp.Warning == "" {
		t.Fatalf("expected a warning when the owner has no push subscription")
	}

	fs.subs["alice"] = true

	resp, err = ShareReminder(context.Background(), original.ID, "alice")
	if err != nil {
		t.Fatalf("re-share: %v", err)
	}
	if resp.Warning != "" {
		t.Fatalf("expected no warning with a push subscription, got %q", resp.Warning)
	}
}

func TestStaleReferenceIsNotFound(t *testing.T) {
	setup(t)

	_, err := AcceptInvitation(context.Background(), "rem-gone", "bob")
	if !IsNotFound(err) {
		t.Fatalf("expected a not-found error, got %v", err)
	}

	_, err = LoadReminder(context.Background(), "rem-gone")
	if !IsNotFound(err) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}

func TestConcurrentAcceptsCreateOneCopy(t *testing.T) {
	fs, _ := setup(t)

	original := mustCreate(t, "alice", "water plants")
	mustShare(t, original.ID, "alice")

	var fresh, repeated int

	for i := 0; i < 5; i++ {
		resp, err := AcceptInvitation(context.Background(), original.ID, "bob")
		if err != nil {
			t.Fatalf("accept %d: %v", i, err)
		}
		if resp.AlreadyAccepted {
			repeated++
		} else {
			fresh++
		}
	}

	if fresh != 1 {
		t.Fatalf("expected exactly one fresh accept, got %d", fresh)
	}
	if repeated != 4 {
		t.Fatalf("expected four already-accepted results, got %d", repeated)
	}
	if len(fs.reminders) != 2 {
		t.Fatalf("expected one owner copy and one accepted copy, got %d rows", len(fs.reminders))
	}
}

func TestMultipleInviteesEachGetACopy(t *testing.T) {
	fs, _ := setup(t)

	original := mustCreate(t, "alice", "water plants")
	mustShare(t, original.ID, "alice")

	for i := 0; i < 3; i++ {
		invitee := fmt.Sprintf("friend-%d", i)
		resp, err := AcceptInvitation(context.Background(), original.ID, invitee)
		if err != nil {
			t.Fatalf("accept by %s: %v", invitee, err)
		}
		if resp.Reminder.AssignedIdentity != invitee {
			t.Fatalf("copy assigned to %q, want %q", resp.Reminder.AssignedIdentity, invitee)
		}
	}

	if len(fs.reminders) != 4 {
		t.Fatalf("expected owner copy plus three accepted copies, got %d rows", len(fs.reminders))
	}
}
