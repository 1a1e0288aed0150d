// Webpush fan-out and the due-reminder poller.
//
// Delivery is best-effort: the service hands messages to the push service and
// forgets them. No delivery guarantee is made anywhere in this package.
package notifications

import (
	"strings"
	"time"

	"remindshare/db"
	"remindshare/state"
	"remindshare/types"

	"github.com/jackc/pgx/v5"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var NotifChannel = make(chan types.Notification, 64)

var (
	reminderColsArr = db.GetCols(types.Reminder{})
	reminderCols    = strings.Join(reminderColsArr, ",")
)

// Setup starts the fan-out goroutine and the due-reminder poller. Call once
// after state.Setup.
func Setup() {
	go func() {
		for msg := range NotifChannel {
			err := PushToClient(msg.NotifID, msg.Message)

			if err != nil {
				state.Logger.Error("Error pushing notification", zap.Error(err), zap.String("notif_id", msg.NotifID))
			}
		}
	}()

	go func() {
		interval := time.Duration(state.Config.Notifications.PollInterval) * time.Second
		ticker := time.NewTicker(interval)

		for range ticker.C {
			checkDueReminders()
		}
	}()
}

// checkDueReminders fans out a push for every reminder whose trigger time has
// passed and which has not been notified yet. Each copy notifies its own
// assigned holder; owner and accepted copies have independent lifecycles.
func checkDueReminders() {
	rows, err := state.Pool.Query(state.Context, "SELECT "+reminderCols+" FROM reminders WHERE notify_enabled AND NOT completed AND notified_at IS NULL AND due_at IS NOT NULL AND due_at <= NOW()")

	if err != nil {
		state.Logger.Error("Error finding due reminders", zap.Error(err))
		return
	}

	reminders, err := pgx.CollectRows(rows, pgx.RowToStructByName[types.Reminder])

	if err != nil {
		state.Logger.Error("Error decoding due reminders", zap.Error(err))
		return
	}

	for _, reminder := range reminders {
		tag, err := state.Pool.Exec(state.Context, "UPDATE reminders SET notified_at = NOW() WHERE id = $1 AND notified_at IS NULL", reminder.ID)

		if err != nil {
			state.Logger.Error("Error marking reminder notified", zap.Error(err), zap.String("id", reminder.ID))
			continue
		}

		if tag.RowsAffected() == 0 {
			// Another instance got here first
			continue
		}

		message := types.Message{
			Title:   "Reminder: " + reminder.Subject,
			Message: reminder.Description,
		}

		bytes, err := json.Marshal(message)

		if err != nil {
			state.Logger.Error("Error marshalling reminder message", zap.Error(err), zap.String("id", reminder.ID))
			continue
		}

		FanOut(reminder.AssignedIdentity, bytes)
	}
}

// FanOut queues one push per registered subscription of an identity,
// deduplicated by endpoint.
func FanOut(identity string, message []byte) {
	rows, err := state.Pool.Query(state.Context, "SELECT notif_id, endpoint FROM push_subscriptions WHERE identity = $1", identity)

	if err != nil {
		state.Logger.Error("Error finding subscriptions", zap.Error(err), zap.String("identity", identity))
		return
	}

	type sub struct {
		NotifID  string `db:"notif_id"`
		Endpoint string `db:"endpoint"`
	}

	subs, err := pgx.CollectRows(rows, pgx.RowToStructByName[sub])

	if err != nil {
		state.Logger.Error("Error decoding subscriptions", zap.Error(err), zap.String("identity", identity))
		return
	}

	doneEndpoints := []string{}

	for _, s := range subs {
		if s.NotifID == "" {
			continue
		}

		if slices.Contains(doneEndpoints, s.Endpoint) {
			continue
		}

		doneEndpoints = append(doneEndpoints, s.Endpoint)

		NotifChannel <- types.Notification{
			NotifID: s.NotifID,
			Message: message,
		}
	}
}
