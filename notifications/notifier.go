package notifications

import (
	"context"

	"remindshare/state"
	"remindshare/types"

	"go.uber.org/zap"
)

// Notifier adapts the fan-out layer to the sharing coordinator. All delivery
// is fire-and-forget; a failed notification never fails the caller.
type Notifier struct{}

func (Notifier) NotifyIdentity(ctx context.Context, identity string, msg types.Message) {
	bytes, err := json.Marshal(msg)

	if err != nil {
		state.Logger.Error("Error marshalling notification", zap.Error(err), zap.String("identity", identity))
		return
	}

	go FanOut(identity, bytes)
}
