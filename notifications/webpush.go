package notifications

import (
	"fmt"
	"io"

	"remindshare/state"

	"github.com/SherClockHolmes/webpush-go"
)

// PushToClient sends one webpush message to a stored subscription. Expired
// subscriptions (410/404 from the push service) are deleted on the spot.
func PushToClient(notifId string, message []byte) error {
	var auth string
	var endpoint string
	var p256dh string

	err := state.Pool.QueryRow(state.Context, "SELECT auth, endpoint, p256dh FROM push_subscriptions WHERE notif_id = $1", notifId).Scan(&auth, &endpoint, &p256dh)

	if err != nil {
		return fmt.Errorf("error finding subscription: %s", err)
	}

	sub := webpush.Subscription{
		Endpoint: endpoint,
		Keys: webpush.Keys{
			Auth:   auth,
			P256dh: p256dh,
		},
	}

	resp, err := webpush.SendNotification(message, &sub, &webpush.Options{
		Subscriber:      state.Config.Notifications.Subscriber,
		VAPIDPublicKey:  state.Config.Notifications.VapidPublicKey,
		VAPIDPrivateKey: state.Config.Notifications.VapidPrivateKey,
		TTL:             30,
	})

	if err != nil {
		if resp != nil && (resp.StatusCode == 410 || resp.StatusCode == 404) {
			// Delete the subscription
			state.Pool.Exec(state.Context, "DELETE FROM push_subscriptions WHERE notif_id = $1", notifId)
		}
		return err
	}

	defer resp.Body.Close()

	msg, _ := io.ReadAll(resp.Body)
	state.Logger.Info(resp.StatusCode, msg)

	return nil
}
