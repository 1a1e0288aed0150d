package post_user_subscription

import (
	"net/http"

	"remindshare/constants"
	"remindshare/notifications"
	"remindshare/state"
	"remindshare/types"

	"github.com/infinitybotlist/eureka/crypto"
	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Create User Subscription",
		Description: "Registers a webpush subscription for the authenticated user. A test notification is sent to the new subscription to confirm delivery works.",
		Params: []docs.Parameter{
			{
				Name:        "id",
				Description: "User identity",
				Required:    true,
				In:          "path",
				Schema:      docs.IdSchema,
			},
		},
		Req:  types.UserSubscription{},
		Resp: types.ApiError{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	var subscription types.UserSubscription

	hresp, ok := uapi.MarshalReq(r, &subscription)

	if !ok {
		return hresp
	}

	if subscription.Auth == "" || subscription.P256dh == "" || subscription.Endpoint == "" {
		return uapi.DefaultResponse(http.StatusBadRequest)
	}

	notifId := crypto.RandString(512)

	ua := r.UserAgent()

	if ua == "" {
		ua = "Unknown"
	}

	// Re-registering the same endpoint replaces the old row
	_, err := state.Pool.Exec(d.Context, "DELETE FROM push_subscriptions WHERE identity = $1 AND endpoint = $2", d.Auth.ID, subscription.Endpoint)

	if err != nil {
		state.Logger.Error("Error deleting old subscription", zap.Error(err), zap.String("identity", d.Auth.ID))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	_, err = state.Pool.Exec(
		d.Context,
		"INSERT INTO push_subscriptions (identity, notif_id, auth, p256dh, endpoint, ua) VALUES ($1, $2, $3, $4, $5, $6)",
		d.Auth.ID,
		notifId,
		subscription.Auth,
		subscription.P256dh,
		subscription.Endpoint,
		ua,
	)

	if err != nil {
		state.Logger.Error("Error inserting subscription", zap.Error(err), zap.String("identity", d.Auth.ID))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	notifications.NotifChannel <- types.Notification{
		NotifID: notifId,
		Message: []byte(constants.TestNotif),
	}

	return uapi.HttpResponse{
		Status: http.StatusNoContent,
	}
}
