package delete_user_subscription

import (
	"net/http"

	"remindshare/state"
	"remindshare/types"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Delete User Subscription",
		Description: "Deletes a webpush subscription registered by the authenticated user",
		Params: []docs.Parameter{
			{
				Name:        "id",
				Description: "User identity",
				Required:    true,
				In:          "path",
				Schema:      docs.IdSchema,
			},
			{
				Name:        "notif_id",
				Description: "Subscription notification ID",
				Required:    true,
				In:          "path",
				Schema:      docs.IdSchema,
			},
		},
		Resp: types.ApiError{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	notifId := chi.URLParam(r, "notif_id")

	if notifId == "" {
		return uapi.DefaultResponse(http.StatusBadRequest)
	}

	tag, err := state.Pool.Exec(d.Context, "DELETE FROM push_subscriptions WHERE identity = $1 AND notif_id = $2", d.Auth.ID, notifId)

	if err != nil {
		state.Logger.Error("Error deleting subscription", zap.Error(err), zap.String("identity", d.Auth.ID), zap.String("notifId", notifId))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	if tag.RowsAffected() == 0 {
		return uapi.DefaultResponse(http.StatusNotFound)
	}

	return uapi.HttpResponse{
		Status: http.StatusNoContent,
	}
}
