package share_reminder

import (
	"net/http"
	"time"

	"remindshare/api"
	"remindshare/ratelimit"
	"remindshare/sharing"
	"remindshare/state"
	"remindshare/types"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Share Reminder",
		Description: "Issues a share invitation for the authenticated user's own reminder. Delivery of the share link/message is the client's concern. Only the owner may share, and never a copy that was itself received via sharing.",
		Params: []docs.Parameter{
			{
				Name:        "id",
				Description: "User identity",
				Required:    true,
				In:          "path",
				Schema:      docs.IdSchema,
			},
			{
				Name:        "rid",
				Description: "Reminder ID",
				Required:    true,
				In:          "path",
				Schema:      docs.IdSchema,
			},
		},
		Resp: types.ShareResponse{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	limit, err := ratelimit.Ratelimit{
		Expiry:      1 * time.Minute,
		MaxRequests: 10,
		Bucket:      "share",
	}.Limit(d.Context, r)

	if err != nil {
		state.Logger.Error("Error applying share ratelimit", zap.Error(err))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	if limit.Exceeded {
		return uapi.HttpResponse{
			Status:  http.StatusTooManyRequests,
			Headers: limit.Headers(),
			Json:    types.ApiError{Message: "You are being ratelimited. Please try again in " + limit.TimeToReset.String()},
		}
	}

	rid := chi.URLParam(r, "rid")

	if rid == "" {
		return uapi.DefaultResponse(http.StatusBadRequest)
	}

	resp, err := sharing.ShareReminder(d.Context, rid, d.Auth.ID)

	if err != nil {
		if !sharing.IsNotFound(err) {
			state.Logger.Error("Error sharing reminder", zap.Error(err), zap.String("rid", rid), zap.String("identity", d.Auth.ID))
		}
		return api.SharingError(err)
	}

	return uapi.HttpResponse{
		Json: resp,
	}
}
