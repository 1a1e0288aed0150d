package reject_invitation

import (
	"net/http"

	"remindshare/api"
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
		Summary:     "Reject Invitation",
		Description: "Rejects a shared reminder. The owner is notified fire-and-forget on a fresh rejection. Rejecting again, or after accepting, is a no-op and never an error.",
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
				Description: "Reminder ID of the owner's shared copy",
				Required:    true,
				In:          "path",
				Schema:      docs.IdSchema,
			},
		},
		Resp: types.RejectResponse{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	rid := chi.URLParam(r, "rid")

	if rid == "" {
		return uapi.DefaultResponse(http.StatusBadRequest)
	}

	resp, err := sharing.RejectInvitation(d.Context, rid, d.Auth.ID)

	if err != nil {
		if !sharing.IsNotFound(err) {
			state.Logger.Error("Error rejecting invitation", zap.Error(err), zap.String("rid", rid), zap.String("identity", d.Auth.ID))
		}
		return api.SharingError(err)
	}

	return uapi.HttpResponse{
		Json: resp,
	}
}
