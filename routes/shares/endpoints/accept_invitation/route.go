package accept_invitation

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
		Summary:     "Accept Invitation",
		Description: "Accepts a shared reminder, creating an independent copy assigned to the authenticated user. Accepting twice returns the prior acceptance tagged already_accepted rather than an error or a duplicate copy.",
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
		Resp: types.AcceptResponse{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	rid := chi.URLParam(r, "rid")

	if rid == "" {
		return uapi.DefaultResponse(http.StatusBadRequest)
	}

	resp, err := sharing.AcceptInvitation(d.Context, rid, d.Auth.ID)

	if err != nil {
		if !sharing.IsNotFound(err) {
			state.Logger.Error("Error accepting invitation", zap.Error(err), zap.String("rid", rid), zap.String("identity", d.Auth.ID))
		}
		return api.SharingError(err)
	}

	return uapi.HttpResponse{
		Json: resp,
	}
}
