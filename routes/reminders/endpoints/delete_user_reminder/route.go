package delete_user_reminder

import (
	"net/http"

	"remindshare/api"
	"remindshare/sharing"
	"remindshare/state"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Delete User Reminder",
		Description: "Deletes a reminder. Only the owner's own, non-shared-in copy can be deleted; holders of a shared-in copy should reject it instead. Returns 204 on success.",
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
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	rid := chi.URLParam(r, "rid")

	if rid == "" {
		return uapi.DefaultResponse(http.StatusBadRequest)
	}

	err := sharing.DeleteReminder(d.Context, rid, d.Auth.ID)

	if err != nil {
		if !sharing.IsNotFound(err) {
			state.Logger.Error("Error deleting reminder", zap.Error(err), zap.String("rid", rid), zap.String("identity", d.Auth.ID))
		}
		return api.SharingError(err)
	}

	return uapi.DefaultResponse(http.StatusNoContent)
}
