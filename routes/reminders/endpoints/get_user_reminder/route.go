package get_user_reminder

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
		Summary:     "Get User Reminder",
		Description: "Gets a single reminder copy held by the authenticated user",
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
		Resp: types.Reminder{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	rid := chi.URLParam(r, "rid")

	if rid == "" {
		return uapi.DefaultResponse(http.StatusBadRequest)
	}

	reminder, err := sharing.LoadReminder(d.Context, rid)

	if err != nil {
		if !sharing.IsNotFound(err) {
			state.Logger.Error("Error loading reminder", zap.Error(err), zap.String("rid", rid))
		}
		return api.SharingError(err)
	}

	// A copy is readable by its assigned holder. The owner's copy is also
	// readable by anyone once shared, so an invitee can preview it from a
	// share link before accepting.
	sharedPreview := reminder.SharedAt.Valid && reminder.OwnerIdentity == reminder.AssignedIdentity

	if reminder.AssignedIdentity != d.Auth.ID && !sharedPreview {
		return uapi.HttpResponse{
			Status: http.StatusNotFound,
			Json:   types.ApiError{Message: "Reminder not found. It may have been deleted; refresh your list."},
		}
	}

	return uapi.HttpResponse{
		Json: reminder,
	}
}
