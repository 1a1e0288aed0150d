package get_assigned_reminders

import (
	"net/http"

	"remindshare/sharing"
	"remindshare/state"
	"remindshare/types"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Assigned Reminders",
		Description: "Gets only the accepted shared-in copies held by the authenticated user",
		Params: []docs.Parameter{
			{
				Name:        "id",
				Description: "User identity",
				Required:    true,
				In:          "path",
				Schema:      docs.IdSchema,
			},
		},
		Resp: types.ReminderList{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	reminders, err := sharing.LoadAssignedReminders(d.Context, d.Auth.ID)

	if err != nil {
		state.Logger.Error("Error loading assigned reminders", zap.Error(err), zap.String("identity", d.Auth.ID))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	if len(reminders) == 0 {
		reminders = []types.Reminder{}
	}

	return uapi.HttpResponse{
		Json: types.ReminderList{
			Reminders: reminders,
		},
	}
}
