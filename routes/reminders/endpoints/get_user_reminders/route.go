package get_user_reminders

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
		Summary:     "Get User Reminders",
		Description: "Gets every reminder visible to a user: their own plus accepted shared-in copies. Derived fields (from_owner, is_expired) are recomputed on every load.",
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
	reminders, err := sharing.LoadReminders(d.Context, d.Auth.ID)

	if err != nil {
		state.Logger.Error("Error loading reminders", zap.Error(err), zap.String("identity", d.Auth.ID))
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
