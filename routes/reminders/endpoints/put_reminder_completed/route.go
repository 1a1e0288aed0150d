package put_reminder_completed

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
		Summary:     "Set Reminder Completed",
		Description: "Toggles completion on the copy held by the authenticated user. Owner and accepted copies complete independently.",
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
		Req:  types.SetCompleted{},
		Resp: types.Reminder{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	rid := chi.URLParam(r, "rid")

	if rid == "" {
		return uapi.DefaultResponse(http.StatusBadRequest)
	}

	var setData types.SetCompleted

	hresp, ok := uapi.MarshalReq(r, &setData)

	if !ok {
		return hresp
	}

	reminder, err := sharing.SetCompleted(d.Context, rid, d.Auth.ID, setData.Completed)

	if err != nil {
		if !sharing.IsNotFound(err) {
			state.Logger.Error("Error setting reminder completion", zap.Error(err), zap.String("rid", rid), zap.String("identity", d.Auth.ID))
		}
		return api.SharingError(err)
	}

	return uapi.HttpResponse{
		Json: reminder,
	}
}
