package patch_user_reminder

import (
	"net/http"
	"time"

	"remindshare/api"
	"remindshare/sharing"
	"remindshare/state"
	"remindshare/types"

	"github.com/go-playground/validator/v10"
	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

var compiledMessages = uapi.CompileValidationErrors(types.UpdateReminder{})

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Edit User Reminder",
		Description: "Edits a reminder. Only the owner's own, non-shared-in copy can be edited.",
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
		Req:  types.UpdateReminder{},
		Resp: types.Reminder{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	rid := chi.URLParam(r, "rid")

	if rid == "" {
		return uapi.DefaultResponse(http.StatusBadRequest)
	}

	var updateData types.UpdateReminder

	hresp, ok := uapi.MarshalReq(r, &updateData)

	if !ok {
		return hresp
	}

	err := state.Validator.Struct(updateData)

	if err != nil {
		return uapi.ValidatorErrorResponse(compiledMessages, err.(validator.ValidationErrors))
	}

	var dueAt *time.Time

	if updateData.DueAt != nil {
		t := time.Unix(*updateData.DueAt, 0)
		dueAt = &t
	}

	reminder, err := sharing.UpdateReminder(d.Context, rid, d.Auth.ID, updateData.Subject, updateData.Description, dueAt, updateData.NotifyEnabled)

	if err != nil {
		if !sharing.IsNotFound(err) {
			state.Logger.Error("Error updating reminder", zap.Error(err), zap.String("rid", rid), zap.String("identity", d.Auth.ID))
		}
		return api.SharingError(err)
	}

	return uapi.HttpResponse{
		Json: reminder,
	}
}
