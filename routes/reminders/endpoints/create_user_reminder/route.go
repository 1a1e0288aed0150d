package create_user_reminder

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
)

var compiledMessages = uapi.CompileValidationErrors(types.CreateReminder{})

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Create User Reminder",
		Description: "Creates a new reminder owned and held by the authenticated user",
		Params: []docs.Parameter{
			{
				Name:        "id",
				Description: "User identity",
				Required:    true,
				In:          "path",
				Schema:      docs.IdSchema,
			},
		},
		Req:  types.CreateReminder{},
		Resp: types.Reminder{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	var createData types.CreateReminder

	hresp, ok := uapi.MarshalReq(r, &createData)

	if !ok {
		return hresp
	}

	err := state.Validator.Struct(createData)

	if err != nil {
		return uapi.ValidatorErrorResponse(compiledMessages, err.(validator.ValidationErrors))
	}

	var dueAt *time.Time

	if createData.DueAt != nil {
		t := time.Unix(*createData.DueAt, 0)
		dueAt = &t
	}

	reminder, err := sharing.CreateReminder(d.Context, d.Auth.ID, createData.Subject, createData.Description, dueAt, createData.NotifyEnabled)

	if err != nil {
		state.Logger.Error("Error creating reminder", zap.Error(err), zap.String("identity", d.Auth.ID))
		return api.SharingError(err)
	}

	return uapi.HttpResponse{
		Status: http.StatusCreated,
		Json:   reminder,
	}
}
