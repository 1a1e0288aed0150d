package reminders

import (
	"remindshare/api"
	"remindshare/routes/reminders/endpoints/create_user_reminder"
	"remindshare/routes/reminders/endpoints/delete_user_reminder"
	"remindshare/routes/reminders/endpoints/get_user_reminder"
	"remindshare/routes/reminders/endpoints/get_user_reminders"
	"remindshare/routes/reminders/endpoints/patch_user_reminder"
	"remindshare/routes/reminders/endpoints/put_reminder_completed"

	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"
)

const tagName = "Reminders"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "These API endpoints are related to reminders"
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/users/{id}/reminders",
		OpId:    "get_user_reminders",
		Method:  uapi.GET,
		Docs:    get_user_reminders.Docs,
		Handler: get_user_reminders.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   api.TargetTypeUser,
			},
		},
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{id}/reminders",
		OpId:    "create_user_reminder",
		Method:  uapi.POST,
		Docs:    create_user_reminder.Docs,
		Handler: create_user_reminder.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   api.TargetTypeUser,
			},
		},
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{id}/reminders/{rid}",
		OpId:    "get_user_reminder",
		Method:  uapi.GET,
		Docs:    get_user_reminder.Docs,
		Handler: get_user_reminder.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   api.TargetTypeUser,
			},
		},
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{id}/reminders/{rid}",
		OpId:    "patch_user_reminder",
		Method:  uapi.PATCH,
		Docs:    patch_user_reminder.Docs,
		Handler: patch_user_reminder.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   api.TargetTypeUser,
			},
		},
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{id}/reminders/{rid}",
		OpId:    "delete_user_reminder",
		Method:  uapi.DELETE,
		Docs:    delete_user_reminder.Docs,
		Handler: delete_user_reminder.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   api.TargetTypeUser,
			},
		},
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{id}/reminders/{rid}/completed",
		OpId:    "put_reminder_completed",
		Method:  uapi.PUT,
		Docs:    put_reminder_completed.Docs,
		Handler: put_reminder_completed.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   api.TargetTypeUser,
			},
		},
	}.Route(r)
}
