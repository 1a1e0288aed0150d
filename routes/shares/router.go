package shares

import (
	"remindshare/api"
	"remindshare/routes/shares/endpoints/accept_invitation"
	"remindshare/routes/shares/endpoints/get_assigned_reminders"
	"remindshare/routes/shares/endpoints/reject_invitation"
	"remindshare/routes/shares/endpoints/share_reminder"

	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"
)

const tagName = "Sharing"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "These API endpoints are related to sharing reminders between users"
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/users/{id}/reminders/assigned",
		OpId:    "get_assigned_reminders",
		Method:  uapi.GET,
		Docs:    get_assigned_reminders.Docs,
		Handler: get_assigned_reminders.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   api.TargetTypeUser,
			},
		},
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{id}/reminders/{rid}/share",
		OpId:    "share_reminder",
		Method:  uapi.POST,
		Docs:    share_reminder.Docs,
		Handler: share_reminder.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   api.TargetTypeUser,
			},
		},
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{id}/reminders/{rid}/accept",
		OpId:    "accept_invitation",
		Method:  uapi.POST,
		Docs:    accept_invitation.Docs,
		Handler: accept_invitation.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   api.TargetTypeUser,
			},
		},
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{id}/reminders/{rid}/reject",
		OpId:    "reject_invitation",
		Method:  uapi.POST,
		Docs:    reject_invitation.Docs,
		Handler: reject_invitation.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   api.TargetTypeUser,
			},
		},
	}.Route(r)
}
