package auth

import (
	"remindshare/api"
	"remindshare/routes/auth/endpoints/create_session"
	"remindshare/routes/auth/endpoints/test_auth"

	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"
)

const tagName = "Auth"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "These API endpoints are related to authentication"
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/auth/sessions",
		OpId:    "create_session",
		Method:  uapi.POST,
		Docs:    create_session.Docs,
		Handler: create_session.Route,
	}.Route(r)

	uapi.Route{
		Pattern: "/auth/test",
		OpId:    "test_auth",
		Method:  uapi.GET,
		Docs:    test_auth.Docs,
		Handler: test_auth.Route,
		Auth: []uapi.AuthType{
			{
				Type: api.TargetTypeUser,
			},
		},
	}.Route(r)
}
