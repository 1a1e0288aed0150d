// Binds onto eureka uapi
package api

import (
	"net/http"
	"strings"

	"remindshare/constants"
	"remindshare/state"
	"remindshare/types"

	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

const (
	TargetTypeUser = "user"
)

type DefaultResponder struct{}

func (d DefaultResponder) New(err string, ctx map[string]string) any {
	return types.ApiError{
		Message: err,
		Context: ctx,
	}
}

// Authorizes a request against the users table by API token. When the route
// carries a URLVar, the path identity must match the token's identity.
func Authorize(r uapi.Route, req *http.Request) (uapi.AuthData, uapi.HttpResponse, bool) {
	authHeader := req.Header.Get("Authorization")

	if len(r.Auth) > 0 && authHeader == "" && !r.AuthOptional {
		return uapi.AuthData{}, uapi.DefaultResponse(http.StatusUnauthorized), false
	}

	authData := uapi.AuthData{}

	for _, auth := range r.Auth {
		if authData.Authorized {
			break
		}

		if authHeader == "" {
			continue
		}

		if auth.Type != TargetTypeUser {
			continue
		}

		var identity pgtype.Text

		err := state.Pool.QueryRow(state.Context, "SELECT identity FROM users WHERE api_token = $1", strings.Replace(authHeader, "User ", "", 1)).Scan(&identity)

		if err != nil {
			continue
		}

		if !identity.Valid {
			continue
		}

		authData = uapi.AuthData{
			TargetType: TargetTypeUser,
			ID:         identity.String,
			Authorized: true,
		}

		if auth.URLVar != "" {
			gotIdentity := chi.URLParam(req, auth.URLVar)

			if gotIdentity != identity.String {
				state.Logger.Info("URL identity does not match token identity", zap.String("urlVar", auth.URLVar))
				authData = uapi.AuthData{} // Remove auth data
			}
		}
	}

	if len(r.Auth) > 0 && !authData.Authorized && !r.AuthOptional {
		return uapi.AuthData{}, uapi.DefaultResponse(http.StatusUnauthorized), false
	}

	return authData, uapi.HttpResponse{}, true
}

func Setup() {
	uapi.SetupState(uapi.UAPIState{
		Logger:    state.Logger,
		Authorize: Authorize,
		AuthTypeMap: map[string]string{
			TargetTypeUser: "user",
		},
		Redis:   state.Redis,
		Context: state.Context,
		Constants: &uapi.UAPIConstants{
			ResourceNotFound:    constants.ResourceNotFound,
			BadRequest:          constants.BadRequest,
			Forbidden:           constants.Forbidden,
			Unauthorized:        constants.Unauthorized,
			InternalServerError: constants.InternalServerError,
			MethodNotAllowed:    constants.MethodNotAllowed,
			BodyRequired:        constants.BodyRequired,
		},
		DefaultResponder: DefaultResponder{},
	})
}
