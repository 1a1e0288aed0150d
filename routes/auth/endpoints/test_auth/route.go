package test_auth

import (
	"net/http"

	"remindshare/types"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Test Auth",
		Description: "Returns the identity behind the provided token. Useful for checking session validity.",
		Resp:        types.TestAuth{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	return uapi.HttpResponse{
		Json: types.TestAuth{
			Identity: d.Auth.ID,
		},
	}
}
