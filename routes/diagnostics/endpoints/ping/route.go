package ping

import (
	"net/http"

	"remindshare/state"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
)

type Hello struct {
	Message string `json:"message"`
	Docs    string `json:"docs"`
	OurSite string `json:"our_site"`
}

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Ping Server",
		Description: "This is a simple ping endpoint to check if the API is online. It will return a simple JSON object with a message, docs link and our site link.",
		Resp:        Hello{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	return uapi.HttpResponse{
		Json: Hello{
			Message: "Hello world from the remindshare API!",
			Docs:    state.Config.Sites.API.Parse() + "/docs",
			OurSite: state.Config.Sites.Frontend,
		},
	}
}
