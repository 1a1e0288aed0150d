package notifications

import (
	"remindshare/api"
	"remindshare/routes/notifications/endpoints/delete_user_subscription"
	"remindshare/routes/notifications/endpoints/get_notification_info"
	"remindshare/routes/notifications/endpoints/get_user_subscriptions"
	"remindshare/routes/notifications/endpoints/post_user_subscription"

	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"
)

const tagName = "Notifications"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "These API endpoints are related to push notifications"
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/notifications/info",
		OpId:    "get_notification_info",
		Method:  uapi.GET,
		Docs:    get_notification_info.Docs,
		Handler: get_notification_info.Route,
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{id}/subscriptions",
		OpId:    "get_user_subscriptions",
		Method:  uapi.GET,
		Docs:    get_user_subscriptions.Docs,
		Handler: get_user_subscriptions.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   api.TargetTypeUser,
			},
		},
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{id}/subscriptions",
		OpId:    "post_user_subscription",
		Method:  uapi.POST,
		Docs:    post_user_subscription.Docs,
		Handler: post_user_subscription.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   api.TargetTypeUser,
			},
		},
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{id}/subscriptions/{notif_id}",
		OpId:    "delete_user_subscription",
		Method:  uapi.DELETE,
		Docs:    delete_user_subscription.Docs,
		Handler: delete_user_subscription.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   api.TargetTypeUser,
			},
		},
	}.Route(r)
}
