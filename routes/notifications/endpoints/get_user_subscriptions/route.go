package get_user_subscriptions

import (
	"errors"
	"net/http"
	"strings"

	"remindshare/db"
	"remindshare/state"
	"remindshare/types"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	ua "github.com/mileusna/useragent"
	"go.uber.org/zap"

	"github.com/jackc/pgx/v5"
)

var (
	notifGetCols    = db.GetCols(types.NotifGet{})
	notifGetColsStr = strings.Join(notifGetCols, ",")
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get User Subscriptions",
		Description: "Gets the webpush subscriptions registered by the authenticated user along with parsed browser info",
		Params: []docs.Parameter{
			{
				Name:        "id",
				Description: "User identity",
				Required:    true,
				In:          "path",
				Schema:      docs.IdSchema,
			},
		},
		Resp: types.NotifGetList{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	rows, err := state.Pool.Query(d.Context, "SELECT "+notifGetColsStr+" FROM push_subscriptions WHERE identity = $1", d.Auth.ID)

	if err != nil {
		state.Logger.Error("Error querying subscriptions", zap.Error(err), zap.String("identity", d.Auth.ID))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	subs, err := pgx.CollectRows(rows, pgx.RowToStructByName[types.NotifGet])

	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		state.Logger.Error("Error collecting subscriptions", zap.Error(err), zap.String("identity", d.Auth.ID))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	for i := range subs {
		uaD := ua.Parse(subs[i].UA)

		subs[i].BrowserInfo = types.NotifBrowserInfo{
			OS:         uaD.OS,
			Browser:    uaD.Name,
			BrowserVer: uaD.Version,
			Mobile:     uaD.Mobile,
		}
	}

	if len(subs) == 0 {
		subs = []types.NotifGet{}
	}

	return uapi.HttpResponse{
		Json: types.NotifGetList{
			Notifications: subs,
		},
	}
}
