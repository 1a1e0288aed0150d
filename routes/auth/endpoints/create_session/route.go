package create_session

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"remindshare/ratelimit"
	"remindshare/state"
	"remindshare/types"

	"github.com/go-playground/validator/v10"
	"github.com/infinitybotlist/eureka/crypto"
	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"github.com/jackc/pgx/v5/pgtype"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var compiledMessages = uapi.CompileValidationErrors(types.CreateSession{})

// Response of the identity provider's login-code exchange
type exchangeResult struct {
	Identity string `json:"openid"`
	ErrCode  int    `json:"errcode"`
	ErrMsg   string `json:"errmsg"`
}

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Create Session",
		Description: "Exchanges a client login code for an opaque identity and an API token. The token cannot be read again after creation.",
		Req:         types.CreateSession{},
		Resp:        types.CreateSessionResponse{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	limit, err := ratelimit.Ratelimit{
		Expiry:      1 * time.Minute,
		MaxRequests: 5,
		Bucket:      "login",
	}.Limit(d.Context, r)

	if err != nil {
		state.Logger.Error("Error applying login ratelimit", zap.Error(err))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	if limit.Exceeded {
		return uapi.HttpResponse{
			Status:  http.StatusTooManyRequests,
			Headers: limit.Headers(),
			Json:    types.ApiError{Message: "You are being ratelimited. Please try again in " + limit.TimeToReset.String()},
		}
	}

	var createData types.CreateSession

	hresp, ok := uapi.MarshalReq(r, &createData)

	if !ok {
		return hresp
	}

	err = state.Validator.Struct(createData)

	if err != nil {
		return uapi.ValidatorErrorResponse(compiledMessages, err.(validator.ValidationErrors))
	}

	// Login codes are single-use; remember seen codes to block replays
	if state.Redis.Exists(d.Context, "codecache:"+createData.Code).Val() == 1 {
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "Code has been used before and is as such invalid"},
		}
	}

	state.Redis.Set(d.Context, "codecache:"+createData.Code, "0", time.Duration(state.Config.Identity.CodeCacheEpoch)*time.Second)

	exchangeURL := state.Config.Identity.ExchangeURL.Parse() + "?" + url.Values{
		"appid":      {state.Config.Identity.AppID},
		"secret":     {state.Config.Identity.AppSecret},
		"js_code":    {createData.Code},
		"grant_type": {"authorization_code"},
	}.Encode()

	httpResp, err := http.Get(exchangeURL)

	if err != nil {
		state.Logger.Error("Error exchanging login code", zap.Error(err))
		return uapi.HttpResponse{
			Status: http.StatusInternalServerError,
			Json:   types.ApiError{Message: "Failed to reach the identity provider"},
		}
	}

	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)

	if err != nil {
		state.Logger.Error("Error reading identity provider response", zap.Error(err))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	var result exchangeResult

	err = json.Unmarshal(body, &result)

	if err != nil {
		state.Logger.Error("Error decoding identity provider response", zap.Error(err))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	if result.Identity == "" {
		state.Logger.Error("Identity provider rejected login code", zap.Int("errcode", result.ErrCode), zap.String("errmsg", result.ErrMsg))
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "Login code was rejected. Retry login?"},
		}
	}

	var apiToken pgtype.Text

	err = state.Pool.QueryRow(d.Context, "SELECT api_token FROM users WHERE identity = $1", result.Identity).Scan(&apiToken)

	if err == nil && apiToken.Valid {
		return uapi.HttpResponse{
			Json: types.CreateSessionResponse{
				Identity: result.Identity,
				APIToken: apiToken.String,
			},
		}
	}

	token := crypto.RandString(128)

	_, err = state.Pool.Exec(
		d.Context,
		"INSERT INTO users (identity, api_token) VALUES ($1, $2) ON CONFLICT (identity) DO NOTHING",
		result.Identity,
		token,
	)

	if err != nil {
		state.Logger.Error("Error creating user", zap.Error(err))
		return uapi.HttpResponse{
			Status: http.StatusInternalServerError,
			Json:   types.ApiError{Message: "Failed to create user on database"},
		}
	}

	return uapi.HttpResponse{
		Json: types.CreateSessionResponse{
			Identity: result.Identity,
			APIToken: token,
		},
	}
}
