package config

import (
	_ "embed"
	"strings"
)

const (
	CurrentEnvProd    = "prod"
	CurrentEnvStaging = "staging"
)

//go:embed current-env
var CurrentEnv string

func init() {
	CurrentEnv = strings.TrimSpace(CurrentEnv)

	if CurrentEnv != CurrentEnvProd && CurrentEnv != CurrentEnvStaging {
		panic("invalid environment")
	}
}

// Common struct for values that differ between staging and production environments
type Differs[T any] struct {
	Staging T `yaml:"staging" comment:"Staging value" validate:"required"`
	Prod    T `yaml:"prod" comment:"Production value" validate:"required"`
}

func (d *Differs[T]) Parse() T {
	if CurrentEnv == CurrentEnvProd {
		return d.Prod
	} else if CurrentEnv == CurrentEnvStaging {
		return d.Staging
	} else {
		panic("invalid environment")
	}
}

type Config struct {
	Sites         Sites         `yaml:"sites" validate:"required"`
	Identity      Identity      `yaml:"identity" validate:"required"`
	Notifications Notifications `yaml:"notifications" validate:"required"`
	Meta          Meta          `yaml:"meta" validate:"required"`
}

type Sites struct {
	Frontend string          `yaml:"frontend" default:"https://remindshare.app" comment:"Frontend URL" validate:"required"`
	API      Differs[string] `yaml:"api" default:"https://api.remindshare.app" comment:"API URL" validate:"required"`
}

// Identity holds the login-code exchange provider used to resolve an opaque
// identity from a client login code.
type Identity struct {
	AppID          string          `yaml:"app_id" comment:"Identity provider app ID" validate:"required"`
	AppSecret      string          `yaml:"app_secret" comment:"Identity provider app secret" validate:"required"`
	ExchangeURL    Differs[string] `yaml:"exchange_url" default:"https://api.weixin.qq.com/sns/jscode2session" comment:"Login code exchange endpoint" validate:"required"`
	SessionExpiry  int             `yaml:"session_expiry" default:"7200" comment:"Session cache expiry in seconds" validate:"required"`
	CodeCacheEpoch int             `yaml:"code_cache_epoch" default:"300" comment:"How long (seconds) a login code is remembered to block replays" validate:"required"`
}

type Notifications struct {
	VapidPublicKey  string `yaml:"vapid_public_key" comment:"Vapid Public Key (https://www.stephane-quantin.com/en/tools/generators/vapid-keys)" validate:"required"`
	VapidPrivateKey string `yaml:"vapid_private_key" comment:"Vapid Private Key (https://www.stephane-quantin.com/en/tools/generators/vapid-keys)" validate:"required"`
	Subscriber      string `yaml:"subscriber" default:"reminders@remindshare.app" comment:"Webpush subscriber contact" validate:"required"`
	PollInterval    int    `yaml:"poll_interval" default:"15" comment:"Due-reminder poll interval in seconds" validate:"required"`
}

type Meta struct {
	PostgresURL string          `yaml:"postgres_url" default:"postgresql:///remindshare" comment:"Postgres URL" validate:"required"`
	RedisURL    string          `yaml:"redis_url" default:"redis://localhost:6379" comment:"Redis URL" validate:"required"`
	Port        Differs[string] `yaml:"port" default:":8081" comment:"Port to run the server on" validate:"required"`
}
