package types

type CreateSession struct {
	Code string `json:"code" validate:"required,min=5,nospaces" description:"The login code from the client login flow"`
}

type CreateSessionResponse struct {
	Identity string `json:"identity" description:"The resolved opaque identity"`
	APIToken string `json:"api_token" description:"Token to pass in the Authorization header"`
}

type TestAuth struct {
	Identity string `json:"identity"`
}
