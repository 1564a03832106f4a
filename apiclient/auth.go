package apiclient

import (
	"context"
	"net/http"

	"github.com/Madmax-op/FoodShare/models"
)

const (
	pathLogin         = "/auth/login"
	pathRegisterDonor = "/auth/register/donor"
	pathRegisterNGO   = "/auth/register/ngo"
	pathMe            = "/auth/me"
)

const (
	MsgLoginFailed        = "Login failed"
	MsgRegistrationFailed = "Registration failed"
	MsgUserLookupFailed   = "Failed to load user"
)

// Login exchanges credentials for a token. Rejected credentials come back as
// an unsuccessful Result, not an error.
func (cl *Client) Login(ctx context.Context, creds models.Credentials) (Result[models.AuthResponse], error) {
	var res Result[models.AuthResponse]
	ok, msg, err := cl.do(ctx, call{
		method:    http.MethodPost,
		path:      pathLogin,
		body:      creds,
		operation: "login",
		fallback:  MsgLoginFailed,
	}, &res.Data)
	res.Success, res.Message = ok, msg
	return res, err
}

// RegisterDonor creates a donor account.
func (cl *Client) RegisterDonor(ctx context.Context, d models.DonorRegistration) (Result[models.AuthResponse], error) {
	return cl.register(ctx, pathRegisterDonor, d)
}

// RegisterNGO creates an NGO account.
func (cl *Client) RegisterNGO(ctx context.Context, n models.NGORegistration) (Result[models.AuthResponse], error) {
	return cl.register(ctx, pathRegisterNGO, n)
}

func (cl *Client) register(ctx context.Context, path string, payload any) (Result[models.AuthResponse], error) {
	var res Result[models.AuthResponse]
	ok, msg, err := cl.do(ctx, call{
		method:    http.MethodPost,
		path:      path,
		body:      payload,
		operation: "registration",
		fallback:  MsgRegistrationFailed,
	}, &res.Data)
	res.Success, res.Message = ok, msg
	return res, err
}

// GetCurrentUser resolves the profile behind a bearer token.
func (cl *Client) GetCurrentUser(ctx context.Context, token string) (Result[models.CurrentUser], error) {
	var res Result[models.CurrentUser]
	ok, msg, err := cl.do(ctx, call{
		method:    http.MethodGet,
		path:      pathMe,
		token:     token,
		operation: "user lookup",
		fallback:  MsgUserLookupFailed,
	}, &res.Data)
	res.Success, res.Message = ok, msg
	return res, err
}
