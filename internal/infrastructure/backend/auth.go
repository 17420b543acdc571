package backend

import (
	"context"
	"net/http"

	"github.com/123shiju/ecommerce-client/internal/domain/identity"
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
)

var _ identity.AuthGateway = (*Client)(nil)

type sessionResponse struct {
	Token string        `json:"token"`
	User  identity.User `json:"user"`
}

func (r sessionResponse) session(fallback string) (identity.Session, error) {
	if r.Token == "" || r.User.IsZero() {
		return identity.Session{}, shared.NewDomainError(shared.CodeServer, fallback)
	}
	return identity.Session{User: r.User, Token: identity.AuthToken(r.Token)}, nil
}

// SignIn exchanges credentials for a session
func (c *Client) SignIn(ctx context.Context, creds identity.Credentials) (identity.Session, error) {
	var resp sessionResponse
	err := c.do(ctx, request{
		endpoint: "auth.signin",
		method:   http.MethodPost,
		path:     "/api/auth/signin",
		body:     creds,
		out:      &resp,
	})
	if err != nil {
		return identity.Session{}, err
	}
	return resp.session("Sign in failed")
}

// SignUp registers a new account. The backend answers 201 with the same
// body as sign-in.
func (c *Client) SignUp(ctx context.Context, profile identity.Profile) (identity.Session, error) {
	var resp sessionResponse
	err := c.do(ctx, request{
		endpoint: "auth.signup",
		method:   http.MethodPost,
		path:     "/api/auth/signup",
		body:     profile,
		out:      &resp,
	})
	if err != nil {
		return identity.Session{}, err
	}
	return resp.session("Registration failed")
}
