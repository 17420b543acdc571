package identity

import (
	"context"
	"strings"
	"time"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/golang-jwt/jwt/v5"
)

// User is the signed-in customer as returned by the auth endpoints.
// It is an immutable snapshot for the lifetime of a session.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IsZero reports whether the user carries no identifier
func (u User) IsZero() bool {
	return u.ID == ""
}

// AuthToken is an opaque bearer credential.
type AuthToken string

// String returns the raw token
func (t AuthToken) String() string {
	return string(t)
}

// IsZero reports whether the token is empty
func (t AuthToken) IsZero() bool {
	return strings.TrimSpace(string(t)) == ""
}

// ExpiresAt returns the exp claim when the token is a JWT that carries one.
// The signature is not verified; only the backend can do that.
func (t AuthToken) ExpiresAt() (time.Time, bool) {
	if t.IsZero() {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(string(t), claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token is known to be expired at now.
// Opaque tokens never expire client-side.
func (t AuthToken) Expired(now time.Time) bool {
	exp, ok := t.ExpiresAt()
	return ok && !now.Before(exp)
}

// BearerHeader returns the Authorization header value
func (t AuthToken) BearerHeader() string {
	return "Bearer " + string(t)
}

// Credentials are submitted by the sign-in form
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks required fields before any network call
func (c Credentials) Validate() error {
	return shared.ValidateStruct(c)
}

// Profile is submitted by the sign-up form
type Profile struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Validate checks required fields before any network call
func (p Profile) Validate() error {
	return shared.ValidateStruct(p)
}

// Session pairs the signed-in user with their token
type Session struct {
	User  User      `json:"user"`
	Token AuthToken `json:"token"`
}

// Valid reports whether the session can authenticate requests at now
func (s Session) Valid(now time.Time) bool {
	return !s.User.IsZero() && !s.Token.IsZero() && !s.Token.Expired(now)
}

// AuthGateway is the backend auth surface
type AuthGateway interface {
	SignIn(ctx context.Context, creds Credentials) (Session, error)
	SignUp(ctx context.Context, profile Profile) (Session, error)
}

// SessionProvider hands the active session to components that call
// authenticated endpoints.
type SessionProvider interface {
	// Require returns the active session or an UNAUTHORIZED error
	Require() (Session, error)
}
