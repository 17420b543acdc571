package identity

import (
	"testing"
	"time"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) AuthToken {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return AuthToken(s)
}

func TestAuthToken_Expired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		token   AuthToken
		expired bool
	}{
		{"future exp", signedToken(t, now.Add(time.Hour)), false},
		{"past exp", signedToken(t, now.Add(-time.Minute)), true},
		{"opaque token", AuthToken("opaque-session-token"), false},
		{"empty token", AuthToken(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.token.Expired(now))
		})
	}
}

func TestAuthToken_ExpiresAt(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	got, ok := signedToken(t, exp).ExpiresAt()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = AuthToken("not-a-jwt").ExpiresAt()
	assert.False(t, ok)
}

func TestAuthToken_BearerHeader(t *testing.T) {
	assert.Equal(t, "Bearer abc", AuthToken("abc").BearerHeader())
	assert.True(t, AuthToken("  ").IsZero())
}

func TestSession_Valid(t *testing.T) {
	now := time.Now()
	user := User{ID: "u1", Name: "Asha", Email: "asha@example.com"}

	assert.True(t, Session{User: user, Token: "opaque"}.Valid(now))
	assert.False(t, Session{User: user}.Valid(now))
	assert.False(t, Session{Token: "opaque"}.Valid(now))
	assert.False(t, Session{User: user, Token: signedToken(t, now.Add(-time.Second))}.Valid(now))
}

func TestCredentials_Validate(t *testing.T) {
	assert.NoError(t, Credentials{Email: "a@example.com", Password: "secret"}.Validate())

	err := Credentials{Email: "a@example.com"}.Validate()
	assert.True(t, shared.IsValidation(err))
	assert.Contains(t, err.Error(), "password")
}

func TestProfile_Validate(t *testing.T) {
	assert.NoError(t, Profile{Name: "Asha", Email: "a@example.com", Password: "secret1"}.Validate())

	err := Profile{Email: "a@example.com", Password: "secret1"}.Validate()
	assert.True(t, shared.IsValidation(err))
	assert.Contains(t, err.Error(), "name")

	err = Profile{Name: "Asha", Email: "bad", Password: "secret1"}.Validate()
	assert.Contains(t, err.Error(), "email")
}
