package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/123shiju/ecommerce-client/internal/application/notify"
	"github.com/123shiju/ecommerce-client/internal/domain/identity"
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/cache"
	"github.com/123shiju/ecommerce-client/internal/testutil"
)

type fixture struct {
	svc       *Service
	gateway   *testutil.MockAuthGateway
	store     *cache.InMemoryLocalStore
	publisher *testutil.RecordingPublisher
	notifier  *notify.Notifier
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		gateway:   new(testutil.MockAuthGateway),
		store:     cache.NewInMemoryLocalStore(),
		publisher: testutil.NewRecordingPublisher(),
		notifier:  notify.New(10, zap.NewNop()),
	}
	f.svc = NewService(f.gateway, f.store, f.publisher, f.notifier, zap.NewNop(), opts...)
	return f
}

func signedToken(t *testing.T, exp time.Time) identity.AuthToken {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix(), "id": "u1"})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return identity.AuthToken(s)
}

var ann = identity.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}

func TestService_SignIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creds := identity.Credentials{Email: "ann@example.com", Password: "secret"}
	f.gateway.On("SignIn", mock.Anything, creds).Return(identity.Session{User: ann, Token: "opaque"}, nil)

	sess, err := f.svc.SignIn(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, ann, sess.User)

	user, ok := f.svc.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, ann, user)
	tok, ok := f.svc.CurrentToken()
	assert.True(t, ok)
	assert.Equal(t, identity.AuthToken("opaque"), tok)

	var stored identity.User
	require.NoError(t, f.store.Get(ctx, shared.KeySessionUser, &stored))
	assert.Equal(t, ann, stored)

	assert.Equal(t, []string{identity.EventTypeSessionStarted}, f.publisher.Types())
	assert.Equal(t, "Login successful!", f.notifier.Recent(1)[0].Message)
}

func TestService_SignInValidationBlocksNetwork(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SignIn(context.Background(), identity.Credentials{Email: "not-an-email"})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	f.gateway.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
	assert.Equal(t, notify.LevelError, f.notifier.Recent(1)[0].Level)
}

func TestService_SignInFailureSurfacesMessage(t *testing.T) {
	f := newFixture(t)
	creds := identity.Credentials{Email: "ann@example.com", Password: "wrong"}
	f.gateway.On("SignIn", mock.Anything, creds).
		Return(identity.Session{}, shared.NewAuthError("Invalid credentials"))

	_, err := f.svc.SignIn(context.Background(), creds)
	require.Error(t, err)
	assert.True(t, shared.IsAuthError(err))

	_, ok := f.svc.CurrentUser()
	assert.False(t, ok)
	assert.Equal(t, "Invalid credentials", f.notifier.Recent(1)[0].Message)
	assert.Empty(t, f.publisher.Events())
}

func TestService_SignUp(t *testing.T) {
	f := newFixture(t)
	profile := identity.Profile{Name: "Ann", Email: "ann@example.com", Password: "secret1"}
	f.gateway.On("SignUp", mock.Anything, profile).Return(identity.Session{User: ann, Token: "opaque"}, nil)

	_, err := f.svc.SignUp(context.Background(), profile)
	require.NoError(t, err)

	_, ok := f.svc.Current()
	assert.True(t, ok)
	assert.Equal(t, "Signup successful!", f.notifier.Recent(1)[0].Message)
}

func TestService_SignOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creds := identity.Credentials{Email: "ann@example.com", Password: "secret"}
	f.gateway.On("SignIn", mock.Anything, creds).Return(identity.Session{User: ann, Token: "opaque"}, nil)
	_, err := f.svc.SignIn(ctx, creds)
	require.NoError(t, err)

	f.svc.SignOut(ctx)

	_, ok := f.svc.CurrentUser()
	assert.False(t, ok)
	assert.Zero(t, f.store.Len())
	assert.Equal(t, []string{identity.EventTypeSessionStarted, identity.EventTypeSessionEnded}, f.publisher.Types())

	_, err = f.svc.Require()
	assert.True(t, shared.IsAuthError(err))
}

func TestService_SignInAsAnotherUserEndsPreviousSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := identity.User{ID: "u2", Name: "Bob", Email: "bob@example.com"}
	annCreds := identity.Credentials{Email: "ann@example.com", Password: "secret"}
	bobCreds := identity.Credentials{Email: "bob@example.com", Password: "secret"}
	f.gateway.On("SignIn", mock.Anything, annCreds).Return(identity.Session{User: ann, Token: "ann-token"}, nil)
	f.gateway.On("SignIn", mock.Anything, bobCreds).Return(identity.Session{User: bob, Token: "bob-token"}, nil)

	_, err := f.svc.SignIn(ctx, annCreds)
	require.NoError(t, err)
	_, err = f.svc.SignIn(ctx, bobCreds)
	require.NoError(t, err)

	assert.Equal(t, []string{
		identity.EventTypeSessionStarted,
		identity.EventTypeSessionEnded,
		identity.EventTypeSessionStarted,
	}, f.publisher.Types())
	ended, ok := f.publisher.Events()[1].(*identity.SessionEndedEvent)
	require.True(t, ok)
	assert.Equal(t, "u1", ended.UserID)

	user, ok := f.svc.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, bob, user)
}

func TestService_SignInAgainAsSameUserKeepsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	creds := identity.Credentials{Email: "ann@example.com", Password: "secret"}
	f.gateway.On("SignIn", mock.Anything, creds).Return(identity.Session{User: ann, Token: "opaque"}, nil)

	_, err := f.svc.SignIn(ctx, creds)
	require.NoError(t, err)
	_, err = f.svc.SignIn(ctx, creds)
	require.NoError(t, err)

	assert.Equal(t, []string{identity.EventTypeSessionStarted, identity.EventTypeSessionStarted}, f.publisher.Types())
}

func TestService_SignOutWithoutSessionIsQuiet(t *testing.T) {
	f := newFixture(t)
	f.svc.SignOut(context.Background())
	assert.Empty(t, f.publisher.Events())
	assert.Zero(t, f.notifier.Len())
}

func TestService_Restore(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		token     identity.AuthToken
		wantFound bool
	}{
		{name: "opaque token", token: "opaque", wantFound: true},
		{name: "unexpired jwt", token: signedToken(t, now.Add(time.Hour)), wantFound: true},
		{name: "expired jwt", token: signedToken(t, now.Add(-time.Hour)), wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, WithClock(func() time.Time { return now }))
			ctx := context.Background()
			require.NoError(t, f.store.Put(ctx, shared.KeySessionUser, ann))
			require.NoError(t, f.store.Put(ctx, shared.KeySessionToken, tt.token))

			found, err := f.svc.Restore(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)

			_, ok := f.svc.Current()
			assert.Equal(t, tt.wantFound, ok)
			if !tt.wantFound {
				assert.Zero(t, f.store.Len())
				assert.Empty(t, f.publisher.Events())
				return
			}
			events := f.publisher.Events()
			require.Len(t, events, 1)
			started, isStarted := events[0].(*identity.SessionStartedEvent)
			require.True(t, isStarted)
			assert.True(t, started.Restored)
		})
	}
}

func TestService_RestoreEmptyStore(t *testing.T) {
	f := newFixture(t)
	found, err := f.svc.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestService_TokenExpiresDuringSession(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	f := newFixture(t, WithClock(func() time.Time { return clock }))
	creds := identity.Credentials{Email: "ann@example.com", Password: "secret"}
	f.gateway.On("SignIn", mock.Anything, creds).
		Return(identity.Session{User: ann, Token: signedToken(t, now.Add(time.Minute))}, nil)

	_, err := f.svc.SignIn(context.Background(), creds)
	require.NoError(t, err)
	_, err = f.svc.Require()
	require.NoError(t, err)

	clock = now.Add(2 * time.Minute)
	_, err = f.svc.Require()
	assert.True(t, shared.IsAuthError(err))
}
