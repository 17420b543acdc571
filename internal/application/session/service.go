// Package session holds the signed-in identity for the storefront process.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/123shiju/ecommerce-client/internal/application/notify"
	"github.com/123shiju/ecommerce-client/internal/domain/identity"
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/logger"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Service is the session store. It is the only reader and writer of the
// persisted user and token; every other component asks it.
type Service struct {
	mu      sync.RWMutex
	current identity.Session

	gateway   identity.AuthGateway
	store     shared.LocalStore
	publisher shared.EventPublisher
	notifier  *notify.Notifier
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now for token expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a session service with no signed-in user
func NewService(
	gateway identity.AuthGateway,
	store shared.LocalStore,
	publisher shared.EventPublisher,
	notifier *notify.Notifier,
	zapLogger *zap.Logger,
	opts ...Option,
) *Service {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	s := &Service{
		gateway:   gateway,
		store:     store,
		publisher: publisher,
		notifier:  notifier,
		logger:    zapLogger.Named("session"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the active session, if any
func (s *Service) Current() (identity.Session, bool) {
	s.mu.RLock()
	sess := s.current
	s.mu.RUnlock()
	if !sess.Valid(s.now()) {
		return identity.Session{}, false
	}
	return sess, true
}

// CurrentUser returns the signed-in user, if any
func (s *Service) CurrentUser() (identity.User, bool) {
	sess, ok := s.Current()
	return sess.User, ok
}

// CurrentToken returns the bearer token, if any
func (s *Service) CurrentToken() (identity.AuthToken, bool) {
	sess, ok := s.Current()
	return sess.Token, ok
}

// Require returns the active session or an AuthError
func (s *Service) Require() (identity.Session, error) {
	sess, ok := s.Current()
	if !ok {
		return identity.Session{}, shared.NewAuthError(shared.ErrUnauthorized.Message)
	}
	return sess, nil
}

// SignIn authenticates with the backend and persists the session
func (s *Service) SignIn(ctx context.Context, creds identity.Credentials) (identity.Session, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "session", "sign_in")
	defer span.End()

	if err := creds.Validate(); err != nil {
		s.notifier.Failure(ctx, err)
		return identity.Session{}, err
	}

	sess, err := s.gateway.SignIn(ctx, creds)
	if err != nil {
		telemetry.RecordError(span, err)
		s.notifier.Failure(ctx, err)
		return identity.Session{}, err
	}

	s.start(ctx, sess, false)
	s.notifier.Success(ctx, "Login successful!")
	return sess, nil
}

// SignUp registers a new account and starts a session with it
func (s *Service) SignUp(ctx context.Context, profile identity.Profile) (identity.Session, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "session", "sign_up")
	defer span.End()

	if err := profile.Validate(); err != nil {
		s.notifier.Failure(ctx, err)
		return identity.Session{}, err
	}

	sess, err := s.gateway.SignUp(ctx, profile)
	if err != nil {
		telemetry.RecordError(span, err)
		s.notifier.Failure(ctx, err)
		return identity.Session{}, err
	}

	s.start(ctx, sess, false)
	s.notifier.Success(ctx, "Signup successful!")
	return sess, nil
}

// SignOut clears the session in memory and in the local store
func (s *Service) SignOut(ctx context.Context) {
	s.mu.Lock()
	prev := s.current
	s.current = identity.Session{}
	s.mu.Unlock()

	s.forget(ctx)

	if prev.User.IsZero() {
		return
	}
	s.publish(ctx, identity.NewSessionEndedEvent(prev.User.ID))
	s.notifier.Info(ctx, "Signed out")
	logger.L(ctx, s.logger).Info("session ended", zap.String("user_id", prev.User.ID))
}

// Restore loads a persisted session at startup. It reports whether a
// usable session was found; expired tokens are discarded.
func (s *Service) Restore(ctx context.Context) (bool, error) {
	var user identity.User
	var token identity.AuthToken

	if err := s.store.Get(ctx, shared.KeySessionUser, &user); err != nil {
		if shared.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if err := s.store.Get(ctx, shared.KeySessionToken, &token); err != nil {
		if shared.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	sess := identity.Session{User: user, Token: token}
	if !sess.Valid(s.now()) {
		logger.L(ctx, s.logger).Info("discarding stored session", zap.String("user_id", user.ID))
		s.forget(ctx)
		return false, nil
	}

	s.start(ctx, sess, true)
	return true, nil
}

func (s *Service) start(ctx context.Context, sess identity.Session, restored bool) {
	s.mu.Lock()
	prev := s.current
	s.current = sess
	s.mu.Unlock()

	// A sign-in over another user's session ends that session first so
	// per-user state is dropped before the new user's is loaded.
	if !prev.User.IsZero() && prev.User.ID != sess.User.ID {
		logger.L(ctx, s.logger).Info("session replaced",
			zap.String("previous_user_id", prev.User.ID),
			zap.String("user_id", sess.User.ID),
		)
		s.publish(ctx, identity.NewSessionEndedEvent(prev.User.ID))
	}

	if !restored {
		err := errors.Join(
			s.store.Put(ctx, shared.KeySessionUser, sess.User),
			s.store.Put(ctx, shared.KeySessionToken, sess.Token),
		)
		if err != nil {
			logger.L(ctx, s.logger).Warn("failed to persist session", zap.Error(err))
		}
	}

	logger.L(ctx, s.logger).Info("session started",
		zap.String("user_id", sess.User.ID),
		zap.Bool("restored", restored),
	)
	s.publish(ctx, identity.NewSessionStartedEvent(sess.User.ID, restored))
}

func (s *Service) forget(ctx context.Context) {
	err := errors.Join(
		s.store.Delete(ctx, shared.KeySessionUser),
		s.store.Delete(ctx, shared.KeySessionToken),
	)
	if err != nil {
		logger.L(ctx, s.logger).Warn("failed to clear stored session", zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, event shared.DomainEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.L(ctx, s.logger).Warn("failed to publish session event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}
