package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/123shiju/ecommerce-client/internal/domain/cart"
	"github.com/123shiju/ecommerce-client/internal/domain/catalog"
	"github.com/123shiju/ecommerce-client/internal/domain/identity"
	"github.com/123shiju/ecommerce-client/internal/domain/order"
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
)

// MockAuthGateway is a mock implementation of identity.AuthGateway
type MockAuthGateway struct {
	mock.Mock
}

func (m *MockAuthGateway) SignIn(ctx context.Context, creds identity.Credentials) (identity.Session, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(identity.Session), args.Error(1)
}

func (m *MockAuthGateway) SignUp(ctx context.Context, profile identity.Profile) (identity.Session, error) {
	args := m.Called(ctx, profile)
	return args.Get(0).(identity.Session), args.Error(1)
}

// MockCatalogGateway is a mock implementation of catalog.Gateway
type MockCatalogGateway struct {
	mock.Mock
}

func (m *MockCatalogGateway) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockCatalogGateway) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.Product), args.Error(1)
}

func (m *MockCatalogGateway) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCatalogGateway) AddProduct(ctx context.Context, token string, draft catalog.ProductDraft) error {
	args := m.Called(ctx, token, draft)
	return args.Error(0)
}

// MockCartGateway is a mock implementation of cart.Gateway
type MockCartGateway struct {
	mock.Mock
}

func (m *MockCartGateway) Fetch(ctx context.Context, token, userID string) (cart.Cart, error) {
	args := m.Called(ctx, token, userID)
	return args.Get(0).(cart.Cart), args.Error(1)
}

func (m *MockCartGateway) Add(ctx context.Context, token, userID, productID string, quantity int) error {
	args := m.Called(ctx, token, userID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartGateway) Update(ctx context.Context, token, userID, productID string, dir cart.Direction) error {
	args := m.Called(ctx, token, userID, productID, dir)
	return args.Error(0)
}

func (m *MockCartGateway) Remove(ctx context.Context, token, userID, productID string) error {
	args := m.Called(ctx, token, userID, productID)
	return args.Error(0)
}

// MockWishlistGateway is a mock implementation of cart.WishlistGateway
type MockWishlistGateway struct {
	mock.Mock
}

func (m *MockWishlistGateway) FetchWishlist(ctx context.Context, token, userID string) (cart.Wishlist, error) {
	args := m.Called(ctx, token, userID)
	return args.Get(0).(cart.Wishlist), args.Error(1)
}

func (m *MockWishlistGateway) AddToWishlist(ctx context.Context, token, userID, productID string) error {
	args := m.Called(ctx, token, userID, productID)
	return args.Error(0)
}

func (m *MockWishlistGateway) RemoveFromWishlist(ctx context.Context, token, userID, productID string) error {
	args := m.Called(ctx, token, userID, productID)
	return args.Error(0)
}

// MockOrderGateway is a mock implementation of order.Gateway
type MockOrderGateway struct {
	mock.Mock
}

func (m *MockOrderGateway) Place(ctx context.Context, token string, p order.Placement) (string, error) {
	args := m.Called(ctx, token, p)
	return args.String(0), args.Error(1)
}

func (m *MockOrderGateway) Get(ctx context.Context, token, orderID string) (order.Order, error) {
	args := m.Called(ctx, token, orderID)
	return args.Get(0).(order.Order), args.Error(1)
}

func (m *MockOrderGateway) History(ctx context.Context, token, userID string) ([]order.Order, error) {
	args := m.Called(ctx, token, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

var (
	_ identity.AuthGateway = (*MockAuthGateway)(nil)
	_ catalog.Gateway      = (*MockCatalogGateway)(nil)
	_ cart.Gateway         = (*MockCartGateway)(nil)
	_ cart.WishlistGateway = (*MockWishlistGateway)(nil)
	_ order.Gateway        = (*MockOrderGateway)(nil)

	_ identity.SessionProvider = (*StaticSessions)(nil)
)

// StaticSessions is a SessionProvider returning a fixed session. A zero
// session yields an UNAUTHORIZED error.
type StaticSessions struct {
	mu      sync.RWMutex
	session identity.Session
}

// NewStaticSessions creates a provider signed in as sess
func NewStaticSessions(sess identity.Session) *StaticSessions {
	return &StaticSessions{session: sess}
}

// Require implements identity.SessionProvider
func (s *StaticSessions) Require() (identity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.User.IsZero() || s.session.Token.IsZero() {
		return identity.Session{}, shared.NewAuthError(shared.ErrUnauthorized.Message)
	}
	return s.session, nil
}

// Set replaces the session; a zero value signs out
func (s *StaticSessions) Set(sess identity.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
}

// SessionFixture returns a signed-in session for tests
func SessionFixture() identity.Session {
	return identity.Session{
		User:  identity.User{ID: "u1", Name: "Ann", Email: "ann@example.com"},
		Token: "test-token",
	}
}
