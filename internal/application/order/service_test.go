package order

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/123shiju/ecommerce-client/internal/domain/identity"
	"github.com/123shiju/ecommerce-client/internal/domain/order"
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/123shiju/ecommerce-client/internal/testutil"
)

func newService(t *testing.T) (*Service, *testutil.MockOrderGateway, *testutil.StaticSessions) {
	t.Helper()
	gw := new(testutil.MockOrderGateway)
	sessions := testutil.NewStaticSessions(testutil.SessionFixture())
	return NewService(sessions, gw, zap.NewNop()), gw, sessions
}

func fakeOrder(status order.Status) order.Order {
	return order.Order{
		ID:            gofakeit.UUID(),
		UserID:        "u1",
		TotalAmount:   decimal.NewFromFloat(gofakeit.Price(10, 500)).Round(2),
		PaymentMethod: order.CashOnDelivery,
		Status:        status,
	}
}

func TestService_ListOrders(t *testing.T) {
	svc, gw, _ := newService(t)
	gw.On("History", mock.Anything, "test-token", "u1").
		Return([]order.Order{fakeOrder(order.StatusShipped), fakeOrder("")}, nil)

	h, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, h.Orders, 2)
	assert.Equal(t, order.StatusShipped, h.Orders[0].Status)
	assert.Equal(t, order.StatusPending, h.Orders[1].Status)
	assert.Empty(t, h.Message)
}

func TestService_ListOrdersEmpty(t *testing.T) {
	svc, gw, _ := newService(t)
	gw.On("History", mock.Anything, "test-token", "u1").Return(nil, nil)

	h, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, h.Orders)
	assert.Empty(t, h.Orders)
	assert.Equal(t, MessageNoHistory, h.Message)
}

func TestService_ListOrdersFailure(t *testing.T) {
	svc, gw, _ := newService(t)
	gw.On("History", mock.Anything, "test-token", "u1").Return(nil, shared.ErrNetwork)

	h, err := svc.ListOrders(context.Background())
	require.Error(t, err)
	assert.True(t, shared.IsNetworkError(err))
	assert.Equal(t, MessageLoadFailed, h.Message)
	assert.NotNil(t, h.Orders)
}

func TestService_ListOrdersRequiresSession(t *testing.T) {
	svc, gw, sessions := newService(t)
	sessions.Set(identity.Session{})

	_, err := svc.ListOrders(context.Background())
	require.Error(t, err)
	assert.True(t, shared.IsAuthError(err))
	gw.AssertNotCalled(t, "History", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_GetOrder(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		result   order.Order
		err      error
		wantCode string
		wantMsg  string
	}{
		{name: "found", id: "o1", result: order.Order{ID: "o1"}},
		{name: "blank id", id: "", wantCode: shared.CodeNotFound, wantMsg: MessageNoOrder},
		{name: "missing", id: "o2", err: shared.NewNotFoundError("Order not found"), wantCode: shared.CodeNotFound, wantMsg: MessageNoOrder},
		{name: "network", id: "o3", err: shared.ErrNetwork, wantCode: shared.CodeNetwork, wantMsg: shared.ErrNetwork.Message},
		{name: "server", id: "o4", err: shared.ErrServer, wantCode: shared.CodeServer, wantMsg: MessageDetailsFailed},
		{name: "unclassified", id: "o5", err: errors.New("boom"), wantCode: shared.CodeServer, wantMsg: MessageDetailsFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gw, _ := newService(t)
			gw.On("Get", mock.Anything, "test-token", tt.id).Return(tt.result, tt.err)

			o, err := svc.GetOrder(context.Background(), tt.id)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.id, o.ID)
				assert.Equal(t, order.StatusPending, o.Status)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, shared.CodeOf(err))
			assert.Equal(t, tt.wantMsg, shared.MessageOf(err))
		})
	}
}

func TestService_Tracking(t *testing.T) {
	svc, gw, _ := newService(t)
	gw.On("History", mock.Anything, "test-token", "u1").Return([]order.Order{
		fakeOrder(order.StatusShipped),
		fakeOrder("Lost in transit"),
		fakeOrder(""),
	}, nil)

	tr, err := svc.Tracking(context.Background())
	require.NoError(t, err)
	require.Len(t, tr.Orders, 3)

	assert.Equal(t, 75, tr.Orders[0].Progress.Percent)
	assert.Equal(t, "orange", tr.Orders[0].Progress.Color)
	assert.Equal(t, "Shipped", tr.Orders[0].Label)

	assert.Equal(t, order.FallbackProgress, tr.Orders[1].Progress)
	assert.True(t, tr.Orders[1].Progress.Indeterminate)

	assert.Equal(t, order.StatusPending, tr.Orders[2].Status)
	assert.Equal(t, "Pending", tr.Orders[2].Label)
	assert.Equal(t, order.FallbackProgress, tr.Orders[2].Progress)
}

func TestService_TrackingPendingStatusFillsQuarter(t *testing.T) {
	svc, gw, _ := newService(t)
	gw.On("History", mock.Anything, "test-token", "u1").Return([]order.Order{
		fakeOrder(order.StatusPending),
	}, nil)

	tr, err := svc.Tracking(context.Background())
	require.NoError(t, err)
	require.Len(t, tr.Orders, 1)
	assert.Equal(t, 25, tr.Orders[0].Progress.Percent)
	assert.Equal(t, "yellow", tr.Orders[0].Progress.Color)
}

func TestService_TrackingEmpty(t *testing.T) {
	svc, gw, _ := newService(t)
	gw.On("History", mock.Anything, "test-token", "u1").Return([]order.Order{}, nil)

	tr, err := svc.Tracking(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tr.Orders)
	assert.Equal(t, MessageNoOrders, tr.Message)
}
