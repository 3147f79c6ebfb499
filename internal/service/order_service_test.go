package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amiraesya/glowmart-golang/internal/models"
)

type orderFixture struct {
	svc     *OrderService
	catalog *fakeCatalog
	orders  *fakeOrderStore
	events  *recordingPublisher
}

func newOrderFixture(products ...models.Product) *orderFixture {
	catalog := newFakeCatalog(products...)
	orders := newFakeOrderStore(catalog, newFakeCartStore())
	events := &recordingPublisher{}
	return &orderFixture{
		svc:     NewOrderService(orders, events, testLogger()),
		catalog: catalog,
		orders:  orders,
		events:  events,
	}
}

// placeOrder seeds a stored order directly, decrementing stock the way
// a real checkout would have.
func (fix *orderFixture) placeOrder(t *testing.T, id string, status models.OrderStatus, items ...models.OrderItem) {
	t.Helper()
	ctx := context.Background()
	order := &models.Order{ID: id, UserID: "user1", Status: models.StatusPending, TotalAmount: 10}
	require.NoError(t, fix.orders.CreateOrder(ctx, order, items))
	if status != models.StatusPending {
		require.NoError(t, fix.orders.UpdateStatus(ctx, id, models.StatusPending, status))
	}
}

func TestTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("walks the happy path", func(t *testing.T) {
		fix := newOrderFixture(serumProduct("p1", 10, 5))
		fix.placeOrder(t, "o1", models.StatusPending,
			models.OrderItem{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 1, Price: 10})

		for _, to := range []models.OrderStatus{models.StatusProcessing, models.StatusShipped, models.StatusDelivered} {
			order, err := fix.svc.Transition(ctx, "o1", to)
			require.NoError(t, err)
			require.Equal(t, to, order.Status)
		}
		require.Equal(t, []string{
			"o1:pending->processing",
			"o1:processing->shipped",
			"o1:shipped->delivered",
		}, fix.events.changes)
	})

	t.Run("rejects moves the lifecycle does not allow", func(t *testing.T) {
		cases := []struct {
			from models.OrderStatus
			to   models.OrderStatus
		}{
			{models.StatusPending, models.StatusShipped},
			{models.StatusPending, models.StatusDelivered},
			{models.StatusPending, models.StatusPending},
			{models.StatusProcessing, models.StatusPending},
			{models.StatusProcessing, models.StatusDelivered},
			{models.StatusShipped, models.StatusPending},
			{models.StatusShipped, models.StatusCancelled},
			{models.StatusDelivered, models.StatusCancelled},
			{models.StatusDelivered, models.StatusProcessing},
			{models.StatusCancelled, models.StatusPending},
			{models.StatusCancelled, models.StatusProcessing},
		}
		for _, tc := range cases {
			fix := newOrderFixture(serumProduct("p1", 10, 5))
			fix.placeOrder(t, "o1", tc.from,
				models.OrderItem{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 1, Price: 10})

			_, err := fix.svc.Transition(ctx, "o1", tc.to)
			require.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
		}
	})

	t.Run("unknown status value", func(t *testing.T) {
		fix := newOrderFixture()
		_, err := fix.svc.Transition(ctx, "o1", models.OrderStatus("refunded"))
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown order", func(t *testing.T) {
		fix := newOrderFixture()
		_, err := fix.svc.Transition(ctx, "missing", models.StatusProcessing)
		require.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestCancelRestoresStock(t *testing.T) {
	ctx := context.Background()
	fix := newOrderFixture(serumProduct("p1", 10, 5), serumProduct("p2", 4, 9))
	fix.placeOrder(t, "o1", models.StatusPending,
		models.OrderItem{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 2, Price: 10},
		models.OrderItem{ID: "i2", OrderID: "o1", ProductID: "p2", Quantity: 1, Price: 4})
	require.Equal(t, 3, fix.catalog.stock("p1"))
	require.Equal(t, 8, fix.catalog.stock("p2"))

	order, err := fix.svc.Transition(ctx, "o1", models.StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, order.Status)

	// Every reserved unit goes back, exactly once.
	require.Equal(t, 5, fix.catalog.stock("p1"))
	require.Equal(t, 9, fix.catalog.stock("p2"))
	require.Equal(t, []string{"o1:pending->cancelled"}, fix.events.changes)
}

func TestCancelShippedOrderKeepsStock(t *testing.T) {
	ctx := context.Background()
	fix := newOrderFixture(serumProduct("p1", 10, 5))
	fix.placeOrder(t, "o1", models.StatusShipped,
		models.OrderItem{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 2, Price: 10})

	_, err := fix.svc.Transition(ctx, "o1", models.StatusCancelled)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Equal(t, 3, fix.catalog.stock("p1"))
}

func TestGetUserOrder(t *testing.T) {
	ctx := context.Background()
	fix := newOrderFixture(serumProduct("p1", 10, 5))
	fix.placeOrder(t, "o1", models.StatusPending,
		models.OrderItem{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 1, Price: 10})

	order, err := fix.svc.GetUserOrder(ctx, "user1", "o1")
	require.NoError(t, err)
	require.Equal(t, "o1", order.ID)

	// Someone else's order looks like it does not exist.
	_, err = fix.svc.GetUserOrder(ctx, "user2", "o1")
	require.ErrorIs(t, err, ErrOrderNotFound)
}
