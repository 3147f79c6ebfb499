package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amiraesya/glowmart-golang/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serumProduct(id string, price float64, stock int) models.Product {
	return models.Product{
		ID:            id,
		Name:          "Niacinamide Serum " + id,
		Slug:          "niacinamide-serum-" + id,
		Price:         price,
		StockQuantity: stock,
		Category:      models.CategorySerum,
		SkinTypes:     []models.SkinType{models.SkinOily, models.SkinCombination},
	}
}

func newCartFixture(products ...models.Product) (*CartService, *fakeCatalog, *fakeCartStore) {
	catalog := newFakeCatalog(products...)
	carts := newFakeCartStore()
	return NewCartService(catalog, carts, testLogger()), catalog, carts
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and accumulates", func(t *testing.T) {
		svc, _, _ := newCartFixture(serumProduct("p1", 29.90, 10))

		qty, adj, err := svc.AddItem(ctx, "user1", "p1", 2)
		require.NoError(t, err)
		require.Nil(t, adj)
		require.Equal(t, 2, qty)

		qty, adj, err = svc.AddItem(ctx, "user1", "p1", 3)
		require.NoError(t, err)
		require.Nil(t, adj)
		require.Equal(t, 5, qty)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc, _, _ := newCartFixture(serumProduct("p1", 29.90, 10))

		_, _, err := svc.AddItem(ctx, "user1", "p1", 0)
		require.ErrorIs(t, err, ErrInvalidQuantity)

		_, _, err = svc.AddItem(ctx, "user1", "p1", -1)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _, _ := newCartFixture()

		_, _, err := svc.AddItem(ctx, "user1", "ghost", 1)
		require.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("zero stock is out of stock", func(t *testing.T) {
		svc, _, _ := newCartFixture(serumProduct("p1", 29.90, 0))

		_, _, err := svc.AddItem(ctx, "user1", "p1", 1)
		require.ErrorIs(t, err, ErrOutOfStock)
	})

	t.Run("clamps to stock and reports it", func(t *testing.T) {
		svc, _, carts := newCartFixture(serumProduct("p1", 29.90, 4))

		qty, adj, err := svc.AddItem(ctx, "user1", "p1", 3)
		require.NoError(t, err)
		require.Nil(t, adj)
		require.Equal(t, 3, qty)

		// 3 + 3 exceeds the 4 in stock: clamp, and say so.
		qty, adj, err = svc.AddItem(ctx, "user1", "p1", 3)
		require.NoError(t, err)
		require.Equal(t, 4, qty)
		require.NotNil(t, adj)
		require.Equal(t, AdjustmentClamped, adj.Kind)
		require.Equal(t, 6, adj.Requested)
		require.Equal(t, 4, adj.Applied)

		stored, err := carts.GetQuantity(ctx, "user1", "p1")
		require.NoError(t, err)
		require.Equal(t, 4, stored)
	})

	t.Run("never persists more than stock at call time", func(t *testing.T) {
		svc, _, carts := newCartFixture(serumProduct("p1", 29.90, 2))

		qty, adj, err := svc.AddItem(ctx, "user1", "p1", 50)
		require.NoError(t, err)
		require.Equal(t, 2, qty)
		require.NotNil(t, adj)

		stored, err := carts.GetQuantity(ctx, "user1", "p1")
		require.NoError(t, err)
		require.Equal(t, 2, stored)
	})
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("absolute set with clamp", func(t *testing.T) {
		svc, _, _ := newCartFixture(serumProduct("p1", 29.90, 5))

		qty, adj, err := svc.SetQuantity(ctx, "user1", "p1", 3)
		require.NoError(t, err)
		require.Nil(t, adj)
		require.Equal(t, 3, qty)

		qty, adj, err = svc.SetQuantity(ctx, "user1", "p1", 9)
		require.NoError(t, err)
		require.Equal(t, 5, qty)
		require.NotNil(t, adj)
		require.Equal(t, 9, adj.Requested)
		require.Equal(t, 5, adj.Applied)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		svc, _, carts := newCartFixture(serumProduct("p1", 29.90, 5))

		_, _, err := svc.SetQuantity(ctx, "user1", "p1", 2)
		require.NoError(t, err)

		_, _, err = svc.SetQuantity(ctx, "user1", "p1", 0)
		require.NoError(t, err)
		require.Equal(t, 0, carts.size("user1"))
	})

	t.Run("negative rejected", func(t *testing.T) {
		svc, _, _ := newCartFixture(serumProduct("p1", 29.90, 5))

		_, _, err := svc.SetQuantity(ctx, "user1", "p1", -2)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCartFixture(serumProduct("p1", 29.90, 5))

	// Removing something never added is a no-op success.
	require.NoError(t, svc.RemoveItem(ctx, "user1", "p1"))

	_, _, err := svc.AddItem(ctx, "user1", "p1", 1)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveItem(ctx, "user1", "p1"))
	require.NoError(t, svc.RemoveItem(ctx, "user1", "p1"))
}

func TestMergeGuestCart(t *testing.T) {
	ctx := context.Background()

	t.Run("sums with existing lines", func(t *testing.T) {
		svc, _, carts := newCartFixture(
			serumProduct("p1", 29.90, 10),
			serumProduct("p2", 15.00, 10),
		)

		_, _, err := svc.AddItem(ctx, "user1", "p1", 2)
		require.NoError(t, err)

		adjustments, err := svc.MergeGuestCart(ctx, "user1", []models.GuestItem{
			{ProductID: "p2", Quantity: 1},
			{ProductID: "p1", Quantity: 3},
		})
		require.NoError(t, err)
		require.Empty(t, adjustments)

		qty, _ := carts.GetQuantity(ctx, "user1", "p1")
		require.Equal(t, 5, qty)
		qty, _ = carts.GetQuantity(ctx, "user1", "p2")
		require.Equal(t, 1, qty)
	})

	t.Run("unsellable lines dropped and reported", func(t *testing.T) {
		svc, _, carts := newCartFixture(
			serumProduct("p1", 29.90, 2),
			serumProduct("p2", 15.00, 0),
		)

		adjustments, err := svc.MergeGuestCart(ctx, "user1", []models.GuestItem{
			{ProductID: "p3", Quantity: 1}, // deleted product
			{ProductID: "p2", Quantity: 2}, // sold out
			{ProductID: "p1", Quantity: 5}, // clamped to 2
		})
		require.NoError(t, err)
		require.Len(t, adjustments, 3)

		// Merge order is ascending product id, so adjustments follow it.
		require.Equal(t, "p1", adjustments[0].ProductID)
		require.Equal(t, AdjustmentClamped, adjustments[0].Kind)
		require.Equal(t, "p2", adjustments[1].ProductID)
		require.Equal(t, AdjustmentUnavailable, adjustments[1].Kind)
		require.Equal(t, "p3", adjustments[2].ProductID)
		require.Equal(t, AdjustmentUnavailable, adjustments[2].Kind)

		require.Equal(t, 1, carts.size("user1"))
		qty, _ := carts.GetQuantity(ctx, "user1", "p1")
		require.Equal(t, 2, qty)
	})
}

func TestListCartUsesLivePrices(t *testing.T) {
	ctx := context.Background()
	svc, catalog, _ := newCartFixture(
		serumProduct("p1", 10.00, 10),
		serumProduct("p2", 5.00, 10),
	)

	_, _, err := svc.AddItem(ctx, "user1", "p1", 2)
	require.NoError(t, err)
	_, _, err = svc.AddItem(ctx, "user1", "p2", 1)
	require.NoError(t, err)

	lines, subtotal, err := svc.ListCart(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.InDelta(t, 25.00, subtotal, 1e-9)

	// A price change shows up on the very next read: the cart stores no
	// price of its own.
	catalog.setPrice("p1", 12.50)

	lines, subtotal, err = svc.ListCart(ctx, "user1")
	require.NoError(t, err)
	require.InDelta(t, 30.00, subtotal, 1e-9)
	require.InDelta(t, 25.00, lines[0].LineTotal, 1e-9)
}

func TestListCartSkipsDeletedProducts(t *testing.T) {
	ctx := context.Background()
	svc, catalog, _ := newCartFixture(
		serumProduct("p1", 10.00, 10),
		serumProduct("p2", 5.00, 10),
	)

	_, _, err := svc.AddItem(ctx, "user1", "p1", 1)
	require.NoError(t, err)
	_, _, err = svc.AddItem(ctx, "user1", "p2", 1)
	require.NoError(t, err)

	require.NoError(t, catalog.DeleteProduct(ctx, "p2"))

	lines, subtotal, err := svc.ListCart(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "p1", lines[0].ProductID)
	require.InDelta(t, 10.00, subtotal, 1e-9)
}
