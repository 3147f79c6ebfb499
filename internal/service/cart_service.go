package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/amiraesya/glowmart-golang/internal/models"
	"github.com/amiraesya/glowmart-golang/internal/repository"
)

// CartService owns every mutation of a user's cart. All writes re-check
// the live catalog, so a persisted quantity can never exceed the stock
// the product had at the time of the call.
type CartService struct {
	catalog repository.CatalogStore
	carts   repository.CartStore
	logger  *slog.Logger
}

func NewCartService(catalog repository.CatalogStore, carts repository.CartStore, logger *slog.Logger) *CartService {
	return &CartService{catalog: catalog, carts: carts, logger: logger}
}

// AddItem adds qty to the user's existing line for the product (creating
// it when absent). The resulting quantity is clamped to current stock; a
// clamp is reported back as an Adjustment, never applied silently.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, qty int) (int, *Adjustment, error) {
	if qty <= 0 {
		return 0, nil, ErrInvalidQuantity
	}

	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return 0, nil, err
	}
	if product.StockQuantity == 0 {
		return 0, nil, ErrOutOfStock
	}

	existing, err := s.carts.GetQuantity(ctx, userID, productID)
	if err != nil {
		return 0, nil, fmt.Errorf("reading cart line: %w", err)
	}

	requested := existing + qty
	final := requested
	if final > product.StockQuantity {
		final = product.StockQuantity
	}

	if err := s.carts.UpsertItem(ctx, userID, productID, final); err != nil {
		return 0, nil, fmt.Errorf("writing cart line: %w", err)
	}

	var adj *Adjustment
	if final < requested {
		adj = &Adjustment{
			ProductID:   productID,
			ProductName: product.Name,
			Kind:        AdjustmentClamped,
			Requested:   requested,
			Applied:     final,
		}
		s.logger.Info("cart line clamped to stock",
			"user_id", userID, "product_id", productID,
			"requested", requested, "applied", final)
	}
	return final, adj, nil
}

// SetQuantity sets the absolute quantity for the line, with the same
// clamping rules as AddItem. Quantity 0 removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, qty int) (int, *Adjustment, error) {
	if qty < 0 {
		return 0, nil, ErrInvalidQuantity
	}
	if qty == 0 {
		return 0, nil, s.RemoveItem(ctx, userID, productID)
	}

	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return 0, nil, err
	}
	if product.StockQuantity == 0 {
		return 0, nil, ErrOutOfStock
	}

	final := qty
	if final > product.StockQuantity {
		final = product.StockQuantity
	}

	if err := s.carts.UpsertItem(ctx, userID, productID, final); err != nil {
		return 0, nil, fmt.Errorf("writing cart line: %w", err)
	}

	var adj *Adjustment
	if final < qty {
		adj = &Adjustment{
			ProductID:   productID,
			ProductName: product.Name,
			Kind:        AdjustmentClamped,
			Requested:   qty,
			Applied:     final,
		}
	}
	return final, adj, nil
}

// RemoveItem deletes the line. Removing a line that does not exist is a
// no-op success.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) error {
	if err := s.carts.RemoveItem(ctx, userID, productID); err != nil {
		return fmt.Errorf("removing cart line: %w", err)
	}
	return nil
}

// MergeGuestCart folds a guest cart into the user's cart at sign-in,
// applying AddItem semantics per line in ascending product-id order.
// Lines for vanished or sold-out products are dropped and reported as
// unavailable rather than failing the merge. Discarding the guest-scoped
// cart afterwards is the caller's job.
func (s *CartService) MergeGuestCart(ctx context.Context, userID string, guestItems []models.GuestItem) ([]Adjustment, error) {
	sorted := make([]models.GuestItem, len(guestItems))
	copy(sorted, guestItems)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	var adjustments []Adjustment
	for _, line := range sorted {
		if line.Quantity <= 0 {
			continue
		}

		_, adj, err := s.AddItem(ctx, userID, line.ProductID, line.Quantity)
		if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrOutOfStock) {
			adjustments = append(adjustments, Adjustment{
				ProductID: line.ProductID,
				Kind:      AdjustmentUnavailable,
				Requested: line.Quantity,
				Applied:   0,
			})
			continue
		}
		if err != nil {
			return adjustments, err
		}
		if adj != nil {
			adjustments = append(adjustments, *adj)
		}
	}

	s.logger.Info("guest cart merged", "user_id", userID,
		"lines", len(sorted), "adjustments", len(adjustments))
	return adjustments, nil
}

// ListCart returns the cart joined against the live catalog, plus the
// subtotal. Prices are never cached on cart rows, so the totals reflect
// the catalog at call time. Lines whose product has been deleted from
// the catalog are omitted from the view.
func (s *CartService) ListCart(ctx context.Context, userID string) ([]models.CartLine, float64, error) {
	items, err := s.carts.ListItems(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("listing cart: %w", err)
	}

	lines := make([]models.CartLine, 0, len(items))
	var subtotal float64
	for _, item := range items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("reading product %s: %w", item.ProductID, err)
		}

		line := models.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
			Stock:     product.StockQuantity,
			LineTotal: product.Price * float64(item.Quantity),
		}
		subtotal += line.LineTotal
		lines = append(lines, line)
	}
	return lines, subtotal, nil
}

func (s *CartService) lookupProduct(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading product %s: %w", productID, err)
	}
	return product, nil
}
