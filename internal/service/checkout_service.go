package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/amiraesya/glowmart-golang/internal/models"
	"github.com/amiraesya/glowmart-golang/internal/repository"
)

// EventPublisher receives notifications about the order lifecycle. It is
// strictly fire-and-forget: implementations log failures and the order
// pipeline never fails because of one.
type EventPublisher interface {
	OrderCreated(ctx context.Context, order *models.Order)
	OrderStatusChanged(ctx context.Context, orderID string, from, to models.OrderStatus)
}

// ValidatedLine is one surviving checkout line after stock validation.
type ValidatedLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CheckoutService validates carts against live stock and assembles them
// into immutable, price-snapshotted orders.
type CheckoutService struct {
	catalog repository.CatalogStore
	carts   repository.CartStore
	orders  repository.OrderStore
	events  EventPublisher
	logger  *slog.Logger
}

func NewCheckoutService(
	catalog repository.CatalogStore,
	carts repository.CartStore,
	orders repository.OrderStore,
	events EventPublisher,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{catalog: catalog, carts: carts, orders: orders, events: events, logger: logger}
}

// Validate re-reads authoritative stock for every cart line. Cached
// quantities from the browsing views are deliberately not trusted here:
// stock can change between browsing and checkout. Sold-out lines are
// dropped (reported unavailable), short lines are clamped (reported
// partially available). Whether adjustments require the user to
// re-confirm is the caller's policy, not this method's.
func (s *CheckoutService) Validate(ctx context.Context, userID string) ([]ValidatedLine, []Adjustment, error) {
	items, err := s.carts.ListItems(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing cart: %w", err)
	}
	if len(items) == 0 {
		return nil, nil, ErrEmptyCart
	}

	var lines []ValidatedLine
	var adjustments []Adjustment
	for _, item := range items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			adjustments = append(adjustments, Adjustment{
				ProductID: item.ProductID,
				Kind:      AdjustmentUnavailable,
				Requested: item.Quantity,
			})
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading product %s: %w", item.ProductID, err)
		}

		switch {
		case product.StockQuantity == 0:
			adjustments = append(adjustments, Adjustment{
				ProductID:   product.ID,
				ProductName: product.Name,
				Kind:        AdjustmentUnavailable,
				Requested:   item.Quantity,
			})
		case product.StockQuantity < item.Quantity:
			adjustments = append(adjustments, Adjustment{
				ProductID:   product.ID,
				ProductName: product.Name,
				Kind:        AdjustmentClamped,
				Requested:   item.Quantity,
				Applied:     product.StockQuantity,
			})
			lines = append(lines, ValidatedLine{ProductID: product.ID, Quantity: product.StockQuantity})
		default:
			lines = append(lines, ValidatedLine{ProductID: product.ID, Quantity: item.Quantity})
		}
	}

	if len(lines) == 0 {
		return nil, adjustments, ErrEmptyCart
	}
	return lines, adjustments, nil
}

// PlaceOrder converts validated lines into an order. Unit prices are read
// from the live catalog at this instant and frozen onto the order items;
// later catalog price changes never touch historical orders. The header,
// items, stock decrements and cart clear are written as one atomic unit —
// if any product's stock has dropped below the requested quantity since
// validation, nothing is committed and ErrStockConflict is returned. The
// caller may re-run Validate and retry; this core never retries itself.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, lines []ValidatedLine, address models.ShippingAddress) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now()
	order := &models.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Status:          models.StatusPending,
		ShippingAddress: address,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("reading product %s: %w", line.ProductID, err)
		}

		items = append(items, models.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price, // frozen unit price
			CreatedAt: now,
		})
		order.TotalAmount += product.Price * float64(line.Quantity)
	}

	err := s.orders.CreateOrder(ctx, order, items)
	if errors.Is(err, repository.ErrStockConflict) {
		s.logger.Warn("checkout lost stock race", "user_id", userID, "order_id", order.ID)
		return nil, ErrStockConflict
	}
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}
	order.Items = items

	s.logger.Info("order created",
		"order_id", order.ID, "user_id", userID,
		"lines", len(items), "total", order.TotalAmount)
	if s.events != nil {
		s.events.OrderCreated(ctx, order)
	}
	return order, nil
}
