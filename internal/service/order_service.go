package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amiraesya/glowmart-golang/internal/models"
	"github.com/amiraesya/glowmart-golang/internal/repository"
)

// OrderService drives the order status state machine. Transitions are an
// administrative capability; the route layer gates them behind the admin
// role before this code ever runs.
type OrderService struct {
	orders repository.OrderStore
	events EventPublisher
	logger *slog.Logger
}

func NewOrderService(orders repository.OrderStore, events EventPublisher, logger *slog.Logger) *OrderService {
	return &OrderService{orders: orders, events: events, logger: logger}
}

// Transition moves the order along one allowed edge of the state machine.
// Cancelling a pending or processing order restores the stock of every
// order item atomically with the status flip. A concurrent status change
// between the read and the conditional write surfaces as
// ErrInvalidTransition, same as a disallowed edge.
func (s *OrderService) Transition(ctx context.Context, orderID string, to models.OrderStatus) (*models.Order, error) {
	if !to.IsValid() {
		return nil, ErrInvalidTransition
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !from.CanTransitionTo(to) {
		return nil, ErrInvalidTransition
	}

	if to == models.StatusCancelled {
		err = s.orders.CancelOrder(ctx, orderID, from)
	} else {
		err = s.orders.UpdateStatus(ctx, orderID, from, to)
	}
	switch {
	case errors.Is(err, repository.ErrStatusConflict):
		return nil, ErrInvalidTransition
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrOrderNotFound
	case err != nil:
		return nil, fmt.Errorf("updating order %s: %w", orderID, err)
	}

	s.logger.Info("order status changed", "order_id", orderID, "from", from, "to", to)
	if s.events != nil {
		s.events.OrderStatusChanged(ctx, orderID, from, to)
	}

	return s.getOrder(ctx, orderID)
}

// GetUserOrder returns an order only to its owner. A foreign order id is
// indistinguishable from a missing one.
func (s *OrderService) GetUserOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrder is the admin read path: no ownership check.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.getOrder(ctx, orderID)
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orders.ListUserOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading order %s: %w", orderID, err)
	}
	return order, nil
}
