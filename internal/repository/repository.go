package repository

import (
	"context"
	"errors"

	"github.com/amiraesya/glowmart-golang/internal/models"
)

// Storage-level sentinels. The service layer translates these into its own
// error taxonomy at the boundary.
var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("repository: not found")

	// ErrStockConflict is returned by a conditional stock decrement that
	// found less stock than requested at write time. Whatever transaction
	// it occurred in must be rolled back in full.
	ErrStockConflict = errors.New("repository: insufficient stock at commit time")

	// ErrStatusConflict is returned by a conditional status update whose
	// expected current status no longer matched.
	ErrStatusConflict = errors.New("repository: order status changed concurrently")
)

// CatalogStore is the read/write view of the product catalog. Stock is
// only ever mutated through the two conditional operations so that
// concurrent checkouts cannot oversell.
type CatalogStore interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)

	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error

	// DecrementStock subtracts qty only when stock_quantity >= qty, as a
	// single atomic operation; otherwise it returns ErrStockConflict and
	// changes nothing.
	DecrementStock(ctx context.Context, id string, qty int) error

	// IncrementStock adds qty back. Used as compensation when a pending
	// or processing order is cancelled.
	IncrementStock(ctx context.Context, id string, qty int) error
}

// CartStore persists per-user cart lines keyed by (user_id, product_id).
type CartStore interface {
	// UpsertItem sets the absolute quantity for the pair, creating the
	// row when missing. qty must be >= 1; removal goes through RemoveItem.
	UpsertItem(ctx context.Context, userID, productID string, qty int) error

	// GetQuantity returns the stored quantity, or 0 when the pair has no
	// row. Absence is not an error.
	GetQuantity(ctx context.Context, userID, productID string) (int, error)

	// RemoveItem deletes the pair if present. Removing a missing item is
	// a no-op success.
	RemoveItem(ctx context.Context, userID, productID string) error

	// ListItems returns the user's cart rows ordered by product id.
	ListItems(ctx context.Context, userID string) ([]models.CartItem, error)

	ClearCart(ctx context.Context, userID string) error
}

// OrderStore persists orders and their items. CreateOrder and CancelOrder
// are the two multi-row mutations of the system and must be atomic.
type OrderStore interface {
	// CreateOrder writes the order header, all items, the per-product
	// conditional stock decrements, and the cart clear for order.UserID
	// as one atomic unit. If any decrement finds insufficient stock the
	// whole unit is rolled back and ErrStockConflict is returned.
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error

	// GetOrder returns the order with its items populated.
	GetOrder(ctx context.Context, id string) (*models.Order, error)

	ListUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)

	// UpdateStatus flips the status only when the current status still
	// equals from; otherwise ErrStatusConflict.
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error

	// CancelOrder sets the status to cancelled (conditional on from) and
	// restores stock for every order item, atomically.
	CancelOrder(ctx context.Context, id string, from models.OrderStatus) error
}

// ReviewStore persists product reviews.
type ReviewStore interface {
	CreateReview(ctx context.Context, r *models.Review) error
	ListProductReviews(ctx context.Context, productID string) ([]models.Review, error)
}

// UserStore persists accounts. Credentials never travel past the auth
// handlers; everything else identifies users by the opaque id.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
