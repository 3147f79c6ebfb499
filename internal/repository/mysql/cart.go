package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/amiraesya/glowmart-golang/internal/models"
)

// CartStore is the MySQL-backed per-user cart. Rows are keyed by the
// (user_id, product_id) primary key, so no cross-user locking exists.
type CartStore struct {
	db *sql.DB
}

func NewCartStore(db *sql.DB) *CartStore {
	return &CartStore{db: db}
}

func (s *CartStore) UpsertItem(ctx context.Context, userID, productID string, qty int) error {
	now := time.Now()
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			quantity = VALUES(quantity),
			updated_at = VALUES(updated_at)`

	_, err := s.db.ExecContext(ctx, query, userID, productID, qty, now, now)
	return err
}

func (s *CartStore) GetQuantity(ctx context.Context, userID, productID string) (int, error) {
	var qty int
	query := "SELECT quantity FROM cart_items WHERE user_id = ? AND product_id = ?"
	err := s.db.QueryRowContext(ctx, query, userID, productID).Scan(&qty)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return qty, err
}

// RemoveItem is idempotent: deleting a missing row is a success.
func (s *CartStore) RemoveItem(ctx context.Context, userID, productID string) error {
	query := "DELETE FROM cart_items WHERE user_id = ? AND product_id = ?"
	_, err := s.db.ExecContext(ctx, query, userID, productID)
	return err
}

func (s *CartStore) ListItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	query := `
		SELECT user_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = ?
		ORDER BY product_id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *CartStore) ClearCart(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = ?", userID)
	return err
}
