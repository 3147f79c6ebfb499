package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/amiraesya/glowmart-golang/internal/models"
	"github.com/amiraesya/glowmart-golang/internal/repository"
)

// OrderStore is the MySQL-backed order log. The two multi-row mutations
// (CreateOrder, CancelOrder) run inside serializable transactions so a
// partial write can never be observed.
type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// CreateOrder writes the header, all items, the conditional stock
// decrements, and the cart clear as one transaction. Any decrement that
// finds the stock short aborts the whole thing with ErrStockConflict.
func (s *OrderStore) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback() // Safety net

	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}

	// 1. Order header.
	orderQuery := `
		INSERT INTO orders (id, user_id, status, total_amount, shipping_address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, orderQuery,
		order.ID, order.UserID, order.Status, order.TotalAmount, addressJSON,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return err
	}

	// 2. Items, each with a conditional stock decrement. The WHERE guard
	//    re-validates stock at write time, which handles the race where
	//    another checkout consumed stock after validation.
	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	stockQuery := `
		UPDATE products
		SET stock_quantity = stock_quantity - ?, updated_at = ?
		WHERE id = ? AND stock_quantity >= ?`

	now := time.Now()
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, itemQuery,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price, item.CreatedAt,
		); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, stockQuery, item.Quantity, now, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return repository.ErrStockConflict // deferred rollback undoes everything
		}
	}

	// 3. Clear the cart that produced this order.
	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = ?", order.UserID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *OrderStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.scanOrderRow(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, status, total_amount, shipping_address, created_at, updated_at
		FROM orders WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	itemsQuery := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.created_at, p.name
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = ?
		ORDER BY oi.product_id`

	rows, err := s.db.QueryContext(ctx, itemsQuery, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price,
			&item.CreatedAt, &item.ProductName,
		); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderStore) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.listOrders(ctx, `
		SELECT id, user_id, status, total_amount, shipping_address, created_at, updated_at
		FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (s *OrderStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.listOrders(ctx, `
		SELECT id, user_id, status, total_amount, shipping_address, created_at, updated_at
		FROM orders ORDER BY created_at DESC`)
}

// UpdateStatus flips the status only when it still equals from.
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	query := "UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status = ?"
	result, err := s.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}

	// Distinguish "order gone" from "status moved under us".
	var exists int
	err = s.db.QueryRowContext(ctx, "SELECT 1 FROM orders WHERE id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	return repository.ErrStatusConflict
}

// CancelOrder sets the status to cancelled and restores stock for every
// item in the same transaction.
func (s *OrderStore) CancelOrder(ctx context.Context, id string, from models.OrderStatus) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Lock the order row and verify the expected current status.
	var current models.OrderStatus
	err = tx.QueryRowContext(ctx, "SELECT status FROM orders WHERE id = ? FOR UPDATE", id).Scan(&current)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	if current != from {
		return repository.ErrStatusConflict
	}

	// 2. Flip the status.
	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = ?, updated_at = ? WHERE id = ?",
		models.StatusCancelled, time.Now(), id,
	); err != nil {
		return err
	}

	// 3. Restore stock for each item.
	rows, err := tx.QueryContext(ctx, "SELECT product_id, quantity FROM order_items WHERE order_id = ?", id)
	if err != nil {
		return err
	}
	defer rows.Close()

	type restock struct {
		productID string
		qty       int
	}
	var restocks []restock
	for rows.Next() {
		var r restock
		if err := rows.Scan(&r.productID, &r.qty); err != nil {
			return err
		}
		restocks = append(restocks, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	restockQuery := "UPDATE products SET stock_quantity = stock_quantity + ?, updated_at = ? WHERE id = ?"
	now := time.Now()
	for _, r := range restocks {
		if _, err := tx.ExecContext(ctx, restockQuery, r.qty, now, r.productID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *OrderStore) scanOrderRow(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var addressJSON []byte
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &addressJSON, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(addressJSON) > 0 {
		if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func (s *OrderStore) listOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := s.scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
