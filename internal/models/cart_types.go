package models

import "time"

// CartItem defines the struct for the 'cart_items' table.
// Identity is the (user_id, product_id) pair; the cart never stores a
// price, only a quantity, so displayed totals always follow the live
// catalog until checkout.
type CartItem struct {
	UserID    string    `json:"userId" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartLine is the read view of a cart item joined with live product data.
type CartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock"`
	LineTotal float64 `json:"lineTotal"`
}

// GuestItem is a single line of a pre-auth guest cart. Guest carts live in
// Redis keyed by an opaque session id and are merged into the user's cart
// at sign-in.
type GuestItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
