package models

import "time"

// OrderStatus is the enum for the 'status' column on 'orders'.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// orderTransitions is the full set of allowed status edges. Everything
// not listed here is rejected, including any move out of a terminal state.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether the edge s -> next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// ShippingAddress is carried on the order as a structured blob. The order
// pipeline never interprets it; it is stored as JSON and echoed back.
type ShippingAddress struct {
	FullName string `json:"fullName" binding:"required"`
	Line1    string `json:"line1" binding:"required"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city" binding:"required"`
	State    string `json:"state,omitempty"`
	Postcode string `json:"postcode" binding:"required"`
	Country  string `json:"country" binding:"required"`
}

// Order is the model for the 'orders' table. Immutable after creation
// except for Status and UpdatedAt.
type Order struct {
	ID              string          `json:"id" db:"id"`
	UserID          string          `json:"userId" db:"user_id"`
	Status          OrderStatus     `json:"status" db:"status"`
	TotalAmount     float64         `json:"totalAmount" db:"total_amount"`
	ShippingAddress ShippingAddress `json:"shippingAddress" db:"shipping_address"` // stored as JSON
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`

	// Populated on detail reads, not a DB column.
	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem is the model for the 'order_items' table. Price is the
// product's unit price at the moment the order was created and is never
// recomputed from the live catalog.
type OrderItem struct {
	ID        string    `json:"id" db:"id"`
	OrderID   string    `json:"orderId" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Joined for display, not a column on order_items.
	ProductName string `json:"productName,omitempty" db:"-"`
}
