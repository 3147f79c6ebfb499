package service

import "errors"

// The error taxonomy of the order core. These are returned as values and
// checked with errors.Is at the HTTP boundary; nothing here escapes as a
// panic or an untyped failure. Clamped and dropped cart lines are not
// errors at all — they travel as Adjustment values.
var (
	// ErrInvalidQuantity rejects non-positive quantities on cart writes.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrProductNotFound means the product id did not resolve in the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrOutOfStock means the product had zero stock at the time of the call.
	ErrOutOfStock = errors.New("product is out of stock")

	// ErrEmptyCart means no cart lines survived for checkout.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrStockConflict means a checkout failed at commit time because
	// another checkout consumed the stock first. The whole order attempt
	// was rolled back; the caller may re-validate and retry.
	ErrStockConflict = errors.New("stock changed during checkout, please re-validate")

	// ErrInvalidTransition rejects a status change not on an allowed edge.
	ErrInvalidTransition = errors.New("order status transition not allowed")

	// ErrOrderNotFound means the order id did not resolve (or is not
	// visible to the requesting user).
	ErrOrderNotFound = errors.New("order not found")
)

// AdjustmentKind classifies how a cart line was altered on the caller's
// behalf.
type AdjustmentKind string

const (
	// AdjustmentClamped: stock was positive but below the requested
	// quantity, so the line was reduced to what is available.
	AdjustmentClamped AdjustmentKind = "partially_available"

	// AdjustmentUnavailable: the product had no stock (or no longer
	// exists), so the line was dropped.
	AdjustmentUnavailable AdjustmentKind = "unavailable"
)

// Adjustment is a structured warning about a line the core changed or
// dropped. Callers must surface these to the user, never swallow them.
type Adjustment struct {
	ProductID   string         `json:"productId"`
	ProductName string         `json:"productName,omitempty"`
	Kind        AdjustmentKind `json:"kind"`
	Requested   int            `json:"requested"`
	Applied     int            `json:"applied"`
}
