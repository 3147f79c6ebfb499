package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amiraesya/glowmart-golang/internal/middleware"
	"github.com/amiraesya/glowmart-golang/internal/models"
	"github.com/amiraesya/glowmart-golang/internal/service"
)

//
// --- Checkout Handlers (Authenticated) ---
//

// ValidateCheckout is the handler for POST /v1/checkout/validate.
// It re-reads authoritative stock for every cart line and reports what
// survives, so the UI can show the user any clamped or dropped lines
// before they commit.
func (h *Handlers) ValidateCheckout(c *gin.Context) {
	userID := middleware.UserID(c)

	lines, adjustments, err := h.Checkout.Validate(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":       err.Error(),
				"adjustments": adjustments,
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lines":       lines,
		"adjustments": adjustments,
	})
}

// CheckoutInput defines the JSON for POST /v1/checkout.
type CheckoutInput struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`

	// AcceptAdjustments opts into auto-clamp: when false (the default),
	// a checkout whose cart needed adjusting is rejected so the user can
	// re-confirm what actually ships.
	AcceptAdjustments bool `json:"acceptAdjustments"`
}

// PlaceOrder is the handler for POST /v1/checkout. Validation and order
// assembly run back to back; the conditional stock decrement inside the
// order write still re-checks everything, so a race past validation
// surfaces as a 409 with nothing committed.
func (h *Handlers) PlaceOrder(c *gin.Context) {
	userID := middleware.UserID(c)

	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	lines, adjustments, err := h.Checkout.Validate(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(adjustments) > 0 && !input.AcceptAdjustments {
		c.JSON(http.StatusConflict, gin.H{
			"error":       "Cart was adjusted to current stock, please confirm",
			"lines":       lines,
			"adjustments": adjustments,
		})
		return
	}

	order, err := h.Checkout.PlaceOrder(c.Request.Context(), userID, lines, input.ShippingAddress)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := gin.H{
		"message": "Order created",
		"order":   order,
	}
	if len(adjustments) > 0 {
		resp["adjustments"] = adjustments
	}
	c.JSON(http.StatusCreated, resp)
}
