package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amiraesya/glowmart-golang/internal/middleware"
	"github.com/amiraesya/glowmart-golang/internal/models"
)

//
// --- Order Handlers (Authenticated) ---
//

// GetMyOrders is the handler for GET /v1/orders.
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID := middleware.UserID(c)

	orders, err := h.Orders.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderDetails is the handler for GET /v1/orders/:id. Ownership is
// enforced; someone else's order id reads as not found.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userID := middleware.UserID(c)
	orderID := c.Param("id")

	order, err := h.Orders.GetUserOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

//
// --- Order Handlers (Admin-Only) ---
//

// GetAllOrders is the handler for GET /v1/admin/orders.
func (h *Handlers) GetAllOrders(c *gin.Context) {
	orders, err := h.Orders.ListOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// UpdateOrderStatusInput defines the JSON for a status transition.
type UpdateOrderStatusInput struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus is the handler for PATCH /v1/admin/orders/:id/status.
// Only edges of the status state machine are accepted; cancelling a
// pending or processing order restores the stock of its items.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.Transition(c.Request.Context(), orderID, input.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"order":   order,
	})
}
