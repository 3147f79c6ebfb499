package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amiraesya/glowmart-golang/internal/ai"
	"github.com/amiraesya/glowmart-golang/internal/guestcart"
	"github.com/amiraesya/glowmart-golang/internal/repository"
	"github.com/amiraesya/glowmart-golang/internal/service"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Cart     *service.CartService
	Checkout *service.CheckoutService
	Orders   *service.OrderService

	Catalog repository.CatalogStore
	Reviews repository.ReviewStore
	Users   repository.UserStore

	GuestCarts *guestcart.Store
	Advisor    *ai.AdvisorService

	Logger *slog.Logger
}

// respondServiceError maps the core's error taxonomy onto HTTP statuses.
// Anything unrecognised is a 500 with a generic body.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrStockConflict),
		errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
