package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/amiraesya/glowmart-golang/internal/middleware"
)

//
// --- Cart Handlers (Authenticated) ---
//

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// AddToCart is the handler for POST /v1/cart/items.
func (h *Handlers) AddToCart(c *gin.Context) {
	userID := middleware.UserID(c)

	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	quantity, adj, err := h.Cart.AddItem(c.Request.Context(), userID, input.ProductID, input.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := gin.H{
		"message":  "Item added to cart",
		"quantity": quantity,
	}
	if adj != nil {
		// Clamped to stock: the UI must warn the user.
		resp["adjustment"] = adj
	}
	c.JSON(http.StatusCreated, resp)
}

// GetCart is the handler for GET /v1/cart.
// The response joins live product data, so prices and stock are current
// as of this request, not as of when items were added.
func (h *Handlers) GetCart(c *gin.Context) {
	userID := middleware.UserID(c)

	lines, subtotal, err := h.Cart.ListCart(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	totalItems := 0
	for _, line := range lines {
		totalItems += line.Quantity
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      lines,
		"subtotal":   subtotal,
		"totalItems": totalItems,
	})
}

// UpdateCartItemInput defines the JSON for setting an item's quantity.
// gte=0 allows setting quantity to 0, which removes the item.
type UpdateCartItemInput struct {
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

// UpdateCartItem is the handler for PUT /v1/cart/items/:product_id.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	userID := middleware.UserID(c)
	productID := c.Param("product_id")

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quantity, adj, err := h.Cart.SetQuantity(c.Request.Context(), userID, productID, *input.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := gin.H{
		"message":  "Cart item updated",
		"quantity": quantity,
	}
	if adj != nil {
		resp["adjustment"] = adj
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteCartItem is the handler for DELETE /v1/cart/items/:product_id.
// Removal is idempotent; deleting an absent item still succeeds.
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	userID := middleware.UserID(c)
	productID := c.Param("product_id")

	if err := h.Cart.RemoveItem(c.Request.Context(), userID, productID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
}

//
// --- Guest Cart Handlers (Public) ---
//
// Guests carry an opaque session id. The first add mints one and returns
// it; the client sends it back in the X-Guest-Session header afterwards,
// including on login so the guest cart gets merged.
//

const guestSessionHeader = "X-Guest-Session"

// GuestAddToCart is the handler for POST /v1/guest/cart/items.
func (h *Handlers) GuestAddToCart(c *gin.Context) {
	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	// Guests get the same product checks as users; the final clamp
	// happens at merge and checkout time.
	product, err := h.Catalog.GetProduct(c.Request.Context(), input.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if product.StockQuantity == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Product is out of stock"})
		return
	}

	sessionID := c.GetHeader(guestSessionHeader)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if err := h.GuestCarts.Add(c.Request.Context(), sessionID, input.ProductID, input.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update guest cart"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Item added to guest cart",
		"sessionId": sessionID,
	})
}

// GuestGetCart is the handler for GET /v1/guest/cart.
func (h *Handlers) GuestGetCart(c *gin.Context) {
	sessionID := c.GetHeader(guestSessionHeader)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing " + guestSessionHeader + " header"})
		return
	}

	items, err := h.GuestCarts.Items(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read guest cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
