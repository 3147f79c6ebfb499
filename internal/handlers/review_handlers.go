package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/amiraesya/glowmart-golang/internal/middleware"
	"github.com/amiraesya/glowmart-golang/internal/models"
	"github.com/amiraesya/glowmart-golang/internal/repository"
)

//
// --- Review Handlers ---
//

// GetProductReviews is the handler for GET /v1/products/:id/reviews.
func (h *Handlers) GetProductReviews(c *gin.Context) {
	reviews, err := h.Reviews.ListProductReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// CreateReviewInput defines the JSON for posting a review.
type CreateReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// CreateReview is the handler for POST /v1/products/:id/reviews.
func (h *Handlers) CreateReview(c *gin.Context) {
	userID := middleware.UserID(c)
	productID := c.Param("id")

	var input CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Reviews hang off real products only.
	if _, err := h.Catalog.GetProduct(c.Request.Context(), productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	review := &models.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now(),
	}

	if err := h.Reviews.CreateReview(c.Request.Context(), review); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}
