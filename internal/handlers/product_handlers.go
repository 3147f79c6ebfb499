package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/amiraesya/glowmart-golang/internal/models"
	"github.com/amiraesya/glowmart-golang/internal/repository"
)

//
// --- Product Handlers (Public) ---
//

// ListProducts is the handler for GET /v1/products.
// Supported query params: category, skin_type, featured, q.
func (h *Handlers) ListProducts(c *gin.Context) {
	var filter models.ProductFilter

	if category := c.Query("category"); category != "" {
		filter.Category = models.ProductCategory(category)
		if !filter.Category.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category: " + category})
			return
		}
	}
	if skinType := c.Query("skin_type"); skinType != "" {
		filter.SkinType = models.SkinType(skinType)
		if !filter.SkinType.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown skin type: " + skinType})
			return
		}
	}
	filter.FeaturedOnly = c.Query("featured") == "true"
	filter.Query = c.Query("q")

	products, err := h.Catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct is the handler for GET /v1/products/:id.
func (h *Handlers) GetProduct(c *gin.Context) {
	product, err := h.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetProductBySlug is the handler for GET /v1/products/slug/:slug, the
// detail-page lookup.
func (h *Handlers) GetProductBySlug(c *gin.Context) {
	product, err := h.Catalog.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

//
// --- Product Handlers (Admin-Only) ---
//

// ProductInput defines the JSON for creating or updating a product.
type ProductInput struct {
	Name          string                 `json:"name" binding:"required"`
	Description   string                 `json:"description"`
	Price         float64                `json:"price" binding:"required,gte=0"`
	StockQuantity int                    `json:"stockQuantity" binding:"gte=0"`
	Category      models.ProductCategory `json:"category" binding:"required"`
	SkinTypes     []models.SkinType      `json:"skinTypes"`
	Featured      bool                   `json:"featured"`
	ImageURL      *string                `json:"imageUrl"`
}

func (input *ProductInput) validateEnums() error {
	if !input.Category.IsValid() {
		return errors.New("unknown category: " + string(input.Category))
	}
	for _, st := range input.SkinTypes {
		if !st.IsValid() {
			return errors.New("unknown skin type: " + string(st))
		}
	}
	return nil
}

// CreateProduct is the handler for POST /v1/admin/products.
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := input.validateEnums(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	product := &models.Product{
		ID:            uuid.NewString(),
		Name:          input.Name,
		Slug:          slug.Make(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		Category:      input.Category,
		SkinTypes:     input.SkinTypes,
		Featured:      input.Featured,
		ImageURL:      input.ImageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.Catalog.CreateProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct is the handler for PUT /v1/admin/products/:id.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := input.validateEnums(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.Catalog.GetProduct(c.Request.Context(), productID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	existing.Name = input.Name
	existing.Slug = slug.Make(input.Name)
	existing.Description = input.Description
	existing.Price = input.Price
	existing.StockQuantity = input.StockQuantity
	existing.Category = input.Category
	existing.SkinTypes = input.SkinTypes
	existing.Featured = input.Featured
	existing.ImageURL = input.ImageURL

	if err := h.Catalog.UpdateProduct(c.Request.Context(), existing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": existing})
}

// DeleteProduct is the handler for DELETE /v1/admin/products/:id.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	err := h.Catalog.DeleteProduct(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
