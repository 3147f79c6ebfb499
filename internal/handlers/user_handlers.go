package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/amiraesya/glowmart-golang/internal/auth"
	"github.com/amiraesya/glowmart-golang/internal/models"
	"github.com/amiraesya/glowmart-golang/internal/repository"
)

//
// --- Auth Handlers (Public) ---
//
// The order core never sees credentials; these handlers exchange them for
// an opaque user id carried in a JWT.
//

// RegisterInput defines the JSON for creating an account.
type RegisterInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register is the handler for POST /v1/register.
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.Users.GetUserByEmail(c.Request.Context(), input.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check email"})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Role:         models.RoleCustomer,
		Email:        input.Email,
		PasswordHash: password.Hash,
		FullName:     input.FullName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.Users.CreateUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created",
		"user":    user,
	})
}

// LoginInput defines the JSON for signing in.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login. When the request carries an
// X-Guest-Session header, the guest cart behind it is merged into the
// user's cart (once, at sign-in) and then discarded; any lines that had
// to be clamped or dropped come back as adjustments.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetUserByEmail(c.Request.Context(), input.Email)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up account"})
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	matches, err := password.Matches(input.Password)
	if err != nil || !matches {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	resp := gin.H{
		"token": token,
		"user":  user,
	}

	if sessionID := c.GetHeader(guestSessionHeader); sessionID != "" {
		resp["cartAdjustments"] = h.mergeGuestCart(c, user.ID, sessionID)
	}

	c.JSON(http.StatusOK, resp)
}

// mergeGuestCart folds the guest session's cart into the user's cart and
// drops the guest copy. Merge trouble never fails a login; it is logged
// and reported as zero adjustments.
func (h *Handlers) mergeGuestCart(c *gin.Context, userID, sessionID string) []any {
	ctx := c.Request.Context()

	items, err := h.GuestCarts.Items(ctx, sessionID)
	if err != nil {
		h.Logger.Error("guest cart read failed during login", "session_id", sessionID, "err", err)
		return nil
	}
	if len(items) == 0 {
		return nil
	}

	adjustments, err := h.Cart.MergeGuestCart(ctx, userID, items)
	if err != nil {
		h.Logger.Error("guest cart merge failed", "user_id", userID, "err", err)
		return nil
	}

	if err := h.GuestCarts.Clear(ctx, sessionID); err != nil {
		h.Logger.Error("guest cart clear failed", "session_id", sessionID, "err", err)
	}

	out := make([]any, len(adjustments))
	for i := range adjustments {
		out[i] = adjustments[i]
	}
	return out
}
