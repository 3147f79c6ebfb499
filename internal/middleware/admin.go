package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amiraesya/glowmart-golang/internal/models"
	"github.com/amiraesya/glowmart-golang/internal/repository"
)

// AdminMiddleware gates a route group behind the admin role. It must run
// after AuthMiddleware. Order status transitions and catalog writes are
// admin capabilities.
func AdminMiddleware(users repository.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Could not verify permissions"})
			c.Abort()
			return
		}
		if user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
