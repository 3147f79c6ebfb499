package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ChatInput defines the structure of the JSON request body.
type ChatInput struct {
	Message string `json:"message" binding:"required"`
}

// ChatAdvisor is the handler for POST /v1/advisor/chat: the skincare
// product advisor backed by the read-only catalog connection.
func (h *Handlers) ChatAdvisor(c *gin.Context) {
	if h.Advisor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Advisor is not configured"})
		return
	}

	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.Advisor.GenerateResponse(c.Request.Context(), input.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Advisor unavailable: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": response})
}
