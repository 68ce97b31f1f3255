package handlers

import (
	"errors"
	"net/http"

	"finquest-service/internal/service"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the authenticated user identity set by the gateway.
const UserIDHeader = "X-User-ID"

// RequireUserID rejects requests without a user identity and stores it on
// the gin context for handlers.
func RequireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString("userID")
}

// respondError maps service sentinels to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrTopicNotFound),
		errors.Is(err, service.ErrNoQuestions):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionCompleted),
		errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
