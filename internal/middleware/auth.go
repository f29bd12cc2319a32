package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"collab-board-api/internal/response"
	"collab-board-api/internal/token"
)

const userIDKey = "user_id"

// Auth returns a middleware that validates bearer tokens and stores the
// authenticated user id in the request context.
func Auth(verifier token.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		userID, err := verifier.Verify(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID extracts the authenticated user id stored by Auth
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, response.ErrorResponse{
		Error: response.ErrorBody{
			Code:    response.ErrCodeUnauthorized,
			Message: message,
		},
	})
	c.Abort()
}
