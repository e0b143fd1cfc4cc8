package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mangabook/internal/http-api/service"
)

// TokenHeader carries the bearer token on every authenticated call.
const TokenHeader = "x-auth-token"

// AuthMiddleware validates the x-auth-token header and re-fetches the user so
// deactivated accounts are rejected even with a still-valid token. The
// resolved user id is placed in the context for handlers.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied, no token provided"})
			c.Abort()
			return
		}

		user, err := authService.CurrentUser(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, service.ErrUserDeactivated) {
				status = http.StatusForbidden
			}
			c.JSON(status, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("userID", user.ID)
		c.Set("username", user.Username)
		c.Next()
	}
}
