package middleware

import (
	"log/slog"
	"net/http"

	"ougadgets/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	AuthAdminKey = "authAdmin"
	AuthRoleKey  = "authRole"
)

// IdentitySource resolves the admin behind a request.
type IdentitySource interface {
	Current(r *http.Request) (*session.Identity, error)
}

// SessionAuthMiddleware requires a live admin session.
func SessionAuthMiddleware(sessions IdentitySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := sessions.Current(c.Request)
		if err != nil {
			slog.Error("Failed to load session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		}
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		// Set admin information in context
		c.Set(AuthAdminKey, identity.AdminID)
		c.Set(AuthRoleKey, identity.Role)

		c.Next()
	}
}

// AdminID returns the id stored by SessionAuthMiddleware.
func AdminID(c *gin.Context) string {
	return c.GetString(AuthAdminKey)
}
