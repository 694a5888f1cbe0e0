package middleware

import (
	"net/http"

	"ougadgets/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific admin roles
func RoleMiddleware(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in session, ensure session middleware runs first"})
			return
		}

		roleStr, _ := roleVal.(string)
		role, err := model.ParseRole(roleStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid role in session"})
			return
		}

		isAllowed := false
		for _, allowed := range allowedRoles {
			if role == allowed {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}

// BackOfficeMiddleware admits every known back-office role.
func BackOfficeMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.Roles()...)
}
