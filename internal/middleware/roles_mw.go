package middleware

import (
	"net/http"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware permits the request when the authenticated role is in
// allowedRoles. Admin is always permitted regardless of allowedRoles: this
// super-user override is deliberate, not an accident of the role list.
// Missing identity is 401; a present but disallowed role is 403.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		userRole, ok := roleVal.(string)
		if !ok || userRole == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		if userRole == model.RoleAdmin {
			c.Next()
			return
		}

		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
	}
}

// AdminMiddleware restricts a route to admins.
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}
