package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/repository"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey     = "authUser"
	AuthUsernameKey = "authUsername"
	AuthRoleKey     = "authRole"
)

// JWTAuthMiddleware authenticates requests via the Authorization bearer
// header. Beyond signature and expiry, the token's epoch must match the
// user's current token_version, so tokens minted before the last password
// change are rejected. All authentication failures are 401; 403 is reserved
// for the role gate.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			log.Printf("Error loading user %d during auth: %v", claims.UserID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate request"})
			return
		}
		if user == nil || user.TokenVersion != claims.TokenVersion {
			// Deleted account or a token from before the last password change.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(AuthUserKey, user.ID)
		c.Set(AuthUsernameKey, user.Username)
		c.Set(AuthRoleKey, user.Role)

		c.Next()
	}
}
