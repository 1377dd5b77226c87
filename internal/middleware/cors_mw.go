package middleware

import (
	"net/http"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/config"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware applies the single configured allow-list. One middleware,
// one config struct; origin decisions are not scattered across handlers.
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			h := c.Writer.Header()
			if allowAll {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Vary", "Origin")
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			h.Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
