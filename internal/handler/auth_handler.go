package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/middleware"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/model"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (int, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(int)
	if !ok {
		return 0, errors.New("invalid user ID type in context")
	}
	return userID, nil
}

// Helper to get authenticated user role from context
func getAuthUserRole(c *gin.Context) (string, error) {
	roleVal, exists := c.Get(middleware.AuthRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := roleVal.(string)
	if !ok {
		return "", errors.New("invalid user role type in context")
	}
	return role, nil
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, token, expiry, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
			return
		}
		log.Printf("Error during login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"token":      token,
		"expires_at": expiry,
		"user":       user.Summary(),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
			return
		}
		log.Printf("Error fetching current user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Summary()})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	err = h.service.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
			return
		}
		log.Printf("Error changing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	// The password change bumped the token epoch; the client must log in again.
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully, please log in again"})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, jwtAuthMW, rateMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", rateMW, h.Login)
		authGroup.GET("/me", jwtAuthMW, h.Me)
		authGroup.POST("/change-password", rateMW, jwtAuthMW, h.ChangePassword)
	}
}
