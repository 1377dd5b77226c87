package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/model"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles account management requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, model.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user.Summary(),
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		log.Printf("Error listing users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	summaries := make([]model.Summary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	c.JSON(http.StatusOK, gin.H{"users": summaries})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.targetUserID(c)
	if !ok {
		return
	}

	user, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
			return
		}
		log.Printf("Error fetching user %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Summary()})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.targetUserID(c)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		h.writeUpdateError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user.Summary(),
	})
}

func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req model.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.ChangeRole(c.Request.Context(), id, req)
	if err != nil {
		h.writeUpdateError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role changed successfully",
		"user":    user.Summary(),
	})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("Error deleting user %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// targetUserID resolves the :id parameter and enforces that non-admin
// callers may only address their own record.
func (h *UserHandler) targetUserID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return 0, false
	}

	role, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return 0, false
	}
	if role == model.RoleAdmin {
		return id, true
	}

	callerID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return 0, false
	}
	if callerID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrForbidden.Error()})
		return 0, false
	}
	return id, true
}

func (h *UserHandler) writeUpdateError(c *gin.Context, id int, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Error updating user %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
	}
}

// RegisterUserRoutes registers the account-management routes. Everything is
// behind authentication; list, create, role change and delete are
// admin-only, get and update allow self-access.
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, jwtAuthMW, adminMW gin.HandlerFunc) {
	userGroup := rg.Group("/users")
	userGroup.Use(jwtAuthMW)
	{
		userGroup.GET("", adminMW, h.ListUsers)
		userGroup.POST("", adminMW, h.CreateUser)
		userGroup.GET("/:id", h.GetUser)
		userGroup.PUT("/:id", h.UpdateUser)
		userGroup.PUT("/:id/role", adminMW, h.ChangeRole)
		userGroup.DELETE("/:id", adminMW, h.DeleteUser)
	}
}
