package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/model"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/service"

	"github.com/gin-gonic/gin"
)

// genericResetMessage is returned for every forgot-password request, found
// or not, so responses carry no account-enumeration signal.
const genericResetMessage = "If a user with that email exists, a password reset OTP has been sent"

// ResetHandler handles the OTP password-reset flow
type ResetHandler struct {
	service service.ResetService
}

// NewResetHandler creates a new ResetHandler
func NewResetHandler(s service.ResetService) *ResetHandler {
	return &ResetHandler{service: s}
}

func (h *ResetHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.RequestReset(c.Request.Context(), req.Email); err != nil {
		log.Printf("Error requesting password reset: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing your request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": genericResetMessage})
}

func (h *ResetHandler) VerifyOTP(c *gin.Context) {
	var req model.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	proof, err := h.service.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredOTP) {
			c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidOrExpiredOTP.Error()})
			return
		}
		log.Printf("Error verifying OTP: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error verifying OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "OTP verified successfully",
		"token":   proof,
		"email":   req.Email,
	})
}

func (h *ResetHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Optional reset-proof token from the verify-otp step.
	proofToken := bearerToken(c.GetHeader("Authorization"))

	err := h.service.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword, proofToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredOTP) {
			c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidOrExpiredOTP.Error()})
			return
		}
		log.Printf("Error resetting password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error resetting password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}

func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// RegisterResetRoutes registers the password-reset routes
func (h *ResetHandler) RegisterResetRoutes(rg *gin.RouterGroup, rateMW gin.HandlerFunc) {
	resetGroup := rg.Group("/password-reset")
	resetGroup.Use(rateMW)
	{
		resetGroup.POST("/forgot-password", h.ForgotPassword)
		resetGroup.POST("/verify-otp", h.VerifyOTP)
		resetGroup.POST("/reset-password-with-otp", h.ResetPassword)
	}
}
