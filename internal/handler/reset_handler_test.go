package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubResetService records the proof token the handler extracted from the
// Authorization header.
type stubResetService struct {
	verifyErr error
	resetErr  error
	gotProof  string
	gotOTP    string
	gotEmail  string
}

func (s *stubResetService) RequestReset(ctx context.Context, email string) error {
	s.gotEmail = email
	return nil
}

func (s *stubResetService) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	if s.verifyErr != nil {
		return "", s.verifyErr
	}
	return "proof-token", nil
}

func (s *stubResetService) ResetPassword(ctx context.Context, email, otp, newPassword, proofToken string) error {
	s.gotEmail, s.gotOTP, s.gotProof = email, otp, proofToken
	return s.resetErr
}

func setupResetRouter(svc service.ResetService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewResetHandler(svc)
	h.RegisterResetRoutes(router.Group("/api/v1"), func(c *gin.Context) { c.Next() })
	return router
}

func TestResetHandler_ForgotPassword_AlwaysGeneric(t *testing.T) {
	svc := &stubResetService{}
	router := setupResetRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/password-reset/forgot-password",
		strings.NewReader(`{"email":"nobody@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), genericResetMessage)
	assert.Equal(t, "nobody@example.com", svc.gotEmail)
}

func TestResetHandler_VerifyOTP_Invalid(t *testing.T) {
	svc := &stubResetService{verifyErr: service.ErrInvalidOrExpiredOTP}
	router := setupResetRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/password-reset/verify-otp",
		strings.NewReader(`{"email":"user@example.com","otp":"482913"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetHandler_ResetPassword_ForwardsBearerProof(t *testing.T) {
	svc := &stubResetService{}
	router := setupResetRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/password-reset/reset-password-with-otp",
		strings.NewReader(`{"email":"user@example.com","otp":"482913","new_password":"freshpass1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer the-proof")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "the-proof", svc.gotProof)
	assert.Equal(t, "482913", svc.gotOTP)
}

func TestResetHandler_ResetPassword_NoHeader(t *testing.T) {
	svc := &stubResetService{}
	router := setupResetRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/password-reset/reset-password-with-otp",
		strings.NewReader(`{"email":"user@example.com","otp":"482913","new_password":"freshpass1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.gotProof, "missing header must not fabricate a proof token")
}
