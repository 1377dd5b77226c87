package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func performWithRole(t *testing.T, role string, hasRole bool, mw gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", func(c *gin.Context) {
		if hasRole {
			c.Set(AuthRoleKey, role)
		}
		c.Next()
	}, mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		hasRole    bool
		allowed    []string
		wantStatus int
	}{
		{"allowed role passes", model.RoleTeacher, true, []string{model.RoleTeacher}, http.StatusOK},
		{"disallowed role is forbidden", model.RoleStudent, true, []string{model.RoleTeacher}, http.StatusForbidden},
		{"admin passes teacher-only route", model.RoleAdmin, true, []string{model.RoleTeacher}, http.StatusOK},
		{"admin passes empty allow list", model.RoleAdmin, true, nil, http.StatusOK},
		{"student fails empty allow list", model.RoleStudent, true, nil, http.StatusForbidden},
		{"missing role is unauthenticated", "", false, []string{model.RoleTeacher}, http.StatusUnauthorized},
		{"empty role string is unauthenticated", "", true, []string{model.RoleTeacher}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performWithRole(t, tt.role, tt.hasRole, RoleMiddleware(tt.allowed...))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	w := performWithRole(t, model.RoleAdmin, true, AdminMiddleware())
	assert.Equal(t, http.StatusOK, w.Code)

	w = performWithRole(t, model.RoleDeveloper, true, AdminMiddleware())
	assert.Equal(t, http.StatusForbidden, w.Code)
}
