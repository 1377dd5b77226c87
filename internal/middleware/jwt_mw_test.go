package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/model"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/repository"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubUserRepo serves a single user by ID; only FindByID is used by the
// middleware.
type stubUserRepo struct {
	repository.UserRepository
	user *model.User
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

func performAuth(t *testing.T, jwtUtil *utils.JWTUtil, repo repository.UserRepository, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", JWTAuthMiddleware(jwtUtil, repo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt(AuthUserKey),
			"role":    c.GetString(AuthRoleKey),
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 1)
	user := &model.User{ID: 7, Username: "operator", Role: model.RoleAdmin, TokenVersion: 2}
	token, _, _ := jwtUtil.GenerateToken(user.ID, user.Username, user.Role, user.TokenVersion)

	w := performAuth(t, jwtUtil, &stubUserRepo{user: user}, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 1)

	w := performAuth(t, jwtUtil, &stubUserRepo{}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_BadHeaderFormat(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 1)

	w := performAuth(t, jwtUtil, &stubUserRepo{}, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 1)

	w := performAuth(t, jwtUtil, &stubUserRepo{}, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_StaleTokenEpoch(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 1)
	user := &model.User{ID: 7, Username: "operator", Role: model.RoleAdmin, TokenVersion: 3}
	// Token minted before the password change carries the old epoch.
	token, _, _ := jwtUtil.GenerateToken(user.ID, user.Username, user.Role, 2)

	w := performAuth(t, jwtUtil, &stubUserRepo{user: user}, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_DeletedUser(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 1)
	token, _, _ := jwtUtil.GenerateToken(99, "ghost", model.RoleStudent, 0)

	w := performAuth(t, jwtUtil, &stubUserRepo{}, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
