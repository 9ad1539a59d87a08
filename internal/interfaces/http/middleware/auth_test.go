package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ar-market.backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(jwtService *jwt.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(jwtService), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	r.GET("/admin", AuthMiddleware(jwtService), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	r := newAuthRouter(jwtService)

	userID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(userID, "user@mail.com", "USER", "FREE")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), userID.String())
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	r := newAuthRouter(jwtService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Authorization header is required")
}

func TestAuthMiddleware_BadFormat(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	r := newAuthRouter(jwtService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret", -time.Minute, 24*time.Hour)
	r := newAuthRouter(jwtService)

	pair, err := jwtService.GenerateTokenPair(uuid.New(), "user@mail.com", "USER", "FREE")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Token has expired")
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	other := jwt.NewJWTService("other-secret", 15*time.Minute, 24*time.Hour)
	r := newAuthRouter(jwtService)

	pair, err := other.GenerateTokenPair(uuid.New(), "user@mail.com", "USER", "FREE")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	r := newAuthRouter(jwtService)

	adminPair, err := jwtService.GenerateTokenPair(uuid.New(), "admin@mail.com", "ADMIN", "PRO")
	require.NoError(t, err)
	userPair, err := jwtService.GenerateTokenPair(uuid.New(), "user@mail.com", "USER", "FREE")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+adminPair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+userPair.AccessToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}
