package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"manospy_gateway/internal/config"
	"manospy_gateway/pkg/logger"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret: "test-secret",
		Issuer: "manospy",
	}
}

func signToken(t *testing.T, cfg config.JWTConfig, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		Role: "client",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)
	return token
}

func setupAuthRouter(cfg config.JWTConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	m := NewAuthMiddleware(cfg, logger.New("error"))
	router.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		clientID, _ := ClientID(c)
		c.JSON(http.StatusOK, gin.H{"client_id": clientID})
	})
	return router
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	cfg := testJWTConfig()
	router := setupAuthRouter(cfg)

	clientID := uuid.New()
	token := signToken(t, cfg, clientID.String(), time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), clientID.String())
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	router := setupAuthRouter(testJWTConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsMalformedHeader(t *testing.T) {
	router := setupAuthRouter(testJWTConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	router := setupAuthRouter(cfg)

	token := signToken(t, cfg, uuid.New().String(), -time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	router := setupAuthRouter(cfg)

	other := config.JWTConfig{Secret: "other-secret", Issuer: cfg.Issuer}
	token := signToken(t, other, uuid.New().String(), time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsNonUUIDSubject(t *testing.T) {
	cfg := testJWTConfig()
	router := setupAuthRouter(cfg)

	token := signToken(t, cfg, "not-a-uuid", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
