package api

import (
	"athletiq/coach-app/internal/domain"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, role domain.Role, expiresIn time.Duration) string {
	t.Helper()
	claims := jwtClaims{
		UserID: primitive.NewObjectID().Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	protected := router.Group("", AuthMiddleware(testSecret))
	protected.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })
	protected.GET("/coach-only", RoleMiddleware(domain.RoleCoach), func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func doRequest(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router := newAuthTestRouter()

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(router, "/open", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := doRequest(router, "/open", "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", domain.RoleAthlete, time.Hour)
		w := doRequest(router, "/open", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, domain.RoleAthlete, -time.Hour)
		w := doRequest(router, "/open", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, testSecret, domain.RoleAthlete, time.Hour)
		w := doRequest(router, "/open", "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRoleMiddleware(t *testing.T) {
	router := newAuthTestRouter()

	t.Run("athlete blocked from coach route", func(t *testing.T) {
		token := signToken(t, testSecret, domain.RoleAthlete, time.Hour)
		w := doRequest(router, "/coach-only", "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("coach allowed", func(t *testing.T) {
		token := signToken(t, testSecret, domain.RoleCoach, time.Hour)
		w := doRequest(router, "/coach-only", "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
