package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradeyard/backend/internal/domain/audit"
	"github.com/tradeyard/backend/internal/infrastructure/auth"
	"github.com/tradeyard/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars!!",
		TokenExpiration: expiration,
		Issuer:          "tradeyard-test",
	})
}

func newAuthTestRouter(jwtService *auth.JWTService) (*gin.Engine, *audit.Actor) {
	var seen audit.Actor
	engine := gin.New()
	engine.Use(JWTAuth(jwtService))
	engine.GET("/protected", func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		seen = actor
		c.Status(http.StatusOK)
	})
	engine.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine, &seen
}

func TestJWTAuth(t *testing.T) {
	jwtService := newAuthService(time.Hour)

	t.Run("valid token passes and exposes the actor", func(t *testing.T) {
		engine, seen := newAuthTestRouter(jwtService)

		userID := uuid.New()
		token, err := jwtService.Generate(userID, "asha")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID, seen.ID)
		assert.Equal(t, "asha", seen.Name)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		engine, _ := newAuthTestRouter(jwtService)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		engine, _ := newAuthTestRouter(jwtService)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, "Token abc")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token reports its own code", func(t *testing.T) {
		expired := newAuthService(-time.Minute)
		engine, _ := newAuthTestRouter(expired)

		token, err := expired.Generate(uuid.New(), "asha")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("skip paths bypass authentication", func(t *testing.T) {
		engine, _ := newAuthTestRouter(jwtService)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
