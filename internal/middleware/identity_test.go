package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyha1/cherry/internal/config"
)

func signedToken(t *testing.T, sub uint64) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func ctxWithHeader(auth string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestCurrentUserID(t *testing.T) {
	t.Run("context id wins", func(t *testing.T) {
		c := ctxWithHeader("Bearer " + signedToken(t, 7))
		c.Set("user_id", uint64(42))
		assert.Equal(t, "42", currentUserID(c))
	})

	t.Run("bearer sub before auth middleware runs", func(t *testing.T) {
		c := ctxWithHeader("Bearer " + signedToken(t, 7))
		assert.Equal(t, "7", currentUserID(c))
	})

	t.Run("no header is anon", func(t *testing.T) {
		assert.Equal(t, "anon", currentUserID(ctxWithHeader("")))
	})

	t.Run("malformed bearer is anon", func(t *testing.T) {
		assert.Equal(t, "anon", currentUserID(ctxWithHeader("Bearer not.a.jwt")))
		assert.Equal(t, "anon", currentUserID(ctxWithHeader("Basic abc")))
	})
}

func TestBuildRateKeyUserStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "cherry:rl", KeyStrategy: "user"}
	c := ctxWithHeader("Bearer " + signedToken(t, 7))

	assert.Equal(t, "cherry:rl:user:7", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user_route"
	key := buildRateKey(cfg, c)
	assert.Contains(t, key, "user:7")
	assert.Contains(t, key, "GET")

	anon := ctxWithHeader("")
	cfg.KeyStrategy = "user"
	assert.Equal(t, "cherry:rl:user:anon", buildRateKey(cfg, anon))
}
