package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dms/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	defer rl.Close()

	t.Run("allows the burst then blocks", func(t *testing.T) {
		assert.True(t, rl.Allow("a"))
		assert.True(t, rl.Allow("a"))
		assert.False(t, rl.Allow("a"))
		assert.Positive(t, rl.Retry("a"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		assert.True(t, rl.Allow("b"))
	})

	t.Run("burst defaults from rate", func(t *testing.T) {
		other := NewRateLimiter(2.5, 0)
		defer other.Close()
		assert.True(t, other.Allow("x"))
		assert.True(t, other.Allow("x"))
		assert.True(t, other.Allow("x"))
		assert.False(t, other.Allow("x"))
	})

	t.Run("close is idempotent", func(t *testing.T) {
		other := NewRateLimiter(1, 1)
		other.Close()
		other.Close()
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	defer rl.Close()

	router := gin.New()
	router.Use(RequestID())
	router.Use(func(c *gin.Context) {
		if user := c.GetHeader("X-Test-User"); user != "" {
			c.Set(JWTUserIDKey, user)
		}
		c.Next()
	})
	router.Use(RateLimit(rl))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("u1").Code)

	w := do("u1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, dto.ErrCodeRateLimited, decodeError(t, w).Code)

	// A different user has its own bucket, and so does the anonymous IP
	assert.Equal(t, http.StatusOK, do("u2").Code)
	assert.Equal(t, http.StatusOK, do("").Code)
}
