package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows up to the limit", func(t *testing.T) {
		rl := NewRateLimiter(3, time.Minute)
		defer rl.Stop()

		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow("k"), "request %d", i+1)
		}
		assert.False(t, rl.Allow("k"))
		assert.Equal(t, 0, rl.Remaining("k"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)
		defer rl.Stop()

		assert.True(t, rl.Allow("a"))
		assert.True(t, rl.Allow("b"))
		assert.False(t, rl.Allow("a"))
		assert.Equal(t, 1, rl.Remaining("c"))
	})

	t.Run("window resets", func(t *testing.T) {
		rl := NewRateLimiter(1, 20*time.Millisecond)
		defer rl.Stop()

		assert.True(t, rl.Allow("k"))
		assert.False(t, rl.Allow("k"))
		time.Sleep(30 * time.Millisecond)
		assert.True(t, rl.Allow("k"))
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)
		rl.Stop()
		rl.Stop()
	})
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(JWTUserIDKey, uid)
		}
		c.Next()
	})
	r.Use(RateLimit(rl))
	r.GET("/documents", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/documents", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := call("u1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, call("u1").Code)

	w = call("u1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// same IP, different user
	assert.Equal(t, http.StatusOK, call("u2").Code)
	// anonymous is keyed by IP
	assert.Equal(t, http.StatusOK, call("").Code)
}

func TestAuthRateLimit(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	r := gin.New()
	r.POST("/login", AuthRateLimit(rl), func(c *gin.Context) { c.Status(http.StatusOK) })

	login := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "192.168.1.100:12345"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, login().Code)
	w := login()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many authentication attempts")
}
