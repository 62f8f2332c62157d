package rate_limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(limit int, window time.Duration) (*RateLimiter, *time.Time) {
	current := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	rl := &RateLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      func() time.Time { return current },
	}
	return rl, &current
}

func TestAllowExhaustsLimit(t *testing.T) {
	rl, _ := newTestLimiter(3, 5*time.Minute)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.Equal(t, 0, rl.Remaining("10.0.0.1"))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(2, 5*time.Minute)

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.1")

	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
	assert.Equal(t, 1, rl.Remaining("10.0.0.2"))
}

func TestAllowRecoversAfterWindow(t *testing.T) {
	rl, clock := newTestLimiter(2, 5*time.Minute)

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.1")
	assert.False(t, rl.Allow("10.0.0.1"))

	*clock = clock.Add(5*time.Minute + time.Second)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.Equal(t, 1, rl.Remaining("10.0.0.1"))
}

func TestRejectedAttemptIsNotRecorded(t *testing.T) {
	rl, clock := newTestLimiter(1, 5*time.Minute)

	rl.Allow("10.0.0.1")
	for i := 0; i < 10; i++ {
		assert.False(t, rl.Allow("10.0.0.1"))
	}

	// only the single accepted attempt holds the window open
	*clock = clock.Add(5*time.Minute + time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))
}

func TestThrottleReturns429WithHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, _ := newTestLimiter(1, 5*time.Minute)

	router := gin.New()
	router.POST("/auth/login", Throttle(rl), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("X-Real-IP", "203.0.113.7")
	router.ServeHTTP(first, req)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := httptest.NewRecorder()
	router.ServeHTTP(second, req)

	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, second.Header().Get("X-RateLimit-Reset"))
	assert.Contains(t, second.Body.String(), "Too many attempts")
}

func TestThrottleBucketsByForwardedClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, _ := newTestLimiter(1, 5*time.Minute)

	router := gin.New()
	router.POST("/auth/login", Throttle(rl), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(forwardedFor string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set("X-Forwarded-For", forwardedFor)
		router.ServeHTTP(w, req)
		return w.Code
	}

	// same client through different proxy hops shares one bucket
	assert.Equal(t, http.StatusOK, send("203.0.113.7, 10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7, 10.0.0.2"))

	// a different client is unaffected
	assert.Equal(t, http.StatusOK, send("198.51.100.4"))
}
