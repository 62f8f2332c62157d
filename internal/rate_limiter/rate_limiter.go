package rate_limiter

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter tracks attempt timestamps per client key inside a sliding
// window. Keys with no recent attempts are evicted in the background.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

func New(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}

	go rl.evictLoop()

	return rl
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := rl.now().Add(-rl.window)
		for key := range rl.attempts {
			if len(rl.prune(key, cutoff)) == 0 {
				delete(rl.attempts, key)
			}
		}
		rl.mu.Unlock()
	}
}

// prune drops timestamps older than cutoff for key and returns what is left.
// Callers must hold rl.mu.
func (rl *RateLimiter) prune(key string, cutoff time.Time) []time.Time {
	kept := rl.attempts[key][:0]
	for _, t := range rl.attempts[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	rl.attempts[key] = kept
	return kept
}

// Allow records an attempt for key and reports whether it fits within the
// window. A rejected attempt is not recorded.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if len(rl.prune(key, now.Add(-rl.window))) >= rl.limit {
		return false
	}

	rl.attempts[key] = append(rl.attempts[key], now)
	return true
}

// Remaining reports how many attempts key has left in the current window.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	remaining := rl.limit - len(rl.prune(key, rl.now().Add(-rl.window)))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Throttle is a gin middleware that rejects requests over the limit with
// 429 and advertises the limit state through X-RateLimit headers.
func Throttle(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := clientKey(c)

		if !rl.Allow(key) {
			resetAt := rl.now().Add(rl.window).Format(time.RFC3339)
			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", resetAt)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":    "Too many attempts, try again later",
				"reset_at": resetAt,
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.Remaining(key)))
		c.Next()
	}
}

// clientKey resolves the address the limiter buckets by, preferring the
// forwarding headers set by a reverse proxy over the socket peer.
func clientKey(c *gin.Context) string {
	addr := c.GetHeader("X-Forwarded-For")
	if addr == "" {
		addr = c.GetHeader("X-Real-IP")
	}
	if addr == "" {
		addr = c.ClientIP()
	}
	// X-Forwarded-For may carry the whole proxy chain; the client is first
	if i := strings.IndexByte(addr, ','); i >= 0 {
		addr = addr[:i]
	}
	return strings.TrimSpace(addr)
}
