package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTakeWithinLimit(t *testing.T) {
	rl := NewIPRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, remaining, _ := rl.Take("1.2.3.4")
		assert.True(t, allowed)
		assert.Equal(t, 2-i, remaining)
	}
}

func TestTakeRejectsOverLimitAndRecovers(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rl := NewIPRateLimiter(2, 15*time.Minute)
	rl.now = func() time.Time { return now }

	allowed, _, _ := rl.Take("1.2.3.4")
	assert.True(t, allowed)
	allowed, _, _ = rl.Take("1.2.3.4")
	assert.True(t, allowed)

	allowed, remaining, retryIn := rl.Take("1.2.3.4")
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, 15*time.Minute, retryIn)

	// Still rejected later inside the same window.
	now = now.Add(14 * time.Minute)
	allowed, _, _ = rl.Take("1.2.3.4")
	assert.False(t, allowed)

	// The counter resets once the window rolls over.
	now = now.Add(time.Minute)
	allowed, remaining, _ = rl.Take("1.2.3.4")
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
}

func TestTakeCountsPerIP(t *testing.T) {
	rl := NewIPRateLimiter(1, time.Minute)

	allowed, _, _ := rl.Take("1.1.1.1")
	assert.True(t, allowed)
	allowed, _, _ = rl.Take("1.1.1.1")
	assert.False(t, allowed)

	// A different client is unaffected.
	allowed, _, _ = rl.Take("2.2.2.2")
	assert.True(t, allowed)
}

func TestTakeEvictsExpiredWindows(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rl := NewIPRateLimiter(5, 15*time.Minute)
	rl.now = func() time.Time { return now }

	for _, ip := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		allowed, _, _ := rl.Take(ip)
		assert.True(t, allowed)
	}
	assert.Len(t, rl.windows, 3)

	// Once the window rolls over, counters for IPs that stopped calling
	// are dropped rather than retained forever.
	now = now.Add(15 * time.Minute)
	allowed, _, _ := rl.Take("4.4.4.4")
	assert.True(t, allowed)
	assert.Len(t, rl.windows, 1)
	assert.Contains(t, rl.windows, "4.4.4.4")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewIPRateLimiter(1, 15*time.Minute)

	router := gin.New()
	router.GET("/files", rl.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/files", nil))
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("RateLimit-Remaining"))

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/files", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "Too many requests for file access")
	assert.Contains(t, second.Body.String(), "15 minutes")
}
