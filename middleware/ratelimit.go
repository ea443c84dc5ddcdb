package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// IPRateLimiter caps requests per client IP over a fixed window. The counter
// resets when the window rolls over; until then every request past the limit
// is rejected with a retry hint. It fronts only the endpoints that mint
// signed storage URLs, bounding the cost of signing operations.
type IPRateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	limit     int
	period    time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type window struct {
	start time.Time
	count int
}

func NewIPRateLimiter(limit int, period time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Take records a request from ip and reports whether it is allowed, how many
// requests remain in the current window, and how long until the window
// resets.
func (rl *IPRateLimiter) Take(ip string) (allowed bool, remaining int, retryIn time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	w := rl.windows[ip]
	if w == nil || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		rl.windows[ip] = w
	}
	retryIn = w.start.Add(rl.period).Sub(now)

	if w.count >= rl.limit {
		return false, 0, retryIn
	}
	w.count++
	return true, rl.limit - w.count, retryIn
}

// sweep drops expired windows so counters for IPs that stopped calling do
// not accumulate forever. Runs at most once per period. Caller holds mu.
func (rl *IPRateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.period {
		return
	}
	rl.lastSweep = now
	for ip, w := range rl.windows {
		if now.Sub(w.start) >= rl.period {
			delete(rl.windows, ip)
		}
	}
}

// Middleware applies the limiter to a route group, with standard RateLimit
// headers and a Retry-After hint on rejection.
func (rl *IPRateLimiter) Middleware() gin.HandlerFunc {
	message := fmt.Sprintf(
		"Too many requests for file access, please try again after %s.",
		formatWindow(rl.period),
	)

	return func(c *gin.Context) {
		allowed, remaining, retryIn := rl.Take(c.ClientIP())

		seconds := int(retryIn.Seconds())
		if seconds < 0 {
			seconds = 0
		}
		c.Header("RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(seconds))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "fail",
				"message": message,
			})
			return
		}
		c.Next()
	}
}

func formatWindow(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
	return d.String()
}
