package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gardenexchange/backend/utils"
)

// RateLimiter is a sliding-window in-memory limiter keyed by client IP.
type RateLimiter struct {
	requests map[string][]time.Time
	mutex    sync.Mutex
	window   time.Duration
	limit    int
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		window:   window,
		limit:    limit,
	}

	go rl.cleanup()

	return rl
}

// Allow records the request and reports whether it fits in the window.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	var valid []time.Time
	for _, req := range rl.requests[key] {
		if req.After(cutoff) {
			valid = append(valid, req)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

// cleanup drops idle keys so the map does not grow unbounded.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		cutoff := time.Now().Add(-rl.window * 2)

		for key, requests := range rl.requests {
			var valid []time.Time
			for _, req := range requests {
				if req.After(cutoff) {
					valid = append(valid, req)
				}
			}
			if len(valid) == 0 {
				delete(rl.requests, key)
			} else {
				rl.requests[key] = valid
			}
		}
		rl.mutex.Unlock()
	}
}

// RateLimit limits requests per client IP.
func RateLimit(limit int, window time.Duration) fiber.Handler {
	limiter := NewRateLimiter(limit, window)

	return func(c *fiber.Ctx) error {
		ip := utils.GetIPAddress(c)

		if !limiter.Allow(ip) {
			slog.Warn("Rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", c.Path()),
				slog.String("method", c.Method()),
				slog.Int("limit", limit))

			return utils.SendError(c, fiber.StatusTooManyRequests,
				"Too many requests. Please try again later.")
		}

		return c.Next()
	}
}

// AuthRateLimit throttles the OAuth callback; codes are single-use so
// hammering it only burns them.
func AuthRateLimit() fiber.Handler {
	return RateLimit(10, time.Minute)
}

// APIRateLimit is the general limit applied to the /api group.
func APIRateLimit() fiber.Handler {
	return RateLimit(300, time.Minute)
}

// ProxyRateLimit throttles the image proxy, which fans out to
// third-party hosts.
func ProxyRateLimit() fiber.Handler {
	return RateLimit(60, time.Minute)
}
