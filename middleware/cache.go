package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// cacheRules maps path prefixes to Cache-Control values. First match
// wins, so more specific prefixes come first.
var cacheRules = []struct {
	prefix string
	value  string
}{
	{"/api/auth", "no-store"},
	{"/api/chat-messages", "no-store"},
	{"/api/trade-ads", "no-store"},
	{"/api/vouches", "no-store"},
	{"/api/image-proxy", "public, max-age=86400"},
	{"/api/item-image", "public, max-age=86400"},
	{"/api/stock", "public, max-age=300"},
	{"/api/value-list", "public, max-age=300"},
	{"/api/stats", "public, max-age=600"},
	{"/api/trading-items", "public, max-age=120"},
	{"/api/weather", "public, max-age=120"},
}

// CacheControl stamps responses with per-path cache directives. Only
// successful GETs are cacheable; everything else is left alone.
func CacheControl() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			return err
		}

		path := c.Path()
		for _, rule := range cacheRules {
			if strings.HasPrefix(path, rule.prefix) {
				c.Set(fiber.HeaderCacheControl, rule.value)
				break
			}
		}
		return err
	}
}
