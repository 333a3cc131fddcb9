package utils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetIPAddress extracts the real client IP, honoring proxy headers.
func GetIPAddress(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx != -1 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}

// GetUserAgent returns the request user agent.
func GetUserAgent(c *fiber.Ctx) string {
	return c.Get("User-Agent")
}
