package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/gardenexchange/backend/services"
	"github.com/gardenexchange/backend/utils"
)

const (
	proxyCacheSize = 256
	proxyCacheTTL  = 24 * time.Hour
	proxyMaxBytes  = 5 << 20
)

// Hosts the image proxy will fetch from. Anything else is refused so
// the proxy cannot be used to reach arbitrary origins.
var allowedImageHosts = []string{
	"i.postimg.cc",
	"thumbnails.roblox.com",
}

const allowedImageHostSuffix = ".rbxcdn.com"

type cachedImage struct {
	data        []byte
	contentType string
	fetchedAt   time.Time
}

var (
	proxyCache, _ = lru.New(proxyCacheSize)
	proxyClient   = &http.Client{Timeout: 10 * time.Second}
)

// GetItemImage resolves artwork for an item name, falling back to the
// category icon when the item is unknown.
func (app *WebApp) GetItemImage(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return utils.SendBadRequest(c, "Invalid item name")
	}
	category := c.Query("type")

	return utils.SendOK(c, fiber.Map{
		"name":     name,
		"imageUrl": services.ItemImageURL(name, category),
	})
}

// ProxyImage fetches an image from an allowlisted host and serves it
// with long-lived caching, hiding third-party hosts from the browser.
func (app *WebApp) ProxyImage(c *fiber.Ctx) error {
	raw := c.Query("url")
	if raw == "" {
		return utils.SendBadRequest(c, "url parameter is required")
	}

	target, err := url.Parse(raw)
	if err != nil || target.Scheme != "https" || !imageHostAllowed(target.Hostname()) {
		return utils.SendBadRequest(c, "Image host not allowed")
	}

	if cached, ok := proxyCache.Get(target.String()); ok {
		img := cached.(*cachedImage)
		if time.Since(img.fetchedAt) < proxyCacheTTL {
			c.Set(fiber.HeaderContentType, img.contentType)
			return c.Send(img.data)
		}
		proxyCache.Remove(target.String())
	}

	req, err := http.NewRequestWithContext(c.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		return utils.SendInternalError(c, "Failed to fetch image")
	}
	resp, err := proxyClient.Do(req)
	if err != nil {
		slog.Warn("Image proxy fetch failed",
			slog.String("url", target.String()),
			slog.String("error", err.Error()))
		return utils.SendNotFound(c, "Failed to fetch image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return utils.SendNotFound(c, "Failed to fetch image")
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return utils.SendNotFound(c, "Upstream did not return an image")
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, proxyMaxBytes))
	if err != nil {
		return utils.SendNotFound(c, "Failed to fetch image")
	}

	proxyCache.Add(target.String(), &cachedImage{
		data:        data,
		contentType: contentType,
		fetchedAt:   time.Now(),
	})

	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

func imageHostAllowed(host string) bool {
	host = strings.ToLower(host)
	for _, allowed := range allowedImageHosts {
		if host == allowed {
			return true
		}
	}
	return strings.HasSuffix(host, allowedImageHostSuffix)
}
