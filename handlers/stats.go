package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gardenexchange/backend/utils"
)

// GetStats merges counters from both storage families into one
// payload. A failure on either side degrades that side to zeroes
// rather than failing the whole endpoint.
func (app *WebApp) GetStats(c *fiber.Ctx) error {
	resp := fiber.Map{
		"totalUsers":        int64(0),
		"activeTradeAds":    int64(0),
		"totalTradingItems": int64(0),
	}

	if trade, err := app.Backends.Trades.TradeStats(c.Context()); err == nil {
		resp["totalUsers"] = trade.TotalUsers
		resp["activeTradeAds"] = trade.ActiveTradeAds
	} else {
		slog.Error("Trade stats unavailable", slog.String("error", err.Error()))
	}

	if catalog, err := app.Backends.Catalog.CatalogStats(c.Context()); err == nil {
		resp["totalTradingItems"] = catalog.TotalItems
	} else {
		slog.Error("Catalog stats unavailable", slog.String("error", err.Error()))
	}

	return utils.SendOK(c, resp)
}

// GetWeather reports the in-game weather and its growth effect.
func (app *WebApp) GetWeather(c *fiber.Ctx) error {
	weather, err := app.Backends.Catalog.CurrentWeather(c.Context())
	if err != nil {
		slog.Error("Weather unavailable", slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to fetch weather")
	}
	return utils.SendOK(c, weather)
}

// GetSystemStatus exposes which backend serves each data family and
// probes each store with a cheap read, so operators can see at a
// glance when the service is running degraded on the in-memory
// fallback or a backend has died since startup.
func (app *WebApp) GetSystemStatus(c *fiber.Ctx) error {
	tradeHealth := "ok"
	if _, err := app.Backends.Trades.TradeStats(c.Context()); err != nil {
		tradeHealth = "unhealthy"
	}
	catalogHealth := "ok"
	if _, err := app.Backends.Catalog.CatalogStats(c.Context()); err != nil {
		catalogHealth = "unhealthy"
	}

	return utils.SendOK(c, fiber.Map{
		"version": app.Version,
		"uptime":  time.Since(app.StartedAt).Round(time.Second).String(),
		"backends": fiber.Map{
			"trades":  app.Backends.TradeBackend,
			"catalog": app.Backends.CatalogBackend,
		},
		"health": fiber.Map{
			"trades":  tradeHealth,
			"catalog": catalogHealth,
		},
	})
}
