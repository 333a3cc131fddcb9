package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gardenexchange/backend/config"
	"github.com/gardenexchange/backend/services"
	"github.com/gardenexchange/backend/storage"
)

// WebApp bundles the dependencies the HTTP handlers run on. Which
// concrete stores sit behind Backends is decided once at startup.
type WebApp struct {
	Config    *config.Config
	Backends  *storage.Backends
	OAuth     *services.OAuthService
	Sessions  *services.SessionService
	Stock     *services.StockService
	ValueList *services.ValueListService

	Version   string
	StartedAt time.Time
}

func NewWebApp(cfg *config.Config, backends *storage.Backends, version string) *WebApp {
	return &WebApp{
		Config:    cfg,
		Backends:  backends,
		OAuth:     services.NewOAuthService(cfg.OAuth),
		Sessions:  services.NewSessionService(cfg.Web.SessionKey),
		Stock:     services.NewStockService(),
		ValueList: services.NewValueListService(cfg.Sheets),
		Version:   version,
		StartedAt: time.Now(),
	}
}

// HealthCheck reports liveness and which backend kind serves each data
// family; it never touches the databases.
func (app *WebApp) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": app.Version,
		"backends": fiber.Map{
			"trades":  app.Backends.TradeBackend,
			"catalog": app.Backends.CatalogBackend,
		},
	})
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
