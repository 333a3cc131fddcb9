package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gardenexchange/backend/config"
	"github.com/gardenexchange/backend/database"
	"github.com/gardenexchange/backend/handlers"
	"github.com/gardenexchange/backend/logger"
	"github.com/gardenexchange/backend/middleware"
	"github.com/gardenexchange/backend/storage"
)

var version = "dev"

func main() {
	configPath := "config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	slog.SetDefault(slog.New(logger.NewHandler("GardenExchange")))

	slog.Info("Starting Garden Exchange API",
		slog.String("version", version),
		slog.String("type", "sys"))

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// A failed Postgres connection is not fatal: the trade store falls
	// back to memory and the service keeps running degraded.
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Warn("PostgreSQL unavailable, trade data will not persist",
			slog.String("error", err.Error()))
		db = nil
	} else if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("Schema setup failed", slog.String("error", err.Error()))
		db.Close()
		db = nil
	}

	backends := storage.Select(ctx, cfg, db)
	cancel()

	webApp := handlers.NewWebApp(cfg, backends, version)

	app := fiber.New(fiber.Config{
		AppName:      "Garden Exchange API",
		ServerHeader: "GardenExchange",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With,Cookie,x-user-data",
		AllowCredentials: true,
	}))
	app.Use(etag.New())
	app.Use(middleware.CacheControl())
	app.Use(middleware.LoggingMiddleware())

	setupRoutes(app, webApp)

	address := cfg.Address()
	slog.Info("Starting server",
		slog.String("address", address),
		slog.String("trade_backend", string(backends.TradeBackend)),
		slog.String("catalog_backend", string(backends.CatalogBackend)))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := app.Listen(address); err != nil {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-sig
	slog.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.String("error", err.Error()))
	}
	if db != nil {
		db.Close()
	}

	slog.Info("Shutdown complete")
}

// setupRoutes wires the API surface.
func setupRoutes(app *fiber.App, webApp *handlers.WebApp) {
	app.Get("/health", webApp.HealthCheck)

	api := app.Group("/api")
	api.Use(middleware.APIRateLimit())

	auth := api.Group("/auth")
	auth.Post("/roblox/callback", middleware.AuthRateLimit(), webApp.RobloxCallback)
	auth.Post("/logout", webApp.Logout)
	auth.Get("/me", middleware.IdentityRequired(webApp.Sessions), webApp.GetMe)

	tradeAds := api.Group("/trade-ads")
	tradeAds.Get("/", webApp.GetTradeAds)
	tradeAds.Get("/page", webApp.GetTradeAdsPage)
	tradeAds.Get("/my-ads", middleware.IdentityRequired(webApp.Sessions), webApp.GetMyTradeAds)
	tradeAds.Get("/:id", webApp.GetTradeAd)
	tradeAds.Post("/", middleware.IdentityRequired(webApp.Sessions), webApp.CreateTradeAd)
	tradeAds.Patch("/:id/status", middleware.IdentityRequired(webApp.Sessions), webApp.UpdateTradeAdStatus)
	tradeAds.Delete("/:id", middleware.IdentityRequired(webApp.Sessions), webApp.DeleteTradeAd)

	chat := api.Group("/chat-messages")
	chat.Get("/:tradeAdId", webApp.GetChatMessages)
	chat.Post("/", middleware.IdentityRequired(webApp.Sessions), webApp.CreateChatMessage)

	vouches := api.Group("/vouches")
	vouches.Get("/:userId", webApp.GetVouches)
	vouches.Post("/", middleware.IdentityRequired(webApp.Sessions), webApp.CreateVouch)

	items := api.Group("/trading-items")
	items.Get("/", webApp.GetTradingItems)
	items.Get("/:id", webApp.GetTradingItem)
	items.Post("/", middleware.IdentityRequired(webApp.Sessions), webApp.CreateTradingItem)
	items.Patch("/:id/value", middleware.IdentityRequired(webApp.Sessions), webApp.UpdateTradingItemValue)

	api.Get("/stock", webApp.GetStock)
	api.Post("/stock/:category", middleware.IdentityRequired(webApp.Sessions), webApp.ReportStock)
	api.Get("/value-list", webApp.GetValueList)
	api.Get("/weather", webApp.GetWeather)
	api.Get("/stats", webApp.GetStats)
	api.Get("/system-status", webApp.GetSystemStatus)

	api.Get("/item-image/:name", webApp.GetItemImage)
	api.Get("/image-proxy", middleware.ProxyRateLimit(), webApp.ProxyImage)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	})
}
