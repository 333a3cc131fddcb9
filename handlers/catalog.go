package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	dbmodels "github.com/gardenexchange/backend/database/models"
	"github.com/gardenexchange/backend/models"
	"github.com/gardenexchange/backend/services"
	"github.com/gardenexchange/backend/storage"
	"github.com/gardenexchange/backend/utils"
)

const searchResultLimit = 25

// GetTradingItems lists tradeable catalog items. With ?q= the list is
// fuzzy-filtered and ranked by match quality instead.
func (app *WebApp) GetTradingItems(c *fiber.Ctx) error {
	if query := c.Query("q"); query != "" {
		items, err := app.Backends.Catalog.SearchTradingItems(c.Context(), query, searchResultLimit)
		if err != nil {
			slog.Error("Trading item search failed",
				slog.String("query", query),
				slog.String("error", err.Error()))
			return utils.SendInternalError(c, "Failed to search trading items")
		}
		return utils.SendOK(c, items)
	}

	items, err := app.Backends.Catalog.GetAllTradingItems(c.Context())
	if err != nil {
		slog.Error("Failed to list trading items", slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to fetch trading items")
	}
	return utils.SendOK(c, items)
}

func (app *WebApp) GetTradingItem(c *fiber.Ctx) error {
	id, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid item id")
	}

	item, err := app.Backends.Catalog.GetTradingItem(c.Context(), id)
	if err != nil {
		if storage.IsNotFound(err) {
			return utils.SendNotFound(c, "Trading item not found")
		}
		slog.Error("Failed to fetch trading item",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to fetch trading item")
	}
	return utils.SendOK(c, item)
}

// CreateTradingItem adds a catalog entry. Missing artwork falls back
// to the category icon.
func (app *WebApp) CreateTradingItem(c *fiber.Ctx) error {
	var req models.CreateTradingItemRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body")
	}
	if errs := utils.ValidateTradingItem(&req); len(errs) > 0 {
		return utils.SendValidationErrors(c, errs)
	}

	item := &dbmodels.TradingItem{
		Name:          req.Name,
		Type:          req.Type,
		Rarity:        req.Rarity,
		CurrentValue:  req.CurrentValue,
		PreviousValue: req.PreviousValue,
		ChangePercent: req.ChangePercent,
		ImageURL:      req.ImageURL,
		Tradeable:     true,
	}
	if req.Tradeable != nil {
		item.Tradeable = *req.Tradeable
	}
	if item.ImageURL == "" {
		item.ImageURL = services.ItemImageURL(item.Name, item.Type)
	}

	if err := app.Backends.Catalog.CreateTradingItem(c.Context(), item); err != nil {
		slog.Error("Failed to create trading item",
			slog.String("name", item.Name),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to create trading item")
	}
	return utils.SendCreated(c, item)
}

// UpdateTradingItemValue sets a new current value, rolling the old one
// into previousValue and recomputing the change percentage.
func (app *WebApp) UpdateTradingItemValue(c *fiber.Ctx) error {
	id, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid item id")
	}

	var req struct {
		CurrentValue *int `json:"currentValue"`
	}
	if err := c.BodyParser(&req); err != nil || req.CurrentValue == nil {
		return utils.SendBadRequest(c, "currentValue is required")
	}
	if *req.CurrentValue < 0 {
		return utils.SendBadRequest(c, "currentValue cannot be negative")
	}

	item, err := app.Backends.Catalog.UpdateTradingItemValue(c.Context(), id, *req.CurrentValue)
	if err != nil {
		if storage.IsNotFound(err) {
			return utils.SendNotFound(c, "Trading item not found")
		}
		slog.Error("Failed to update trading item value",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to update trading item")
	}
	return utils.SendOK(c, item)
}
