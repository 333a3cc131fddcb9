package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	dbmodels "github.com/gardenexchange/backend/database/models"
	"github.com/gardenexchange/backend/middleware"
	"github.com/gardenexchange/backend/models"
	"github.com/gardenexchange/backend/storage"
	"github.com/gardenexchange/backend/utils"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// GetTradeAds returns the newest active ads, joined with owner
// profiles, capped at the active-ads limit.
func (app *WebApp) GetTradeAds(c *fiber.Ctx) error {
	ads, err := app.Backends.Trades.GetAllTradeAds(c.Context())
	if err != nil {
		slog.Error("Failed to list trade ads", slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to fetch trade ads")
	}
	return utils.SendOK(c, ads)
}

// GetTradeAdsPage returns one page of active ads.
func (app *WebApp) GetTradeAdsPage(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultPageLimit)
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	ads, err := app.Backends.Trades.GetTradeAdsPage(c.Context(), page, limit)
	if err != nil {
		slog.Error("Failed to page trade ads", slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to fetch trade ads")
	}
	return utils.SendOK(c, fiber.Map{
		"tradeAds": ads,
		"page":     page,
		"limit":    limit,
	})
}

func (app *WebApp) GetTradeAd(c *fiber.Ctx) error {
	id, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid trade ad id")
	}

	ad, err := app.Backends.Trades.GetTradeAd(c.Context(), id)
	if err != nil {
		if storage.IsNotFound(err) {
			return utils.SendNotFound(c, "Trade ad not found")
		}
		slog.Error("Failed to fetch trade ad",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to fetch trade ad")
	}
	return utils.SendOK(c, ad)
}

// GetMyTradeAds lists the authenticated user's own ads, any status.
func (app *WebApp) GetMyTradeAds(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	ads, err := app.Backends.Trades.GetTradeAdsByOwner(c.Context(), identity.IDString(), identity.Username)
	if err != nil {
		slog.Error("Failed to list own trade ads",
			slog.String("user_id", identity.IDString()),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to fetch trade ads")
	}
	return utils.SendOK(c, ads)
}

// CreateTradeAd persists a new ad owned by the authenticated identity.
// The owner id always comes from the identity, never the body.
func (app *WebApp) CreateTradeAd(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var req models.CreateTradeAdRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body")
	}
	if errs := utils.ValidateTradeAd(&req); len(errs) > 0 {
		return utils.SendValidationErrors(c, errs)
	}

	app.ensureUser(c, identity)

	ad := &dbmodels.TradeAd{
		UserID:        identity.IDString(),
		Title:         req.Title,
		Description:   req.Description,
		OfferingItems: req.OfferingItems,
		WantingItems:  req.WantingItems,
		Status:        dbmodels.TradeAdActive,
	}
	if err := app.Backends.Trades.CreateTradeAd(c.Context(), ad); err != nil {
		slog.Error("Failed to create trade ad",
			slog.String("user_id", identity.IDString()),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to create trade ad")
	}

	return utils.SendCreated(c, ad)
}

// DeleteTradeAd soft-cancels an ad. Ads are never removed from
// storage; cancelled ones just stop appearing in active listings.
func (app *WebApp) DeleteTradeAd(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	id, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid trade ad id")
	}

	ad, err := app.Backends.Trades.GetTradeAd(c.Context(), id)
	if err != nil {
		if storage.IsNotFound(err) {
			return utils.SendNotFound(c, "Trade ad not found")
		}
		return utils.SendInternalError(c, "Failed to fetch trade ad")
	}

	if !identity.Owns(ad.UserID) {
		slog.Warn("Trade ad delete rejected: not the owner",
			slog.Int64("trade_ad_id", id),
			slog.String("owner", ad.UserID),
			slog.String("claimed_id", identity.IDString()),
			slog.String("claimed_username", identity.Username))
		return utils.SendForbidden(c, "Not authorized to delete this trade ad")
	}

	updated, err := app.Backends.Trades.UpdateTradeAdStatus(c.Context(), id, dbmodels.TradeAdCancelled)
	if err != nil {
		slog.Error("Failed to cancel trade ad",
			slog.Int64("trade_ad_id", id),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to delete trade ad")
	}
	return utils.SendOK(c, updated)
}

// UpdateTradeAdStatus moves an ad between active, completed and
// cancelled, owner only.
func (app *WebApp) UpdateTradeAdStatus(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	id, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid trade ad id")
	}

	var req struct {
		Status dbmodels.TradeAdStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body")
	}
	switch req.Status {
	case dbmodels.TradeAdActive, dbmodels.TradeAdCompleted, dbmodels.TradeAdCancelled:
	default:
		return utils.SendBadRequest(c, "Invalid status")
	}

	ad, err := app.Backends.Trades.GetTradeAd(c.Context(), id)
	if err != nil {
		if storage.IsNotFound(err) {
			return utils.SendNotFound(c, "Trade ad not found")
		}
		return utils.SendInternalError(c, "Failed to fetch trade ad")
	}
	if !identity.Owns(ad.UserID) {
		return utils.SendForbidden(c, "Not authorized to update this trade ad")
	}

	updated, err := app.Backends.Trades.UpdateTradeAdStatus(c.Context(), id, req.Status)
	if err != nil {
		slog.Error("Failed to update trade ad status",
			slog.Int64("trade_ad_id", id),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to update trade ad")
	}
	return utils.SendOK(c, updated)
}

// ensureUser keeps a profile row for the identity so listing joins
// have a username to show. Failures are logged and swallowed; the
// write the user asked for still proceeds.
func (app *WebApp) ensureUser(c *fiber.Ctx, identity *models.UserIdentity) {
	user := &dbmodels.User{
		ID:       identity.IDString(),
		Username: identity.Username,
	}
	if _, err := app.Backends.Trades.UpsertUser(c.Context(), user); err != nil {
		slog.Warn("Failed to upsert user profile",
			slog.String("user_id", identity.IDString()),
			slog.String("error", err.Error()))
	}
}
