package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	dbmodels "github.com/gardenexchange/backend/database/models"
	"github.com/gardenexchange/backend/middleware"
	"github.com/gardenexchange/backend/models"
	"github.com/gardenexchange/backend/utils"
)

// GetVouches lists the vouches received by a user, newest first.
func (app *WebApp) GetVouches(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return utils.SendBadRequest(c, "Invalid user id")
	}

	vouches, err := app.Backends.Trades.GetVouchesByUser(c.Context(), userID)
	if err != nil {
		slog.Error("Failed to fetch vouches",
			slog.String("to_user_id", userID),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to fetch vouches")
	}
	return utils.SendOK(c, vouches)
}

// CreateVouch records a 1-5 rating from the authenticated user for
// another trader. Vouching for yourself is rejected.
func (app *WebApp) CreateVouch(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var req models.CreateVouchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body")
	}
	if errs := utils.ValidateVouch(&req); len(errs) > 0 {
		return utils.SendValidationErrors(c, errs)
	}
	if identity.Owns(req.ToUserID) {
		return utils.SendBadRequest(c, "You cannot vouch for yourself")
	}

	app.ensureUser(c, identity)

	vouch := &dbmodels.Vouch{
		FromUserID: identity.IDString(),
		ToUserID:   req.ToUserID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := app.Backends.Trades.CreateVouch(c.Context(), vouch); err != nil {
		slog.Error("Failed to create vouch",
			slog.String("from_user_id", identity.IDString()),
			slog.String("to_user_id", req.ToUserID),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to create vouch")
	}
	return utils.SendCreated(c, vouch)
}
