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

// GetChatMessages returns the message history of one trade ad, oldest
// first.
func (app *WebApp) GetChatMessages(c *fiber.Ctx) error {
	tradeAdID, err := parseInt64(c.Params("tradeAdId"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid trade ad id")
	}

	messages, err := app.Backends.Trades.GetChatMessagesByTradeAd(c.Context(), tradeAdID)
	if err != nil {
		slog.Error("Failed to fetch chat messages",
			slog.Int64("trade_ad_id", tradeAdID),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to fetch chat messages")
	}
	return utils.SendOK(c, messages)
}

// CreateChatMessage appends a message to a trade ad's chat. Messages
// are append-only; there is no edit or delete.
func (app *WebApp) CreateChatMessage(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var req models.CreateChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body")
	}
	if errs := utils.ValidateChatMessage(&req); len(errs) > 0 {
		return utils.SendValidationErrors(c, errs)
	}

	if _, err := app.Backends.Trades.GetTradeAd(c.Context(), req.TradeAdID); err != nil {
		if storage.IsNotFound(err) {
			return utils.SendNotFound(c, "Trade ad not found")
		}
		return utils.SendInternalError(c, "Failed to fetch trade ad")
	}

	app.ensureUser(c, identity)

	message := &dbmodels.ChatMessage{
		UserID:    identity.IDString(),
		TradeAdID: req.TradeAdID,
		Message:   req.Message,
	}
	if err := app.Backends.Trades.CreateChatMessage(c.Context(), message); err != nil {
		slog.Error("Failed to create chat message",
			slog.Int64("trade_ad_id", req.TradeAdID),
			slog.String("user_id", identity.IDString()),
			slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to send message")
	}
	return utils.SendCreated(c, message)
}
