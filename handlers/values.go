package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/gardenexchange/backend/utils"
)

// GetValueList serves the community value list. When no sheet is
// configured the endpoint returns an empty list, not an error.
func (app *WebApp) GetValueList(c *fiber.Ctx) error {
	entries, err := app.ValueList.Get(c.Context())
	if err != nil {
		slog.Error("Value list fetch failed", slog.String("error", err.Error()))
		return utils.SendInternalError(c, "Failed to fetch value list")
	}
	return utils.SendOK(c, entries)
}
