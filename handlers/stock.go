package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gardenexchange/backend/services"
	"github.com/gardenexchange/backend/utils"
)

// GetStock returns the current shop stock per category together with
// absolute restock deadlines computed server-side.
func (app *WebApp) GetStock(c *fiber.Ctx) error {
	return utils.SendOK(c, app.Stock.Snapshot())
}

// ReportStock lets a trusted scraper push a shop sighting for one
// category, re-anchoring that category's restock timer.
func (app *WebApp) ReportStock(c *fiber.Ctx) error {
	category := c.Params("category")

	var req struct {
		Items []services.StockItem `json:"items"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body")
	}

	valid := false
	for _, cat := range services.StockCategories {
		if cat == category {
			valid = true
			break
		}
	}
	if !valid {
		return utils.SendBadRequest(c, "Unknown stock category")
	}

	for i := range req.Items {
		if req.Items[i].ImageURL == "" {
			req.Items[i].ImageURL = services.ItemImageURL(req.Items[i].Name, category)
		}
	}

	app.Stock.RecordSighting(category, req.Items)
	return utils.SendOK(c, app.Stock.Snapshot())
}
