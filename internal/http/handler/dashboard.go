package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"optimapricer/internal/http/middleware"
	"optimapricer/internal/service"
)

// Dashboard returns the catalog-wide metrics for the user.
func Dashboard(dashSvc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := dashSvc.Metrics(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(m)
	}
}

// TestScrape runs the scraper against arbitrary inputs without touching
// the catalog. Diagnostics endpoint.
func TestScrape(scanSvc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		product := c.Query("product")
		if product == "" {
			return writeError(c, fiber.StatusBadRequest, "PRODUCT_REQUIRED", "product is required")
		}

		cost, err := strconv.ParseFloat(c.Query("cost", "0"), 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_COST", "invalid cost")
		}
		current, err := strconv.ParseFloat(c.Query("current", "0"), 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_CURRENT", "invalid current")
		}

		res, err := scanSvc.TestScrape(c.UserContext(), service.TestScrapeInput{
			Product:      product,
			Category:     c.Query("category", "Other"),
			CostPrice:    cost,
			CurrentPrice: current,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
