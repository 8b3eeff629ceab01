package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"optimapricer/internal/http/middleware"
	"optimapricer/internal/service"
	"optimapricer/internal/validation"
)

type productCreateRequest struct {
	StoreID         string   `json:"storeId" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	SKU             string   `json:"sku" validate:"required"`
	Category        string   `json:"category"`
	CostPrice       float64  `json:"costPrice" validate:"gte=0"`
	CurrentPrice    float64  `json:"currentPrice" validate:"gte=0"`
	CompetitorPrice *float64 `json:"competitorPrice" validate:"omitempty,gte=0"`
	SalesVelocity   float64  `json:"salesVelocity" validate:"gte=0"`
}

type productUpdateRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=1"`
	SKU             *string  `json:"sku" validate:"omitempty,min=1"`
	Category        *string  `json:"category"`
	CostPrice       *float64 `json:"costPrice" validate:"omitempty,gte=0"`
	CurrentPrice    *float64 `json:"currentPrice" validate:"omitempty,gte=0"`
	CompetitorPrice *float64 `json:"competitorPrice" validate:"omitempty,gte=0"`
	SalesVelocity   *float64 `json:"salesVelocity" validate:"omitempty,gte=0"`
}

// ListProducts returns the user's products, optionally filtered by store.
func ListProducts(productSvc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID := c.Query("storeId")
		if storeID != "" {
			if _, err := uuid.Parse(storeID); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid storeId format")
			}
		}
		products, err := productSvc.List(c.UserContext(), middleware.UserID(c), storeID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(products)
	}
}

// CreateProduct registers a product under one of the user's stores.
func CreateProduct(productSvc service.ProductService, v validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req productCreateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := v.Validate(req); err != nil {
			return writeValidationError(c, err)
		}
		if _, err := uuid.Parse(req.StoreID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid storeId format")
		}

		p, err := productSvc.Create(c.UserContext(), middleware.UserID(c), service.ProductInput{
			StoreID:         req.StoreID,
			Name:            req.Name,
			SKU:             req.SKU,
			Category:        req.Category,
			CostPrice:       req.CostPrice,
			CurrentPrice:    req.CurrentPrice,
			CompetitorPrice: req.CompetitorPrice,
			SalesVelocity:   req.SalesVelocity,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// GetProduct returns one product with its embedded store.
func GetProduct(productSvc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := productSvc.Get(c.UserContext(), id, middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// UpdateProduct applies a partial update to a product.
func UpdateProduct(productSvc service.ProductService, v validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req productUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := v.Validate(req); err != nil {
			return writeValidationError(c, err)
		}

		p, err := productSvc.Update(c.UserContext(), id, middleware.UserID(c), service.ProductUpdateInput{
			Name:            req.Name,
			SKU:             req.SKU,
			Category:        req.Category,
			CostPrice:       req.CostPrice,
			CurrentPrice:    req.CurrentPrice,
			CompetitorPrice: req.CompetitorPrice,
			SalesVelocity:   req.SalesVelocity,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// DeleteProduct removes a product; market data and recommendations cascade.
func DeleteProduct(productSvc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := productSvc.Delete(c.UserContext(), id, middleware.UserID(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ProductMarketData returns the scan history report for a product.
func ProductMarketData(productSvc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		report, err := productSvc.MarketData(c.UserContext(), id, middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(report)
	}
}

// ScanProduct runs a fresh competitor price scan for a product.
func ScanProduct(scanSvc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := scanSvc.Scan(c.UserContext(), id, middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
