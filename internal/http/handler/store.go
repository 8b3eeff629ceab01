package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"optimapricer/internal/http/middleware"
	"optimapricer/internal/service"
	"optimapricer/internal/validation"
)

type storeCreateRequest struct {
	Name      string  `json:"name" validate:"required"`
	Platform  string  `json:"platform" validate:"omitempty,oneof=shopify amazon ebay etsy other"`
	APIKey    *string `json:"apiKey"`
	APISecret *string `json:"apiSecret"`
}

type storeUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1"`
	Platform  *string `json:"platform" validate:"omitempty,oneof=shopify amazon ebay etsy other"`
	APIKey    *string `json:"apiKey"`
	APISecret *string `json:"apiSecret"`
	IsActive  *bool   `json:"isActive"`
}

// ListStores returns the user's stores newest-first with product counts.
func ListStores(storeSvc service.StoreService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stores, err := storeSvc.List(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stores)
	}
}

// CreateStore registers a new store for the user.
func CreateStore(storeSvc service.StoreService, v validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req storeCreateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := v.Validate(req); err != nil {
			return writeValidationError(c, err)
		}

		store, err := storeSvc.Create(c.UserContext(), middleware.UserID(c), service.StoreInput{
			Name:      req.Name,
			Platform:  req.Platform,
			APIKey:    req.APIKey,
			APISecret: req.APISecret,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(store)
	}
}

// GetStore returns one of the user's stores.
func GetStore(storeSvc service.StoreService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		store, err := storeSvc.Get(c.UserContext(), id, middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(store)
	}
}

// UpdateStore applies a partial update to a store.
func UpdateStore(storeSvc service.StoreService, v validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req storeUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := v.Validate(req); err != nil {
			return writeValidationError(c, err)
		}

		store, err := storeSvc.Update(c.UserContext(), id, middleware.UserID(c), service.StoreUpdateInput{
			Name:      req.Name,
			Platform:  req.Platform,
			APIKey:    req.APIKey,
			APISecret: req.APISecret,
			IsActive:  req.IsActive,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(store)
	}
}

// DeleteStore removes a store and everything under it.
func DeleteStore(storeSvc service.StoreService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := storeSvc.Delete(c.UserContext(), id, middleware.UserID(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
