package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"optimapricer/internal/http/middleware"
	"optimapricer/internal/repository"
	"optimapricer/internal/service"
	"optimapricer/internal/validation"
)

type recommendationGenerateRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type recommendationUpdateRequest struct {
	Status     string `json:"status" validate:"required,oneof=pending applied rejected"`
	ApplyPrice bool   `json:"applyPrice"`
}

// ListRecommendations returns the user's recommendations, optionally
// filtered by status and product, enriched with the fresh market average.
func ListRecommendations(recSvc service.RecommendationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := repository.RecommendationFilter{
			Status:    c.Query("status"),
			ProductID: c.Query("productId"),
		}
		if f.ProductID != "" {
			if _, err := uuid.Parse(f.ProductID); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid productId format")
			}
		}

		recs, err := recSvc.List(c.UserContext(), middleware.UserID(c), f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(recs)
	}
}

// GenerateRecommendation computes a price recommendation for a product.
// Responds 201 when a new recommendation was created and 200 when the
// existing pending one was updated or returned unchanged.
func GenerateRecommendation(recSvc service.RecommendationService, v validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req recommendationGenerateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := v.Validate(req); err != nil {
			return writeValidationError(c, err)
		}
		if _, err := uuid.Parse(req.ProductID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid productId format")
		}

		rec, created, err := recSvc.Generate(c.UserContext(), middleware.UserID(c), req.ProductID)
		if err != nil {
			return writeServiceError(c, err)
		}
		status := fiber.StatusOK
		if created {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(rec)
	}
}

// UpdateRecommendation transitions a recommendation's status. With
// status=applied and applyPrice=true the suggested price is written onto
// the product.
func UpdateRecommendation(recSvc service.RecommendationService, v validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req recommendationUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := v.Validate(req); err != nil {
			return writeValidationError(c, err)
		}

		rec, err := recSvc.UpdateStatus(c.UserContext(), id, middleware.UserID(c), service.RecommendationUpdateInput{
			Status:     req.Status,
			ApplyPrice: req.ApplyPrice,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}

// RecommendationElasticity returns the demand curve analysis behind a
// recommendation.
func RecommendationElasticity(recSvc service.RecommendationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		report, err := recSvc.Elasticity(c.UserContext(), id, middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(report)
	}
}
