package handler

import (
	"github.com/gofiber/fiber/v2"

	"optimapricer/internal/http/middleware"
	"optimapricer/internal/model"
	"optimapricer/internal/service"
	"optimapricer/internal/validation"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userProjection is the account shape exposed over the API.
type userProjection struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func projectUser(u *model.User) userProjection {
	return userProjection{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Register creates a merchant account. Registering does not establish a
// session; clients log in afterwards.
func Register(authSvc service.AuthService, v validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := v.Validate(req); err != nil {
			return writeValidationError(c, err)
		}

		u, err := authSvc.Register(c.UserContext(), service.RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(projectUser(u))
	}
}

// Login verifies credentials and establishes a session cookie.
func Login(authSvc service.AuthService, sessions *middleware.SessionAuth, v validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := v.Validate(req); err != nil {
			return writeValidationError(c, err)
		}

		u, err := authSvc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := sessions.SignIn(c, u.ID); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(projectUser(u))
	}
}

// Logout destroys the current session.
func Logout(sessions *middleware.SessionAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := sessions.SignOut(c); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"message": "Logged out successfully"})
	}
}

// CurrentUser returns the account behind the session.
func CurrentUser(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := authSvc.GetUser(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(projectUser(u))
	}
}
