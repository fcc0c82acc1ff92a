package handler

import (
	"errors"

	"go-inventory-api/internal/authz"
	"go-inventory-api/internal/service"
	"go-inventory-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errorResponder turns service errors into HTTP responses in one place
type errorResponder struct {
	log *zap.Logger
}

func (r errorResponder) respond(c *fiber.Ctx, err error) error {
	var validation *service.ValidationError
	var insufficient *service.InsufficientStockError

	switch {
	case errors.As(err, &validation):
		body := fiber.Map{"error": validation.Message}
		if validation.Field != "" {
			body["field"] = validation.Field
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": insufficient.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyReceived),
		errors.Is(err, service.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrOrderReceived),
		errors.Is(err, service.ErrInUse),
		errors.Is(err, service.ErrCannotDeleteSelf):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrMissingToken),
		errors.Is(err, authz.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, authz.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	r.log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}

func badJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}

func parseID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
}
