package handler

import (
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserHandler struct {
	service service.UserService
	errorResponder
}

func NewUserHandler(s service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{service: s, errorResponder: errorResponder{log: log}}
}

func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers()
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c).ToResponse())
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	user, err := h.service.UpdateProfile(c.UserContext(), middleware.CurrentUser(c), &req)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	var req service.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "select a valid choice", "field": "role"})
	}

	user, err := h.service.ChangeRole(c.UserContext(), id, req.Role, middleware.CurrentUser(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	if err := h.service.DeleteUser(c.UserContext(), id, middleware.CurrentUser(c)); err != nil {
		return h.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
