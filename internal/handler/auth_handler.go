package handler

import (
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service service.AuthService
	errorResponder
}

func NewAuthHandler(s service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, errorResponder: errorResponder{log: log}}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	user, err := h.service.Register(&req)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user.ToResponse())
}

// Login exchanges username and password for an access and refresh token
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	resp, err := h.service.Login(&req)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	pair, err := h.service.Refresh(req.Refresh)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(pair)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req service.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	if err := h.service.ChangePassword(middleware.CurrentUser(c), &req); err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}
