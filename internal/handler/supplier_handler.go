package handler

import (
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SupplierHandler struct {
	service service.SupplierService
	errorResponder
}

func NewSupplierHandler(s service.SupplierService, log *zap.Logger) *SupplierHandler {
	return &SupplierHandler{service: s, errorResponder: errorResponder{log: log}}
}

func (h *SupplierHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.GetAllSuppliers()
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(suppliers)
}

func (h *SupplierHandler) GetSupplier(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	supplier, err := h.service.GetSupplier(id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(supplier)
}

func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.SupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	supplier, err := h.service.CreateSupplier(c.UserContext(), &req, middleware.CurrentUser(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(supplier)
}

func (h *SupplierHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	var req service.SupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	supplier, err := h.service.UpdateSupplier(c.UserContext(), id, &req, middleware.CurrentUser(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(supplier)
}

func (h *SupplierHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	if err := h.service.DeleteSupplier(c.UserContext(), id, middleware.CurrentUser(c)); err != nil {
		return h.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
