package handler

import (
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service service.OrderService
	errorResponder
}

func NewOrderHandler(s service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{service: s, errorResponder: errorResponder{log: log}}
}

func (h *OrderHandler) GetPurchaseOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListPurchaseOrders()
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) GetPurchaseOrder(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	order, err := h.service.GetPurchaseOrder(id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) CreatePurchaseOrder(c *fiber.Ctx) error {
	var req service.CreatePurchaseOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	order, err := h.service.CreatePurchaseOrder(c.UserContext(), &req, middleware.CurrentUser(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// UpdatePurchaseOrderStatus accepts {"status": "Shipped"}
func (h *OrderHandler) UpdatePurchaseOrderStatus(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	var req struct {
		Status model.PurchaseOrderStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	order, err := h.service.UpdatePurchaseOrderStatus(c.UserContext(), id, req.Status, middleware.CurrentUser(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) DeletePurchaseOrder(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	if err := h.service.DeletePurchaseOrder(c.UserContext(), id, middleware.CurrentUser(c)); err != nil {
		return h.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrderHandler) ReceivePurchaseOrder(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	order, err := h.service.ReceivePurchaseOrder(c.UserContext(), id, middleware.CurrentUser(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"status": "Order received and stock updated.", "order": order})
}

func (h *OrderHandler) GetSalesOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListSalesOrders()
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) GetSalesOrder(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	order, err := h.service.GetSalesOrder(id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) CreateSalesOrder(c *fiber.Ctx) error {
	var req service.CreateSalesOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	order, err := h.service.CreateSalesOrder(c.UserContext(), &req, middleware.CurrentUser(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}
