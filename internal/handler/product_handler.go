package handler

import (
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const qrCodeSize = 256

type ProductHandler struct {
	service service.ProductService
	errorResponder
}

func NewProductHandler(s service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{service: s, errorResponder: errorResponder{log: log}}
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(repository.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		LowStock: c.QueryBool("low_stock"),
	})
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req, middleware.CurrentUser(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, &req, middleware.CurrentUser(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	if err := h.service.DeleteProduct(c.UserContext(), id, middleware.CurrentUser(c)); err != nil {
		return h.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProductHandler) AdjustStock(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	var req service.StockAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	product, err := h.service.AdjustStock(c.UserContext(), id, &req, middleware.CurrentUser(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(product)
}

// GetQRCode renders a PNG QR code that encodes the product SKU
func (h *ProductHandler) GetQRCode(c *fiber.Ctx) error {
	product, err := h.service.GetProductBySKU(c.Params("sku"))
	if err != nil {
		return h.respond(c, err)
	}

	png, err := qrcode.Encode(product.SKU, qrcode.Medium, qrCodeSize)
	if err != nil {
		return h.respond(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
