package handler

import (
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuditHandler struct {
	service service.AuditService
	errorResponder
}

func NewAuditHandler(s service.AuditService, log *zap.Logger) *AuditHandler {
	return &AuditHandler{service: s, errorResponder: errorResponder{log: log}}
}

func (h *AuditHandler) GetAuditLogs(c *fiber.Ctx) error {
	page := repository.Page{Page: c.QueryInt("page", 1), Size: c.QueryInt("page_size", 50)}
	entries, total, err := h.service.List(c.Query("entity_type"), page)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"count": total, "results": entries})
}
