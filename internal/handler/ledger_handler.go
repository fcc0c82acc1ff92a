package handler

import (
	"bytes"
	"fmt"
	"time"

	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type LedgerHandler struct {
	service service.LedgerService
	errorResponder
}

func NewLedgerHandler(s service.LedgerService, log *zap.Logger) *LedgerHandler {
	return &LedgerHandler{service: s, errorResponder: errorResponder{log: log}}
}

func ledgerQuery(c *fiber.Ctx) service.LedgerQuery {
	return service.LedgerQuery{
		TransactionType: c.Query("transaction_type"),
		From:            c.Query("timestamp__gte"),
		To:              c.Query("timestamp__lte"),
		ProductID:       c.Query("product_id"),
		Page:            c.QueryInt("page", 1),
		PageSize:        c.QueryInt("page_size", 0),
	}
}

// GetTransactions lists the ledger, newest first.
// Query params: transaction_type, timestamp__gte, timestamp__lte, product_id, page, page_size
func (h *LedgerHandler) GetTransactions(c *fiber.Ctx) error {
	page, err := h.service.List(ledgerQuery(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(page)
}

func (h *LedgerHandler) GetTransaction(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badID(c)
	}
	entry, err := h.service.Get(id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(entry)
}

func (h *LedgerHandler) ExportTransactions(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.Export(ledgerQuery(c), &buf); err != nil {
		return h.respond(c, err)
	}

	filename := fmt.Sprintf("transactions-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Attachment(filename)
	return c.Send(buf.Bytes())
}
