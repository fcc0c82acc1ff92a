package service

import (
	"context"
	"fmt"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/mailer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Broadcaster pushes JSON messages to connected websocket clients
type Broadcaster interface {
	BroadcastJSON(v interface{})
	SendJSONToUsers(userIDs []uuid.UUID, v interface{})
}

// StockEventPublisher is told about every product whose stock changed, after
// the change has committed.
type StockEventPublisher interface {
	ProductSaved(ctx context.Context, product *model.Product)
}

type notifier struct {
	userRepo repository.UserRepository
	mailer   mailer.Mailer
	hub      Broadcaster
	log      *zap.Logger
}

func NewNotifier(userRepo repository.UserRepository, m mailer.Mailer, hub Broadcaster, log *zap.Logger) StockEventPublisher {
	return &notifier{
		userRepo: userRepo,
		mailer:   m,
		hub:      hub,
		log:      log,
	}
}

// ProductSaved broadcasts the new stock level and, when the product is at or
// below its minimum, alerts every Admin and Manager with an e-mail address.
// Every call at low stock sends again.
func (n *notifier) ProductSaved(ctx context.Context, product *model.Product) {
	n.hub.BroadcastJSON(map[string]interface{}{
		"type": "stock_update",
		"product": map[string]interface{}{
			"id":             product.ID,
			"sku":            product.SKU,
			"name":           product.Name,
			"stock_quantity": product.StockQuantity,
		},
	})

	if !product.IsLowStock() {
		return
	}

	recipients, err := n.userRepo.FindByRoles(model.RoleAdmin, model.RoleManager)
	if err != nil {
		n.log.Error("low stock: load recipients", zap.Error(err))
		return
	}
	if len(recipients) == 0 {
		return
	}

	emails := make([]string, 0, len(recipients))
	ids := make([]uuid.UUID, 0, len(recipients))
	for _, u := range recipients {
		emails = append(emails, u.Email)
		ids = append(ids, u.ID)
	}

	msg := mailer.Message{
		To:      emails,
		Subject: fmt.Sprintf("Low Stock Alert: %s", product.Name),
		Body: fmt.Sprintf(
			"The stock for product '%s' (SKU: %s) is low.\nCurrent quantity: %d\nMinimum stock level: %d",
			product.Name, product.SKU, product.StockQuantity, product.MinStockLevel,
		),
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.log.Error("low stock: send mail",
			zap.String("sku", product.SKU),
			zap.Error(err))
	}

	n.hub.SendJSONToUsers(ids, map[string]interface{}{
		"type":            "low_stock",
		"product_id":      product.ID,
		"sku":             product.SKU,
		"name":            product.Name,
		"stock_quantity":  product.StockQuantity,
		"min_stock_level": product.MinStockLevel,
	})
}
