package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseOrderStatus string

const (
	POStatusPending  PurchaseOrderStatus = "Pending"
	POStatusShipped  PurchaseOrderStatus = "Shipped"
	POStatusReceived PurchaseOrderStatus = "Received"
)

// CanTransitionTo enforces the one-way progression Pending -> Shipped -> Received.
// Received is terminal.
func (s PurchaseOrderStatus) CanTransitionTo(next PurchaseOrderStatus) bool {
	switch s {
	case POStatusPending:
		return next == POStatusShipped || next == POStatusReceived
	case POStatusShipped:
		return next == POStatusReceived
	default:
		return false
	}
}

// PurchaseOrder is an order placed with a supplier to replenish stock
type PurchaseOrder struct {
	BaseModel
	SupplierID uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier   *Supplier           `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT" json:"supplier,omitempty"`
	OrderDate  time.Time           `gorm:"not null" json:"order_date"`
	Status     PurchaseOrderStatus `gorm:"type:varchar(10);not null;default:'Pending'" json:"status"`
	Items      []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// PurchaseOrderItem freezes the agreed supplier cost at order time
type PurchaseOrderItem struct {
	BaseModel
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product         *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}
