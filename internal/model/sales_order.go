package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SalesOrderStatus string

const (
	SOStatusPending   SalesOrderStatus = "Pending"
	SOStatusFulfilled SalesOrderStatus = "Fulfilled"
	SOStatusCancelled SalesOrderStatus = "Cancelled"
)

type SalesOrder struct {
	BaseModel
	OrderDate    time.Time        `gorm:"not null" json:"order_date"`
	Status       SalesOrderStatus `gorm:"type:varchar(10);not null;default:'Pending'" json:"status"`
	CustomerName string           `gorm:"type:varchar(255)" json:"customer_name"`
	Items        []SalesOrderItem `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// SalesOrderItem keeps the price charged at sale time
type SalesOrderItem struct {
	BaseModel
	SalesOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"sales_order_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product      *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}

// Total is the order value at the snapshot prices
func (o *SalesOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
