package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TxPurchase   TransactionType = "Purchase"
	TxSale       TransactionType = "Sale"
	TxAdjustment TransactionType = "Adjustment"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxPurchase, TxSale, TxAdjustment:
		return true
	}
	return false
}

// InventoryTransaction is one immutable stock movement. QuantityChange is
// positive for stock in and negative for stock out.
type InventoryTransaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product         *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	TransactionType TransactionType `gorm:"type:varchar(10);not null;index" json:"transaction_type"`
	QuantityChange  int             `gorm:"not null" json:"quantity_change"`
	Timestamp       time.Time       `gorm:"not null;index;<-:create" json:"timestamp"`
	UserID          *uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	User            *User           `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Reason          string          `gorm:"type:varchar(255)" json:"reason"`
}

func (t *InventoryTransaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	return
}
