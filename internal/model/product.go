package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	SKU           string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Category      string          `gorm:"type:varchar(100)" json:"category"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`
	StockQuantity int             `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	MinStockLevel int             `gorm:"not null;default:10" json:"min_stock_level"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
}

// IsLowStock is the reorder trigger: stock at or below the minimum level
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

func (p *Product) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.SKU)
}
