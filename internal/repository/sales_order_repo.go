package repository

import (
	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalesOrderRepository interface {
	Create(tx *gorm.DB, order *model.SalesOrder) error
	CreateItem(tx *gorm.DB, item *model.SalesOrderItem) error
	FindAll() ([]model.SalesOrder, error)
	FindByID(id uuid.UUID) (*model.SalesOrder, error)
}

type salesOrderRepo struct {
	db *gorm.DB
}

func NewSalesOrderRepo(db *gorm.DB) SalesOrderRepository {
	return &salesOrderRepo{db}
}

// Create inserts the order header only. Items are added one by one with
// CreateItem after their stock has been taken.
func (r *salesOrderRepo) Create(tx *gorm.DB, order *model.SalesOrder) error {
	return tx.Omit("Items").Create(order).Error
}

func (r *salesOrderRepo) CreateItem(tx *gorm.DB, item *model.SalesOrderItem) error {
	return tx.Omit("Product").Create(item).Error
}

func (r *salesOrderRepo) FindAll() ([]model.SalesOrder, error) {
	var orders []model.SalesOrder
	err := r.db.Preload("Items.Product").Order("order_date DESC").Find(&orders).Error
	return orders, err
}

func (r *salesOrderRepo) FindByID(id uuid.UUID) (*model.SalesOrder, error) {
	var order model.SalesOrder
	if err := r.db.Preload("Items.Product").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
