package repository

import (
	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseOrderRepository interface {
	Create(tx *gorm.DB, order *model.PurchaseOrder) error
	FindAll() ([]model.PurchaseOrder, error)
	FindByID(id uuid.UUID) (*model.PurchaseOrder, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error)
	TransitionStatus(tx *gorm.DB, id uuid.UUID, from []model.PurchaseOrderStatus, to model.PurchaseOrderStatus, updatedBy string) (bool, error)
	DeleteUnreceived(tx *gorm.DB, id uuid.UUID) (bool, error)
}

type purchaseOrderRepo struct {
	db *gorm.DB
}

func NewPurchaseOrderRepo(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db}
}

// Create inserts the order together with its items
func (r *purchaseOrderRepo) Create(tx *gorm.DB, order *model.PurchaseOrder) error {
	return tx.Create(order).Error
}

func (r *purchaseOrderRepo) FindAll() ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.Preload("Supplier").Preload("Items.Product").
		Order("order_date DESC").Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepo) FindByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := r.db.Preload("Supplier").Preload("Items.Product").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// LockByID loads the order and its items inside tx, locking the order row on Postgres
func (r *purchaseOrderRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := forUpdate(tx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("purchase_order_id = ?", id).Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// TransitionStatus moves the order to `to` only if its current status is one
// of `from`. False means another writer got there first or the move is not allowed.
func (r *purchaseOrderRepo) TransitionStatus(tx *gorm.DB, id uuid.UUID, from []model.PurchaseOrderStatus, to model.PurchaseOrderStatus, updatedBy string) (bool, error) {
	res := tx.Model(&model.PurchaseOrder{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteUnreceived removes an order and its items inside tx unless it has been received
func (r *purchaseOrderRepo) DeleteUnreceived(tx *gorm.DB, id uuid.UUID) (bool, error) {
	var order model.PurchaseOrder
	if err := forUpdate(tx).First(&order, "id = ?", id).Error; err != nil {
		return false, err
	}
	if order.Status == model.POStatusReceived {
		return false, nil
	}
	if err := tx.Where("purchase_order_id = ?", id).Delete(&model.PurchaseOrderItem{}).Error; err != nil {
		return false, err
	}
	if err := tx.Delete(&model.PurchaseOrder{}, "id = ?", id).Error; err != nil {
		return false, err
	}
	return true, nil
}
