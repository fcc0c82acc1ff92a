package repository

import (
	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(tx *gorm.DB, supplier *model.Supplier) error
	FindAll() ([]model.Supplier, error)
	FindByID(id uuid.UUID) (*model.Supplier, error)
	Update(tx *gorm.DB, supplier *model.Supplier) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	CountPurchaseOrders(id uuid.UUID) (int64, error)
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(tx *gorm.DB, supplier *model.Supplier) error {
	return translate(r.conn(tx).Create(supplier).Error)
}

func (r *supplierRepo) FindAll() ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) Update(tx *gorm.DB, supplier *model.Supplier) error {
	return translate(r.conn(tx).Model(supplier).
		Select("name", "contact_info", "email", "phone", "updated_by").
		Updates(supplier).Error)
}

func (r *supplierRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return r.conn(tx).Delete(&model.Supplier{}, "id = ?", id).Error
}

func (r *supplierRepo) CountPurchaseOrders(id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.Model(&model.PurchaseOrder{}).Where("supplier_id = ?", id).Count(&n).Error
	return n, err
}

func (r *supplierRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return r.db
	}
	return tx
}
