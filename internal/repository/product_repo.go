package repository

import (
	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductFilter struct {
	Search   string
	Category string
	LowStock bool
}

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Update(tx *gorm.DB, product *model.Product) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	CountReferences(id uuid.UUID) (int64, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	ChangeStock(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// Create inserts with tx, or with the repository connection when tx is nil
func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	if tx == nil {
		tx = r.db
	}
	return translate(tx.Create(product).Error)
}

func (r *productRepo) FindAll(filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Model(&model.Product{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name LIKE ? OR sku LIKE ?", like, like)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.LowStock {
		q = q.Where("stock_quantity <= min_stock_level")
	}
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update saves catalog fields. Stock is owned by the order workflow and is never written here.
func (r *productRepo) Update(tx *gorm.DB, product *model.Product) error {
	if tx == nil {
		tx = r.db
	}
	return translate(tx.Model(product).
		Select("name", "sku", "category", "unit_price", "min_stock_level", "is_active", "updated_by").
		Updates(product).Error)
}

func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}

// CountReferences counts order lines and ledger entries pointing at a product
func (r *productRepo) CountReferences(id uuid.UUID) (int64, error) {
	var total int64
	for _, m := range []interface{}{&model.PurchaseOrderItem{}, &model.SalesOrderItem{}, &model.InventoryTransaction{}} {
		var n int64
		if err := r.db.Model(m).Where("product_id = ?", id).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// FindByIDTx loads a product inside tx, holding a row lock on Postgres
func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := forUpdate(tx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ChangeStock applies a signed delta as a single conditional UPDATE. It
// returns false, and changes nothing, when the result would go below zero.
func (r *productRepo) ChangeStock(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock_quantity + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", delta),
			"updated_by":     updatedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
