package repository

import (
	"time"

	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Append(tx *gorm.DB, entry *model.InventoryTransaction) error
	List(filter TransactionFilter, page Page) ([]model.InventoryTransaction, int64, error)
	FindByID(id uuid.UUID) (*model.InventoryTransaction, error)
	Recent(limit int) ([]model.InventoryTransaction, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
}

// TransactionFilter narrows a ledger read. Zero fields are ignored; time
// bounds are inclusive.
type TransactionFilter struct {
	Type      model.TransactionType
	ProductID uuid.UUID
	From      *time.Time
	To        *time.Time
}

// StockMovementData is one day of the stock movement chart
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// Append writes a ledger entry. It must run inside the transaction that changed the stock.
func (r *transactionRepo) Append(tx *gorm.DB, entry *model.InventoryTransaction) error {
	return tx.Omit("Product", "User").Create(entry).Error
}

func (r *transactionRepo) List(filter TransactionFilter, page Page) ([]model.InventoryTransaction, int64, error) {
	q := r.db.Model(&model.InventoryTransaction{})
	if filter.Type != "" {
		q = q.Where("transaction_type = ?", filter.Type)
	}
	if filter.ProductID != uuid.Nil {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.From != nil {
		q = q.Where(`"timestamp" >= ?`, filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where(`"timestamp" <= ?`, filter.To.UTC())
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.InventoryTransaction
	err := page.apply(q.Preload("Product").Preload("User")).
		Order(`"timestamp" DESC`).Find(&entries).Error
	return entries, total, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.InventoryTransaction, error) {
	var entry model.InventoryTransaction
	if err := r.db.Preload("Product").Preload("User").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *transactionRepo) Recent(limit int) ([]model.InventoryTransaction, error) {
	var entries []model.InventoryTransaction
	err := r.db.Preload("Product").Preload("User").
		Order(`"timestamp" DESC`).Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *transactionRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	day := `DATE("timestamp")`
	if r.db.Dialector.Name() == "postgres" {
		day = `TO_CHAR("timestamp", 'YYYY-MM-DD')`
	}

	rows, err := r.db.Model(&model.InventoryTransaction{}).
		Select(day+` AS date,
			COALESCE(SUM(CASE WHEN quantity_change > 0 THEN quantity_change ELSE 0 END), 0) AS inbound,
			COALESCE(SUM(CASE WHEN quantity_change < 0 THEN -quantity_change ELSE 0 END), 0) AS outbound`).
		Where(`"timestamp" BETWEEN ? AND ?`, startDate.UTC(), endDate.UTC()).
		Group(day).
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []StockMovementData{}
	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *transactionRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).
		Where("stock_quantity <= min_stock_level").
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	var valuation decimal.NullDecimal
	if err := r.db.Model(&model.Product{}).
		Select("SUM(stock_quantity * unit_price)").
		Row().Scan(&valuation); err != nil {
		return nil, err
	}
	stats.TotalValuation = valuation.Decimal

	return &stats, nil
}
