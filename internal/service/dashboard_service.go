package service

import (
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
)

type DashboardService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
}

// DashboardStats is the landing page summary
type DashboardStats struct {
	TotalProducts      int64                        `json:"total_products"`
	LowStockCount      int64                        `json:"low_stock_count"`
	TotalValuation     string                       `json:"total_valuation"`
	LowStockItems      []model.Product              `json:"low_stock_items"`
	RecentTransactions []model.InventoryTransaction `json:"recent_transactions"`
}

const recentTransactionsLimit = 5

type dashboardService struct {
	txRepo      repository.TransactionRepository
	productRepo repository.ProductRepository
}

func NewDashboardService(txRepo repository.TransactionRepository, productRepo repository.ProductRepository) DashboardService {
	return &dashboardService{txRepo: txRepo, productRepo: productRepo}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	if days <= 0 {
		days = 7
	}
	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -days)

	return s.txRepo.GetStockMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	stats, err := s.txRepo.GetDashboardStats()
	if err != nil {
		return nil, err
	}
	lowStock, err := s.productRepo.FindAll(repository.ProductFilter{LowStock: true})
	if err != nil {
		return nil, err
	}
	recent, err := s.txRepo.Recent(recentTransactionsLimit)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalProducts:      stats.TotalProducts,
		LowStockCount:      stats.LowStockCount,
		TotalValuation:     stats.TotalValuation.StringFixed(2),
		LowStockItems:      lowStock,
		RecentTransactions: recent,
	}, nil
}
