package service

import (
	"context"
	"errors"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *ProductRequest, actor *model.User) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor *model.User) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor *model.User) error
	GetAllProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	GetProductBySKU(sku string) (*model.Product, error)
	AdjustStock(ctx context.Context, id uuid.UUID, req *StockAdjustmentRequest, actor *model.User) (*model.Product, error)
}

// ProductRequest is the writable part of a product. StockQuantity is only
// honoured on create; afterwards stock moves through orders and adjustments.
type ProductRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	SKU           string          `json:"sku" validate:"required,max=100"`
	Category      string          `json:"category" validate:"max=100"`
	UnitPrice     decimal.Decimal `json:"unit_price" validate:"gte=0"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	MinStockLevel *int            `json:"min_stock_level" validate:"omitempty,gte=0"`
	IsActive      *bool           `json:"is_active"`
}

type StockAdjustmentRequest struct {
	QuantityChange int    `json:"quantity_change" validate:"required"`
	Reason         string `json:"reason" validate:"required,max=255"`
}

const defaultMinStockLevel = 10

type productService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	ledger      repository.TransactionRepository
	audit       AuditService
	events      StockEventPublisher
	log         *zap.Logger
}

func NewProductService(db *gorm.DB, productRepo repository.ProductRepository, ledger repository.TransactionRepository, audit AuditService, events StockEventPublisher, log *zap.Logger) ProductService {
	return &productService{
		db:          db,
		productRepo: productRepo,
		ledger:      ledger,
		audit:       audit,
		events:      events,
		log:         log,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *ProductRequest, actor *model.User) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	minStock, active := defaultMinStockLevel, true
	if req.MinStockLevel != nil {
		minStock = *req.MinStockLevel
	}
	if req.IsActive != nil {
		active = *req.IsActive
	}

	product := &model.Product{
		Name:          req.Name,
		SKU:           req.SKU,
		Category:      req.Category,
		UnitPrice:     req.UnitPrice,
		StockQuantity: req.StockQuantity,
		MinStockLevel: minStock,
		IsActive:      active,
	}
	product.CreatedBy = actor.Username
	product.UpdatedBy = actor.Username

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			return err
		}
		// gorm swaps zero values for the column default on insert
		if req.MinStockLevel != nil || req.IsActive != nil {
			product.MinStockLevel, product.IsActive = minStock, active
			if err := tx.Model(product).Select("min_stock_level", "is_active").Updates(product).Error; err != nil {
				return err
			}
		}
		return s.audit.Record(tx, actor, model.AuditCreate, "product", product.ID, product.String())
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ValidationError{Field: "sku", Message: "product with this sku already exists"}
		}
		return nil, err
	}

	publishStockChanges(ctx, s.productRepo, s.events, s.log, []uuid.UUID{product.ID})
	return s.GetProduct(product.ID)
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor *model.User) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.SKU = req.SKU
	product.Category = req.Category
	product.UnitPrice = req.UnitPrice
	if req.MinStockLevel != nil {
		product.MinStockLevel = *req.MinStockLevel
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	product.UpdatedBy = actor.Username

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Update(tx, product); err != nil {
			return err
		}
		return s.audit.Record(tx, actor, model.AuditUpdate, "product", product.ID, product.String())
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ValidationError{Field: "sku", Message: "product with this sku already exists"}
		}
		return nil, err
	}

	// the threshold may have moved
	publishStockChanges(ctx, s.productRepo, s.events, s.log, []uuid.UUID{id})
	return s.GetProduct(id)
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID, actor *model.User) error {
	product, err := s.GetProduct(id)
	if err != nil {
		return err
	}

	refs, err := s.productRepo.CountReferences(id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Delete(tx, id); err != nil {
			return err
		}
		return s.audit.Record(tx, actor, model.AuditDelete, "product", product.ID, product.String())
	})
}

func (s *productService) GetAllProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(filter)
}

func (s *productService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *productService) GetProductBySKU(sku string) (*model.Product, error) {
	product, err := s.productRepo.FindBySKU(sku)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

// AdjustStock corrects stock outside of orders (counts, damage, returns) and
// records the correction in the ledger as an Adjustment.
func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, req *StockAdjustmentRequest, actor *model.User) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.FindByIDTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		ok, err := s.productRepo.ChangeStock(tx, id, req.QuantityChange, actor.Username)
		if err != nil {
			return err
		}
		if !ok {
			return &ValidationError{Field: "quantity_change", Message: "stock quantity cannot go below zero"}
		}

		if err := s.ledger.Append(tx, &model.InventoryTransaction{
			ProductID:       id,
			TransactionType: model.TxAdjustment,
			QuantityChange:  req.QuantityChange,
			UserID:          actorID(actor),
			Reason:          req.Reason,
		}); err != nil {
			return err
		}

		return s.audit.Record(tx, actor, model.AuditAdjust, "product", id, product.String())
	})
	if err != nil {
		return nil, err
	}

	publishStockChanges(ctx, s.productRepo, s.events, s.log, []uuid.UUID{id})
	return s.GetProduct(id)
}
