package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderService interface {
	CreatePurchaseOrder(ctx context.Context, req *CreatePurchaseOrderRequest, actor *model.User) (*model.PurchaseOrder, error)
	ListPurchaseOrders() ([]model.PurchaseOrder, error)
	GetPurchaseOrder(id uuid.UUID) (*model.PurchaseOrder, error)
	UpdatePurchaseOrderStatus(ctx context.Context, id uuid.UUID, status model.PurchaseOrderStatus, actor *model.User) (*model.PurchaseOrder, error)
	DeletePurchaseOrder(ctx context.Context, id uuid.UUID, actor *model.User) error
	ReceivePurchaseOrder(ctx context.Context, id uuid.UUID, actor *model.User) (*model.PurchaseOrder, error)

	CreateSalesOrder(ctx context.Context, req *CreateSalesOrderRequest, actor *model.User) (*model.SalesOrder, error)
	ListSalesOrders() ([]model.SalesOrder, error)
	GetSalesOrder(id uuid.UUID) (*model.SalesOrder, error)
}

type OrderItemRequest struct {
	ProductID uuid.UUID       `json:"product" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID uuid.UUID                 `json:"supplier" validate:"uuid_required"`
	Status     model.PurchaseOrderStatus `json:"status" validate:"omitempty,oneof=Pending Shipped"`
	Items      []OrderItemRequest        `json:"items" validate:"required,min=1,dive"`
}

type CreateSalesOrderRequest struct {
	CustomerName string                 `json:"customer_name" validate:"max=255"`
	Status       model.SalesOrderStatus `json:"status" validate:"omitempty,oneof=Pending Fulfilled Cancelled"`
	Items        []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
}

type orderService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	poRepo      repository.PurchaseOrderRepository
	soRepo      repository.SalesOrderRepository
	supplierRep repository.SupplierRepository
	ledger      repository.TransactionRepository
	audit       AuditService
	events      StockEventPublisher
	log         *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	poRepo repository.PurchaseOrderRepository,
	soRepo repository.SalesOrderRepository,
	supplierRepo repository.SupplierRepository,
	ledger repository.TransactionRepository,
	audit AuditService,
	events StockEventPublisher,
	log *zap.Logger,
) OrderService {
	return &orderService{
		db:          db,
		productRepo: productRepo,
		poRepo:      poRepo,
		soRepo:      soRepo,
		supplierRep: supplierRepo,
		ledger:      ledger,
		audit:       audit,
		events:      events,
		log:         log,
	}
}

func (s *orderService) CreatePurchaseOrder(ctx context.Context, req *CreatePurchaseOrderRequest, actor *model.User) (*model.PurchaseOrder, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = model.POStatusPending
	}

	if _, err := s.supplierRep.FindByID(req.SupplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Field: "supplier", Message: ErrSupplierNotFound.Error()}
		}
		return nil, err
	}

	order := &model.PurchaseOrder{
		SupplierID: req.SupplierID,
		OrderDate:  time.Now().UTC(),
		Status:     req.Status,
	}
	order.CreatedBy = actor.Username
	order.UpdatedBy = actor.Username

	for i, item := range req.Items {
		if _, err := s.productRepo.FindByID(item.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ValidationError{Field: fmt.Sprintf("items[%d].product", i), Message: ErrProductNotFound.Error()}
			}
			return nil, err
		}
		line := model.PurchaseOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		line.CreatedBy = actor.Username
		line.UpdatedBy = actor.Username
		order.Items = append(order.Items, line)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.poRepo.Create(tx, order); err != nil {
			return err
		}
		return s.audit.Record(tx, actor, model.AuditCreate, "purchase_order", order.ID, purchaseOrderRef(order.ID))
	})
	if err != nil {
		return nil, err
	}

	return s.GetPurchaseOrder(order.ID)
}

func (s *orderService) ListPurchaseOrders() ([]model.PurchaseOrder, error) {
	return s.poRepo.FindAll()
}

func (s *orderService) GetPurchaseOrder(id uuid.UUID) (*model.PurchaseOrder, error) {
	order, err := s.poRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPurchaseOrderNotFound
	}
	return order, err
}

// UpdatePurchaseOrderStatus only marks a pending order as shipped. Receiving
// goes through ReceivePurchaseOrder so stock and ledger move with it.
func (s *orderService) UpdatePurchaseOrderStatus(ctx context.Context, id uuid.UUID, status model.PurchaseOrderStatus, actor *model.User) (*model.PurchaseOrder, error) {
	if status != model.POStatusShipped {
		return nil, ErrInvalidStatusTransition
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.poRepo.LockByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseOrderNotFound
			}
			return err
		}
		if !order.Status.CanTransitionTo(status) {
			return ErrInvalidStatusTransition
		}

		ok, err := s.poRepo.TransitionStatus(tx, id, []model.PurchaseOrderStatus{model.POStatusPending}, status, actor.Username)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidStatusTransition
		}
		return s.audit.Record(tx, actor, model.AuditUpdate, "purchase_order", id, purchaseOrderRef(id)+" -> "+string(status))
	})
	if err != nil {
		return nil, err
	}

	return s.GetPurchaseOrder(id)
}

func (s *orderService) DeletePurchaseOrder(ctx context.Context, id uuid.UUID, actor *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.poRepo.DeleteUnreceived(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseOrderNotFound
			}
			return err
		}
		if !deleted {
			return ErrOrderReceived
		}
		return s.audit.Record(tx, actor, model.AuditDelete, "purchase_order", id, purchaseOrderRef(id))
	})
}

// ReceivePurchaseOrder books every line of the order into stock and marks it
// Received, all in one transaction. A second receive, including a concurrent
// one, fails with ErrAlreadyReceived and changes nothing.
func (s *orderService) ReceivePurchaseOrder(ctx context.Context, id uuid.UUID, actor *model.User) (*model.PurchaseOrder, error) {
	var touched []uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.poRepo.LockByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseOrderNotFound
			}
			return err
		}
		if order.Status == model.POStatusReceived {
			return ErrAlreadyReceived
		}

		claimed, err := s.poRepo.TransitionStatus(tx, id,
			[]model.PurchaseOrderStatus{model.POStatusPending, model.POStatusShipped},
			model.POStatusReceived, actor.Username)
		if err != nil {
			return err
		}
		if !claimed {
			return ErrAlreadyReceived
		}

		reason := "Received from " + purchaseOrderRef(id)
		for _, item := range order.Items {
			ok, err := s.productRepo.ChangeStock(tx, item.ProductID, item.Quantity, actor.Username)
			if err != nil {
				return err
			}
			if !ok {
				return ErrProductNotFound
			}
			if err := s.ledger.Append(tx, &model.InventoryTransaction{
				ProductID:       item.ProductID,
				TransactionType: model.TxPurchase,
				QuantityChange:  item.Quantity,
				UserID:          actorID(actor),
				Reason:          reason,
			}); err != nil {
				return err
			}
			touched = append(touched, item.ProductID)
		}

		return s.audit.Record(tx, actor, model.AuditReceive, "purchase_order", id, purchaseOrderRef(id))
	})
	if err != nil {
		return nil, err
	}

	s.afterStockChange(ctx, touched)
	return s.GetPurchaseOrder(id)
}

// CreateSalesOrder takes stock for every line. If any line cannot be covered
// the whole order is rolled back.
func (s *orderService) CreateSalesOrder(ctx context.Context, req *CreateSalesOrderRequest, actor *model.User) (*model.SalesOrder, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = model.SOStatusPending
	}

	order := &model.SalesOrder{
		OrderDate:    time.Now().UTC(),
		Status:       req.Status,
		CustomerName: req.CustomerName,
	}
	order.CreatedBy = actor.Username
	order.UpdatedBy = actor.Username

	var touched []uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.soRepo.Create(tx, order); err != nil {
			return err
		}

		reason := "Sold in " + salesOrderRef(order.ID)
		for _, item := range req.Items {
			product, err := s.productRepo.FindByIDTx(tx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}

			ok, err := s.productRepo.ChangeStock(tx, product.ID, -item.Quantity, actor.Username)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientStockError{ProductName: product.Name, Requested: item.Quantity}
			}

			line := &model.SalesOrderItem{
				SalesOrderID: order.ID,
				ProductID:    product.ID,
				Quantity:     item.Quantity,
				UnitPrice:    item.UnitPrice,
			}
			line.CreatedBy = actor.Username
			line.UpdatedBy = actor.Username
			if err := s.soRepo.CreateItem(tx, line); err != nil {
				return err
			}

			if err := s.ledger.Append(tx, &model.InventoryTransaction{
				ProductID:       product.ID,
				TransactionType: model.TxSale,
				QuantityChange:  -item.Quantity,
				UserID:          actorID(actor),
				Reason:          reason,
			}); err != nil {
				return err
			}
			touched = append(touched, product.ID)
		}

		return s.audit.Record(tx, actor, model.AuditCreate, "sales_order", order.ID, salesOrderRef(order.ID))
	})
	if err != nil {
		return nil, err
	}

	s.afterStockChange(ctx, touched)
	return s.GetSalesOrder(order.ID)
}

func (s *orderService) ListSalesOrders() ([]model.SalesOrder, error) {
	return s.soRepo.FindAll()
}

func (s *orderService) GetSalesOrder(id uuid.UUID) (*model.SalesOrder, error) {
	order, err := s.soRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSalesOrderNotFound
	}
	return order, err
}

// afterStockChange runs the post-commit hooks once per saved line, duplicates included
func (s *orderService) afterStockChange(ctx context.Context, productIDs []uuid.UUID) {
	publishStockChanges(ctx, s.productRepo, s.events, s.log, productIDs)
}

func publishStockChanges(ctx context.Context, repo repository.ProductRepository, events StockEventPublisher, log *zap.Logger, productIDs []uuid.UUID) {
	if events == nil {
		return
	}
	for _, id := range productIDs {
		product, err := repo.FindByID(id)
		if err != nil {
			log.Error("reload product after stock change", zap.String("product_id", id.String()), zap.Error(err))
			continue
		}
		events.ProductSaved(ctx, product)
	}
}

func actorID(actor *model.User) *uuid.UUID {
	if actor == nil {
		return nil
	}
	id := actor.ID
	return &id
}

func purchaseOrderRef(id uuid.UUID) string {
	return "PO-" + id.String()
}

func salesOrderRef(id uuid.UUID) string {
	return "SO-" + id.String()
}
