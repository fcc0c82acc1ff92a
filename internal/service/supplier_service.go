package service

import (
	"context"
	"errors"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SupplierService interface {
	CreateSupplier(ctx context.Context, req *SupplierRequest, actor *model.User) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req *SupplierRequest, actor *model.User) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID, actor *model.User) error
	GetAllSuppliers() ([]model.Supplier, error)
	GetSupplier(id uuid.UUID) (*model.Supplier, error)
}

type SupplierRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	ContactInfo string `json:"contact_info"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"max=255"`
}

type supplierService struct {
	db    *gorm.DB
	repo  repository.SupplierRepository
	audit AuditService
	log   *zap.Logger
}

func NewSupplierService(db *gorm.DB, repo repository.SupplierRepository, audit AuditService, log *zap.Logger) SupplierService {
	return &supplierService{db: db, repo: repo, audit: audit, log: log}
}

func (s *supplierService) CreateSupplier(ctx context.Context, req *SupplierRequest, actor *model.User) (*model.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	supplier := &model.Supplier{
		Name:        req.Name,
		ContactInfo: req.ContactInfo,
		Email:       req.Email,
		Phone:       req.Phone,
	}
	supplier.CreatedBy = actor.Username
	supplier.UpdatedBy = actor.Username

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(tx, supplier); err != nil {
			return err
		}
		return s.record(tx, actor, model.AuditCreate, supplier)
	})
	if err != nil {
		return nil, duplicateEmail(err)
	}
	return supplier, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id uuid.UUID, req *SupplierRequest, actor *model.User) (*model.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	supplier, err := s.GetSupplier(id)
	if err != nil {
		return nil, err
	}
	supplier.Name = req.Name
	supplier.ContactInfo = req.ContactInfo
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.UpdatedBy = actor.Username

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(tx, supplier); err != nil {
			return err
		}
		return s.record(tx, actor, model.AuditUpdate, supplier)
	})
	if err != nil {
		return nil, duplicateEmail(err)
	}
	return s.GetSupplier(id)
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id uuid.UUID, actor *model.User) error {
	supplier, err := s.GetSupplier(id)
	if err != nil {
		return err
	}

	orders, err := s.repo.CountPurchaseOrders(id)
	if err != nil {
		return err
	}
	if orders > 0 {
		return ErrInUse
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Delete(tx, id); err != nil {
			return err
		}
		return s.record(tx, actor, model.AuditDelete, supplier)
	})
}

func (s *supplierService) GetAllSuppliers() ([]model.Supplier, error) {
	return s.repo.FindAll()
}

func (s *supplierService) GetSupplier(id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSupplierNotFound
	}
	return supplier, err
}

func (s *supplierService) record(tx *gorm.DB, actor *model.User, action model.AuditAction, supplier *model.Supplier) error {
	return s.audit.Record(tx, actor, action, "supplier", supplier.ID, supplier.Name)
}

func duplicateEmail(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return &ValidationError{Field: "email", Message: "supplier with this email already exists"}
	}
	return err
}
