package service

import (
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditService interface {
	Record(tx *gorm.DB, actor *model.User, action model.AuditAction, entityType string, entityID uuid.UUID, repr string) error
	List(entityType string, page repository.Page) ([]model.AuditLog, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// Record writes an audit entry. Pass the surrounding tx so the entry commits or rolls back with the change.
func (s *auditService) Record(tx *gorm.DB, actor *model.User, action model.AuditAction, entityType string, entityID uuid.UUID, repr string) error {
	entry := &model.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ObjectRepr: truncate(repr, 255),
	}
	if actor != nil {
		id := actor.ID
		entry.UserID = &id
		entry.Username = actor.Username
	}
	return s.repo.Create(tx, entry)
}

func (s *auditService) List(entityType string, page repository.Page) ([]model.AuditLog, int64, error) {
	return s.repo.List(entityType, page)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
