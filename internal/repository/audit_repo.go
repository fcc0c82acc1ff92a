package repository

import (
	"go-inventory-api/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(tx *gorm.DB, entry *model.AuditLog) error
	List(entityType string, page Page) ([]model.AuditLog, int64, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db}
}

// Create writes an entry with tx, or with the repository connection when tx is nil
func (r *auditRepo) Create(tx *gorm.DB, entry *model.AuditLog) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(entry).Error
}

func (r *auditRepo) List(entityType string, page Page) ([]model.AuditLog, int64, error) {
	q := r.db.Model(&model.AuditLog{})
	if entityType != "" {
		q = q.Where("entity_type = ?", entityType)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.AuditLog
	err := page.apply(q).Order(`"timestamp" DESC`).Find(&entries).Error
	return entries, total, err
}
