package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditCreate  AuditAction = "create"
	AuditUpdate  AuditAction = "update"
	AuditDelete  AuditAction = "delete"
	AuditReceive AuditAction = "receive"
	AuditAdjust  AuditAction = "adjust"
)

type AuditLog struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key;" json:"id"`
	Timestamp  time.Time   `gorm:"not null;index" json:"timestamp"`
	UserID     *uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	Username   string      `gorm:"type:varchar(150)" json:"username"` // denormalized, kept after user deletion
	Action     AuditAction `gorm:"type:varchar(20);not null" json:"action"`
	EntityType string      `gorm:"type:varchar(50);index" json:"entity_type"`
	EntityID   uuid.UUID   `gorm:"type:uuid;index" json:"entity_id"`
	ObjectRepr string      `gorm:"type:varchar(255)" json:"object_repr"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return
}
