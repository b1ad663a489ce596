package models

import (
	"time"
)

// AuditLog is an append-only action record tied to a user and optionally
// a document. Rows are never updated or deleted.
type AuditLog struct {
	LogID      uint64  `gorm:"primaryKey;autoIncrement"`
	UserID     uint64  `gorm:"not null;index"`
	DocumentID *uint64 `gorm:"index"`
	Action     string  `gorm:"size:255;not null"`
	Detail     JSON    `gorm:"type:json"`
	LoggedAt   time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
