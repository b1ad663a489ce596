package models

import (
	"time"
)

// Share permission values
const (
	SharePermissionView = "view"
	SharePermissionEdit = "edit"
)

// SharedDocument grants another user view or edit permission on a document.
// One row per (document, shared-with user); re-sharing updates Permission.
type SharedDocument struct {
	ShareID      uint64 `gorm:"primaryKey;autoIncrement"`
	DocumentID   uint64 `gorm:"not null;index:idx_shares_doc_user,unique"`
	OwnerID      uint64 `gorm:"not null"`
	SharedWithID uint64 `gorm:"not null;index:idx_shares_doc_user,unique;index"`
	Permission   string `gorm:"size:10;not null;default:view"`
	SharedAt     time.Time `gorm:"autoCreateTime"`
	Document     Document  `gorm:"foreignKey:DocumentID;references:DocumentID"`
}

// TableName overrides the table name for SharedDocument
func (SharedDocument) TableName() string {
	return "shared_documents"
}

// ValidSharePermission reports whether s is an allowed permission value
func ValidSharePermission(s string) bool {
	return s == SharePermissionView || s == SharePermissionEdit
}
