package models

import (
	"time"
)

// Document status values enforced by the service layer
// (the mariadb DDL carries the matching ENUM).
const (
	DocumentStatusUploaded = "uploaded"
	DocumentStatusReviewed = "reviewed"
	DocumentStatusApproved = "approved"
)

// Document represents one immutable version row of an uploaded tax document.
// A new version is a new row with the same user/type/year and version+1;
// older rows are never mutated. Soft deletion flips IsDeleted only.
type Document struct {
	DocumentID   uint64 `gorm:"primaryKey;autoIncrement"`
	UserID       uint64 `gorm:"not null;index:idx_documents_user_year"`
	DocumentName string `gorm:"size:255;not null"`
	DocumentType string `gorm:"size:50;not null"`
	TaxYear      int    `gorm:"not null;index:idx_documents_user_year"`
	Status       string `gorm:"size:20;not null;default:uploaded"`
	Version      uint64 `gorm:"not null;default:1"`
	IsDeleted    bool   `gorm:"not null;default:false"`
	UploadedAt   time.Time `gorm:"autoCreateTime"`
	Tags         []Tag     `gorm:"many2many:document_tag_map;joinForeignKey:document_id;joinReferences:tag_id"`
}

// Tag is a free-form label attached to documents
type Tag struct {
	TagID   uint64 `gorm:"primaryKey;autoIncrement"`
	TagName string `gorm:"uniqueIndex;size:100;not null"`
}

// TableName overrides the table name for Document
func (Document) TableName() string {
	return "documents"
}

// TableName overrides the table name for Tag
func (Tag) TableName() string {
	return "document_tags"
}

// ValidDocumentStatus reports whether s is an allowed documents.status value
func ValidDocumentStatus(s string) bool {
	switch s {
	case DocumentStatusUploaded, DocumentStatusReviewed, DocumentStatusApproved:
		return true
	}
	return false
}
