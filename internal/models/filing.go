package models

import (
	"time"
)

// Tax filing status values
const (
	FilingStatusNotStarted = "not_started"
	FilingStatusInProgress = "in_progress"
	FilingStatusFiled      = "filed"
)

// TaxFiling is the per-user, per-year filing record. One row per
// (user_id, filing_year); document inserts flip Status to in_progress.
type TaxFiling struct {
	FilingID   uint64 `gorm:"primaryKey;autoIncrement"`
	UserID     uint64 `gorm:"not null;index:idx_filings_user_year,unique"`
	FilingYear int    `gorm:"not null;index:idx_filings_user_year,unique"`
	Status     string `gorm:"size:20;not null;default:not_started"`
	IsDeleted  bool   `gorm:"not null;default:false"`
	UpdatedAt  time.Time
}

// TableName overrides the table name for TaxFiling
func (TaxFiling) TableName() string {
	return "tax_filings"
}

// ValidFilingStatus reports whether s is an allowed tax_filings.status value
func ValidFilingStatus(s string) bool {
	switch s {
	case FilingStatusNotStarted, FilingStatusInProgress, FilingStatusFiled:
		return true
	}
	return false
}
