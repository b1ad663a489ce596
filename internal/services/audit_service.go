package services

import (
	"encoding/json"

	"github.com/localnerve/taxtrackdb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Audit action strings written by the service layer. ActionUploaded matches
// the legacy insert trigger verbatim, including for version inserts.
const (
	ActionUploaded = "Uploaded document"
	ActionDeleted  = "Soft-deleted document"
	ActionShared   = "Shared document"
)

// RecordAudit appends one audit_logs row. Intended to run on the caller's
// transaction so the entry commits or rolls back with the action it records.
func RecordAudit(tx *gorm.DB, userID uint64, documentID *uint64, action string, detail interface{}) error {
	entry := models.AuditLog{
		UserID:     userID,
		DocumentID: documentID,
		Action:     action,
	}

	if detail != nil {
		raw, err := json.Marshal(detail)
		if err != nil {
			return err
		}
		entry.Detail = models.NewJSON(raw)
	}

	return tx.Create(&entry).Error
}

// ListAuditLogs returns audit entries, newest first. userID 0 means all users,
// limit 0 means no limit.
func ListAuditLogs(db *gorm.DB, userID uint64, limit int) ([]models.AuditLog, error) {
	query := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Order("log_id DESC")

	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}
