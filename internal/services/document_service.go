// document_service.go
//
// A scalable, high performance drop-in replacement for the taxtrack mysql data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of taxtrackdb.
// taxtrackdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// taxtrackdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with taxtrackdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"fmt"

	"github.com/localnerve/taxtrackdb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DocumentInput carries the caller-supplied fields for a new document
type DocumentInput struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	TaxYear int    `json:"taxYear"`
	Status  string `json:"status,omitempty"`
}

// DocumentFilter narrows ListDocuments results
type DocumentFilter struct {
	TaxYear        int
	Type           string
	Status         string
	Tag            string
	IncludeDeleted bool
}

// CreateDocument inserts a new document row for the user and runs the
// post-insert hook (the legacy documents insert trigger) on the same
// transaction: the matching tax filing flips to in_progress and one audit
// entry is appended.
func CreateDocument(db *gorm.DB, userID uint64, input DocumentInput) (*models.Document, error) {
	status := input.Status
	if status == "" {
		status = models.DocumentStatusUploaded
	}
	if !models.ValidDocumentStatus(status) {
		return nil, fmt.Errorf("invalid document status: %s", status)
	}
	if input.Name == "" || input.Type == "" || input.TaxYear == 0 {
		return nil, fmt.Errorf("invalid input")
	}

	var doc models.Document

	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			First(&user, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("not found")
			}
			return err
		}

		doc = models.Document{
			UserID:       userID,
			DocumentName: input.Name,
			DocumentType: input.Type,
			TaxYear:      input.TaxYear,
			Status:       status,
			Version:      1,
		}
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}

		return afterDocumentInsert(tx, &doc)
	})

	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// AddDocumentVersion implements the add_document_version routine: insert a new
// document row copying the source row's user/type/year with version = max+1 and
// the supplied name/status. The lineage's newest row is read under a FOR UPDATE
// lock inside the insert transaction so concurrent callers cannot mint the same
// version number. baseVersion, when non-zero, must match the lineage's current
// newest version or the call fails with an E_VERSION error.
func AddDocumentVersion(db *gorm.DB, documentID uint64, newName, newStatus string, baseVersion uint64) (*models.Document, error) {
	if !models.ValidDocumentStatus(newStatus) {
		return nil, fmt.Errorf("invalid document status: %s", newStatus)
	}
	if newName == "" {
		return nil, fmt.Errorf("invalid input")
	}

	var doc models.Document

	err := db.Transaction(func(tx *gorm.DB) error {
		var src models.Document
		if err := lockForUpdate(tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)})).
			First(&src, documentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("not found")
			}
			return err
		}

		// Lock the newest row of the lineage; its version seeds the increment
		var latest models.Document
		if err := lockForUpdate(tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)})).
			Where("user_id = ? AND document_type = ? AND tax_year = ?",
				src.UserID, src.DocumentType, src.TaxYear).
			Order("version DESC").
			First(&latest).Error; err != nil {
			return err
		}

		if baseVersion != 0 && latest.Version != baseVersion {
			return fmt.Errorf("E_VERSION")
		}

		doc = models.Document{
			UserID:       src.UserID,
			DocumentName: newName,
			DocumentType: src.DocumentType,
			TaxYear:      src.TaxYear,
			Status:       newStatus,
			Version:      latest.Version + 1,
		}
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}

		// The legacy trigger fired on every insert, version inserts included
		return afterDocumentInsert(tx, &doc)
	})

	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// lockForUpdate adds a FOR UPDATE row lock where the dialect supports it.
// sqlite serializes writes on the file, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// afterDocumentInsert is the former trg_documents_after_insert body, run
// synchronously on the insert transaction.
func afterDocumentInsert(tx *gorm.DB, doc *models.Document) error {
	if err := ensureFilingProgress(tx, doc.UserID, doc.TaxYear); err != nil {
		return err
	}

	return RecordAudit(tx, doc.UserID, &doc.DocumentID, ActionUploaded, map[string]interface{}{
		"document_name": doc.DocumentName,
		"version":       doc.Version,
	})
}

// ensureFilingProgress sets the (user, year) filing to in_progress, creating
// the row when absent. The legacy trigger silently updated zero rows in that
// case; the create closes the drift.
func ensureFilingProgress(tx *gorm.DB, userID uint64, year int) error {
	result := tx.Model(&models.TaxFiling{}).
		Where("user_id = ? AND filing_year = ?", userID, year).
		Update("status", models.FilingStatusInProgress)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		filing := models.TaxFiling{
			UserID:     userID,
			FilingYear: year,
			Status:     models.FilingStatusInProgress,
		}
		if err := tx.Create(&filing).Error; err != nil {
			return err
		}
	}

	return nil
}

// GetDocument retrieves a single document row with its tags
func GetDocument(db *gorm.DB, documentID uint64) (*models.Document, error) {
	var doc models.Document
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("Tags").
		First(&doc, documentID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("not found")
		}
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns the user's documents, optionally filtered.
// Soft-deleted rows are excluded unless IncludeDeleted is set.
func ListDocuments(db *gorm.DB, userID uint64, filter DocumentFilter) ([]models.Document, error) {
	query := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Model(&models.Document{}).
		Preload("Tags").
		Where("documents.user_id = ?", userID)

	if !filter.IncludeDeleted {
		query = query.Where("documents.is_deleted = ?", false)
	}
	if filter.TaxYear != 0 {
		query = query.Where("documents.tax_year = ?", filter.TaxYear)
	}
	if filter.Type != "" {
		query = query.Where("documents.document_type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("documents.status = ?", filter.Status)
	}
	if filter.Tag != "" {
		query = query.
			Joins("JOIN document_tag_map ON document_tag_map.document_id = documents.document_id").
			Joins("JOIN document_tags ON document_tags.tag_id = document_tag_map.tag_id").
			Where("document_tags.tag_name = ?", filter.Tag)
	}

	var docs []models.Document
	if err := query.Order("documents.document_id").Find(&docs).Error; err != nil {
		return nil, err
	}

	return docs, nil
}

// DocumentVersions returns every version row of the document's lineage,
// oldest first, soft-deleted rows included (they are history).
func DocumentVersions(db *gorm.DB, documentID uint64) ([]models.Document, error) {
	var src models.Document
	if err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		First(&src, documentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("not found")
		}
		return nil, err
	}

	var docs []models.Document
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("user_id = ? AND document_type = ? AND tax_year = ?",
			src.UserID, src.DocumentType, src.TaxYear).
		Order("version").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// SoftDeleteDocument flips is_deleted; the row stays in place. The owning
// user must match for the delete to apply.
func SoftDeleteDocument(db *gorm.DB, documentID, userID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Document{}).
			Where("document_id = ? AND user_id = ? AND is_deleted = ?", documentID, userID, false).
			Update("is_deleted", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("not found")
		}

		return RecordAudit(tx, userID, &documentID, ActionDeleted, nil)
	})
}
