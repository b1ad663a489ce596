package services

import (
	"fmt"

	"github.com/localnerve/taxtrackdb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// FilingSummaryRow mirrors one row of the legacy filing_summary view:
// non-deleted documents grouped by (user, year), partitioned by status.
type FilingSummaryRow struct {
	UserID         uint64 `json:"userId"`
	FilingYear     int    `json:"filingYear"`
	TotalDocuments int64  `json:"totalDocuments"`
	PendingReview  int64  `json:"pendingReview"`
	ReviewedDocs   int64  `json:"reviewedDocs"`
	ApprovedDocs   int64  `json:"approvedDocs"`
}

// FilingSummary recomputes the filing_summary projection on each call.
// userID 0 means all users, year 0 means all years.
func FilingSummary(db *gorm.DB, userID uint64, year int) ([]FilingSummaryRow, error) {
	query := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Model(&models.Document{}).
		Select(`user_id,
			tax_year AS filing_year,
			COUNT(*) AS total_documents,
			SUM(CASE WHEN status = 'uploaded' THEN 1 ELSE 0 END) AS pending_review,
			SUM(CASE WHEN status = 'reviewed' THEN 1 ELSE 0 END) AS reviewed_docs,
			SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END) AS approved_docs`).
		Where("is_deleted = ?", false).
		Group("user_id").Group("tax_year").
		Order("user_id").Order("tax_year")

	// USE INDEX is mysql/mariadb syntax only
	if db.Dialector.Name() == "mysql" {
		query = query.Clauses(hints.UseIndex("idx_documents_user_year"))
	}

	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if year != 0 {
		query = query.Where("tax_year = ?", year)
	}

	var rows []FilingSummaryRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// ListFilings returns the user's filings, excluding soft-deleted rows unless
// includeDeleted is set.
func ListFilings(db *gorm.DB, userID uint64, includeDeleted bool) ([]models.TaxFiling, error) {
	query := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("user_id = ?", userID)
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var filings []models.TaxFiling
	if err := query.Order("filing_year").Find(&filings).Error; err != nil {
		return nil, err
	}

	return filings, nil
}

// GetFiling retrieves the (user, year) filing row
func GetFiling(db *gorm.DB, userID uint64, year int) (*models.TaxFiling, error) {
	var filing models.TaxFiling
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("user_id = ? AND filing_year = ?", userID, year).
		First(&filing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("not found")
		}
		return nil, err
	}
	return &filing, nil
}

// SetFilingStatus updates the (user, year) filing status, creating the row
// when absent. Status is validated against the filing enum.
func SetFilingStatus(db *gorm.DB, userID uint64, year int, status string) (*models.TaxFiling, error) {
	if !models.ValidFilingStatus(status) {
		return nil, fmt.Errorf("invalid filing status: %s", status)
	}

	var filing models.TaxFiling

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("user_id = ? AND filing_year = ?", userID, year).
			First(&filing).Error
		if err == gorm.ErrRecordNotFound {
			filing = models.TaxFiling{UserID: userID, FilingYear: year, Status: status}
			return tx.Create(&filing).Error
		}
		if err != nil {
			return err
		}

		filing.Status = status
		return tx.Model(&filing).Update("status", status).Error
	})

	if err != nil {
		return nil, err
	}

	return &filing, nil
}

// SoftDeleteFiling flips is_deleted on the (user, year) filing row
func SoftDeleteFiling(db *gorm.DB, userID uint64, year int) error {
	result := db.Model(&models.TaxFiling{}).
		Where("user_id = ? AND filing_year = ? AND is_deleted = ?", userID, year, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}
