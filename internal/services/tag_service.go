package services

import (
	"fmt"

	"github.com/localnerve/taxtrackdb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TagDocument attaches the named tags to a document, creating tag rows as
// needed. Existing associations are left alone.
func TagDocument(db *gorm.DB, documentID, userID uint64, tagNames []string) error {
	if len(tagNames) == 0 {
		return fmt.Errorf("invalid input")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("document_id = ? AND user_id = ?", documentID, userID).
			First(&doc).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("not found")
			}
			return err
		}

		for _, name := range tagNames {
			if name == "" {
				continue
			}

			var tag models.Tag
			if err := tx.Where("tag_name = ?", name).
				FirstOrCreate(&tag, models.Tag{TagName: name}).Error; err != nil {
				return err
			}

			var count int64
			if err := tx.Table("document_tag_map").
				Where("document_id = ? AND tag_id = ?", doc.DocumentID, tag.TagID).
				Count(&count).Error; err != nil {
				return err
			}

			if count == 0 {
				if err := tx.Model(&doc).Association("Tags").Append(&tag); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// UntagDocument removes the association between a document and a tag.
// The tag row itself is retained; tags are shared across documents.
func UntagDocument(db *gorm.DB, documentID, userID uint64, tagName string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("document_id = ? AND user_id = ?", documentID, userID).
			First(&doc).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("not found")
			}
			return err
		}

		var tag models.Tag
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("tag_name = ?", tagName).
			First(&tag).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("not found")
			}
			return err
		}

		return tx.Model(&doc).Association("Tags").Delete(&tag)
	})
}

// ListTags returns all known tags
func ListTags(db *gorm.DB) ([]models.Tag, error) {
	var tags []models.Tag
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Order("tag_name").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}
