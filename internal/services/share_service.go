// share_service.go
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
	"gorm.io/gorm/logger"
)

// ShareDocument grants sharedWithID view or edit permission on the owner's
// document. Sharing again with the same user updates the permission.
func ShareDocument(db *gorm.DB, documentID, ownerID, sharedWithID uint64, permission string) (*models.SharedDocument, error) {
	if !models.ValidSharePermission(permission) {
		return nil, fmt.Errorf("invalid share permission: %s", permission)
	}
	if ownerID == sharedWithID {
		return nil, fmt.Errorf("invalid input")
	}

	var share models.SharedDocument

	err := db.Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("document_id = ? AND user_id = ? AND is_deleted = ?", documentID, ownerID, false).
			First(&doc).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("not found")
			}
			return err
		}

		var target models.User
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			First(&target, sharedWithID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("not found")
			}
			return err
		}

		err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("document_id = ? AND shared_with_id = ?", documentID, sharedWithID).
			First(&share).Error
		if err == gorm.ErrRecordNotFound {
			share = models.SharedDocument{
				DocumentID:   documentID,
				OwnerID:      ownerID,
				SharedWithID: sharedWithID,
				Permission:   permission,
			}
			if err := tx.Create(&share).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else if share.Permission != permission {
			share.Permission = permission
			if err := tx.Model(&share).Update("permission", permission).Error; err != nil {
				return err
			}
		}

		return RecordAudit(tx, ownerID, &documentID, ActionShared, map[string]interface{}{
			"shared_with": target.Username,
			"permission":  permission,
		})
	})

	if err != nil {
		return nil, err
	}

	return &share, nil
}

// SharedWithUser lists the share grants for documents shared with the user,
// excluding soft-deleted documents. The Document association is preloaded.
func SharedWithUser(db *gorm.DB, userID uint64) ([]models.SharedDocument, error) {
	var shares []models.SharedDocument
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("Document").
		Joins("JOIN documents ON documents.document_id = shared_documents.document_id").
		Where("shared_documents.shared_with_id = ? AND documents.is_deleted = ?", userID, false).
		Order("shared_documents.share_id").
		Find(&shares).Error
	if err != nil {
		return nil, err
	}
	return shares, nil
}

// RevokeShare removes a share grant; only the document owner can revoke
func RevokeShare(db *gorm.DB, documentID, ownerID, sharedWithID uint64) error {
	result := db.Where("document_id = ? AND owner_id = ? AND shared_with_id = ?",
		documentID, ownerID, sharedWithID).
		Delete(&models.SharedDocument{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}
