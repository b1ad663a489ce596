// data.go
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

package helpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/localnerve/taxtrackdb/internal/models"
	"gorm.io/gorm"
)

// CreateTestUser creates a user row with a random authorizer id
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		AuthzID:      uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return &user
}

// CreateTestDocument creates a version-1 document row directly, bypassing
// the service layer so tests can stage rows without side effects
func CreateTestDocument(t *testing.T, db *gorm.DB, userID uint64, name, docType string, taxYear int, status string) *models.Document {
	t.Helper()
	doc := models.Document{
		UserID:       userID,
		DocumentName: name,
		DocumentType: docType,
		TaxYear:      taxYear,
		Status:       status,
		Version:      1,
	}
	if err := db.Create(&doc).Error; err != nil {
		t.Fatalf("Failed to create document %s: %v", name, err)
	}
	return &doc
}

// CreateTestFiling creates a tax filing row for a user and year
func CreateTestFiling(t *testing.T, db *gorm.DB, userID uint64, year int, status string) *models.TaxFiling {
	t.Helper()
	filing := models.TaxFiling{
		UserID:     userID,
		FilingYear: year,
		Status:     status,
	}
	if err := db.Create(&filing).Error; err != nil {
		t.Fatalf("Failed to create filing %d/%d: %v", userID, year, err)
	}
	return &filing
}
