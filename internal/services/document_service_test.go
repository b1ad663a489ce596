// document_service_test.go
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

package services_test

import (
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/localnerve/taxtrackdb/internal/models"
	"github.com/localnerve/taxtrackdb/internal/services"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.Tag{},
		&models.TaxFiling{},
		&models.AuditLog{},
		&models.Reminder{},
		&models.SharedDocument{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		AuthzID:      uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return &user
}

func TestCreateDocumentFlipsFiling(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "alice")

	filing := models.TaxFiling{UserID: user.UserID, FilingYear: 2025, Status: models.FilingStatusNotStarted}
	if err := db.Create(&filing).Error; err != nil {
		t.Fatalf("Failed to create filing: %v", err)
	}

	doc, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name:    "w2.pdf",
		Type:    "W-2",
		TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	if doc.Version != 1 {
		t.Errorf("Expected version 1, got %d", doc.Version)
	}
	if doc.Status != models.DocumentStatusUploaded {
		t.Errorf("Expected default status uploaded, got %s", doc.Status)
	}

	var updated models.TaxFiling
	if err := db.First(&updated, filing.FilingID).Error; err != nil {
		t.Fatalf("Failed to reload filing: %v", err)
	}
	if updated.Status != models.FilingStatusInProgress {
		t.Errorf("Expected filing in_progress, got %s", updated.Status)
	}
}

func TestCreateDocumentAutoCreatesFiling(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "bob")

	_, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name:    "1099.pdf",
		Type:    "1099",
		TaxYear: 2024,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	filing, err := services.GetFiling(db, user.UserID, 2024)
	if err != nil {
		t.Fatalf("Expected filing row to be created: %v", err)
	}
	if filing.Status != models.FilingStatusInProgress {
		t.Errorf("Expected auto-created filing in_progress, got %s", filing.Status)
	}
}

func TestCreateDocumentWritesAuditLog(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "carol")

	doc, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name:    "receipt.pdf",
		Type:    "receipt",
		TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	logs, err := services.ListAuditLogs(db, user.UserID, 10)
	if err != nil {
		t.Fatalf("Failed to list audit logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("Expected 1 audit log, got %d", len(logs))
	}

	entry := logs[0]
	if entry.Action != services.ActionUploaded {
		t.Errorf("Expected action %q, got %q", services.ActionUploaded, entry.Action)
	}
	if entry.DocumentID == nil || *entry.DocumentID != doc.DocumentID {
		t.Error("Expected audit entry to reference the document")
	}

	var detail map[string]interface{}
	if err := json.Unmarshal(entry.Detail.JSON, &detail); err != nil {
		t.Fatalf("Failed to unmarshal detail: %v", err)
	}
	if detail["document_name"] != "receipt.pdf" {
		t.Errorf("Expected document_name in detail, got %v", detail)
	}
}

func TestCreateDocumentValidation(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "dave")

	_, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name:    "x.pdf",
		Type:    "W-2",
		TaxYear: 2025,
		Status:  "pending",
	})
	if err == nil {
		t.Error("Expected invalid status error")
	}

	_, err = services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name: "x.pdf",
	})
	if err == nil {
		t.Error("Expected invalid input error")
	}

	_, err = services.CreateDocument(db, 9999, services.DocumentInput{
		Name:    "x.pdf",
		Type:    "W-2",
		TaxYear: 2025,
	})
	if err == nil || err.Error() != "not found" {
		t.Errorf("Expected not found for unknown user, got: %v", err)
	}
}

func TestAddDocumentVersion(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "erin")

	doc, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name:    "draft.pdf",
		Type:    "return",
		TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	v2, err := services.AddDocumentVersion(db, doc.DocumentID, "final.pdf", models.DocumentStatusReviewed, 0)
	if err != nil {
		t.Fatalf("Failed to add version: %v", err)
	}
	if v2.Version != 2 {
		t.Errorf("Expected version 2, got %d", v2.Version)
	}
	if v2.UserID != user.UserID || v2.DocumentType != "return" || v2.TaxYear != 2025 {
		t.Error("Expected lineage fields to carry over")
	}

	// The version insert runs the same side effects as a fresh upload
	logs, err := services.ListAuditLogs(db, user.UserID, 10)
	if err != nil {
		t.Fatalf("Failed to list audit logs: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("Expected 2 audit logs, got %d", len(logs))
	}
}

func TestAddDocumentVersionStaleBase(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "frank")

	doc, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name:    "draft.pdf",
		Type:    "return",
		TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	if _, err := services.AddDocumentVersion(db, doc.DocumentID, "v2.pdf", models.DocumentStatusUploaded, 1); err != nil {
		t.Fatalf("Failed to add version: %v", err)
	}

	// The lineage head is now 2; a writer still holding 1 must conflict
	_, err = services.AddDocumentVersion(db, doc.DocumentID, "stale.pdf", models.DocumentStatusUploaded, 1)
	if err == nil {
		t.Fatal("Expected version conflict")
	}
	if err.Error() != "E_VERSION" {
		t.Errorf("Expected E_VERSION, got: %v", err)
	}

	_, err = services.AddDocumentVersion(db, doc.DocumentID, "v3.pdf", models.DocumentStatusUploaded, 2)
	if err != nil {
		t.Errorf("Expected add with current base to succeed: %v", err)
	}
}

func TestAddDocumentVersionErrors(t *testing.T) {
	db := setupTestDB(t)

	_, err := services.AddDocumentVersion(db, 42, "x.pdf", models.DocumentStatusUploaded, 0)
	if err == nil || err.Error() != "not found" {
		t.Errorf("Expected not found, got: %v", err)
	}

	_, err = services.AddDocumentVersion(db, 42, "x.pdf", "bogus", 0)
	if err == nil {
		t.Error("Expected invalid status error")
	}
}

func TestDocumentVersionsOrdering(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "gina")

	doc, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name:    "v1.pdf",
		Type:    "W-2",
		TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	v2, err := services.AddDocumentVersion(db, doc.DocumentID, "v2.pdf", models.DocumentStatusReviewed, 0)
	if err != nil {
		t.Fatalf("Failed to add version: %v", err)
	}

	// Listing the lineage works from any row of it
	versions, err := services.DocumentVersions(db, v2.DocumentID)
	if err != nil {
		t.Fatalf("Failed to list versions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("Expected 2 versions, got %d", len(versions))
	}
	if versions[0].Version != 1 || versions[1].Version != 2 {
		t.Error("Expected ascending version order")
	}
}

func TestListDocumentsFilters(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "hank")

	mk := func(name, docType string, year int, status string) *models.Document {
		doc, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
			Name: name, Type: docType, TaxYear: year, Status: status,
		})
		if err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
		return doc
	}

	mk("a.pdf", "W-2", 2025, models.DocumentStatusUploaded)
	mk("b.pdf", "1099", 2025, models.DocumentStatusReviewed)
	mk("c.pdf", "W-2", 2024, models.DocumentStatusUploaded)
	tagged := mk("d.pdf", "receipt", 2025, models.DocumentStatusUploaded)

	if err := services.TagDocument(db, tagged.DocumentID, user.UserID, []string{"medical"}); err != nil {
		t.Fatalf("Failed to tag document: %v", err)
	}

	docs, err := services.ListDocuments(db, user.UserID, services.DocumentFilter{TaxYear: 2025})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("Expected 3 documents for 2025, got %d", len(docs))
	}

	docs, err = services.ListDocuments(db, user.UserID, services.DocumentFilter{Type: "W-2"})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("Expected 2 W-2 documents, got %d", len(docs))
	}

	docs, err = services.ListDocuments(db, user.UserID, services.DocumentFilter{Status: models.DocumentStatusReviewed})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("Expected 1 reviewed document, got %d", len(docs))
	}

	docs, err = services.ListDocuments(db, user.UserID, services.DocumentFilter{Tag: "medical"})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(docs) != 1 || docs[0].DocumentID != tagged.DocumentID {
		t.Errorf("Expected only the tagged document, got %d rows", len(docs))
	}
}

func TestSoftDeleteDocument(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "iris")
	other := createUser(t, db, "judy")

	doc, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name:    "old.pdf",
		Type:    "receipt",
		TaxYear: 2023,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	// Another user cannot delete it
	if err := services.SoftDeleteDocument(db, doc.DocumentID, other.UserID); err == nil {
		t.Error("Expected not found for non-owner delete")
	}

	if err := services.SoftDeleteDocument(db, doc.DocumentID, user.UserID); err != nil {
		t.Fatalf("Failed to soft-delete: %v", err)
	}

	// Row remains, flagged
	var reloaded models.Document
	if err := db.First(&reloaded, doc.DocumentID).Error; err != nil {
		t.Fatalf("Expected row to remain: %v", err)
	}
	if !reloaded.IsDeleted {
		t.Error("Expected is_deleted to be set")
	}

	// Second delete reports not found
	if err := services.SoftDeleteDocument(db, doc.DocumentID, user.UserID); err == nil {
		t.Error("Expected error on double delete")
	}
}
