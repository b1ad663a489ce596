// documents_test.go
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

package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/localnerve/taxtrackdb/internal/handlers"
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

// newTestApp wires a fiber app with a stubbed session for the given user,
// matching what the auth middleware stores in context
func newTestApp(user *models.User) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals("user", map[string]interface{}{"id": user.AuthzID})
		}
		return c.Next()
	})
	return app
}

func createAccount(t *testing.T, db *gorm.DB, username string) *models.User {
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

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	return bytes.NewReader(raw)
}

func TestCreateDocumentHandler(t *testing.T) {
	db := setupTestDB(t)
	user := createAccount(t, db, "uploader")

	app := newTestApp(user)
	handler := &handlers.DocumentHandler{DB: db}
	app.Post("/api/documents", handler.CreateDocument)

	req := httptest.NewRequest("POST", "/api/documents", jsonBody(t, map[string]interface{}{
		"name":    "w2.pdf",
		"type":    "W-2",
		"taxYear": 2025,
	}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	var doc models.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if doc.Version != 1 || doc.Status != models.DocumentStatusUploaded {
		t.Errorf("Unexpected document: %+v", doc)
	}

	// string taxYear is accepted too
	req = httptest.NewRequest("POST", "/api/documents", jsonBody(t, map[string]interface{}{
		"name":    "1099.pdf",
		"type":    "1099",
		"taxYear": "2025",
	}))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Errorf("Expected 201 for string taxYear, got %d", resp.StatusCode)
	}

	// bad status -> 400
	req = httptest.NewRequest("POST", "/api/documents", jsonBody(t, map[string]interface{}{
		"name":    "x.pdf",
		"type":    "W-2",
		"taxYear": 2025,
		"status":  "pending",
	}))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected 400 for bad status, got %d", resp.StatusCode)
	}
}

func TestCreateDocumentHandlerNoSession(t *testing.T) {
	db := setupTestDB(t)

	app := newTestApp(nil)
	handler := &handlers.DocumentHandler{DB: db}
	app.Post("/api/documents", handler.CreateDocument)

	req := httptest.NewRequest("POST", "/api/documents", jsonBody(t, map[string]interface{}{
		"name": "w2.pdf", "type": "W-2", "taxYear": 2025,
	}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("Expected 403 without session, got %d", resp.StatusCode)
	}
}

func TestAddDocumentVersionHandler(t *testing.T) {
	db := setupTestDB(t)
	user := createAccount(t, db, "versioner")

	doc, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name: "draft.pdf", Type: "return", TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	app := newTestApp(user)
	handler := &handlers.DocumentHandler{DB: db}
	app.Post("/api/documents/:id/versions", handler.AddDocumentVersion)

	url := fmt.Sprintf("/api/documents/%d/versions", doc.DocumentID)

	req := httptest.NewRequest("POST", url, jsonBody(t, map[string]interface{}{
		"name":        "final.pdf",
		"status":      models.DocumentStatusReviewed,
		"baseVersion": 1,
	}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	var v2 models.Document
	if err := json.NewDecoder(resp.Body).Decode(&v2); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if v2.Version != 2 {
		t.Errorf("Expected version 2, got %d", v2.Version)
	}

	// Stale base version -> 409 with versionError envelope
	req = httptest.NewRequest("POST", url, jsonBody(t, map[string]interface{}{
		"name":        "stale.pdf",
		"status":      models.DocumentStatusReviewed,
		"baseVersion": 1,
	}))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Fatalf("Expected 409, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["versionError"] != true {
		t.Errorf("Expected versionError true, got %v", body)
	}
}

func TestGetDocumentHandlerOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := createAccount(t, db, "doc-owner")
	other := createAccount(t, db, "doc-other")

	doc, err := services.CreateDocument(db, owner.UserID, services.DocumentInput{
		Name: "private.pdf", Type: "W-2", TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	app := newTestApp(other)
	handler := &handlers.DocumentHandler{DB: db}
	app.Get("/api/documents/:id", handler.GetDocument)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/documents/%d", doc.DocumentID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("Expected 403 for other user's document, got %d", resp.StatusCode)
	}

	// Unknown id -> 404
	req = httptest.NewRequest("GET", "/api/documents/9999", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected 404 for unknown document, got %d", resp.StatusCode)
	}

	// Non-numeric id -> 400
	req = httptest.NewRequest("GET", "/api/documents/abc", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected 400 for bad id, got %d", resp.StatusCode)
	}
}

func TestListDocumentsHandlerEmpty(t *testing.T) {
	db := setupTestDB(t)
	user := createAccount(t, db, "empty-lister")

	app := newTestApp(user)
	handler := &handlers.DocumentHandler{DB: db}
	app.Get("/api/documents", handler.ListDocuments)

	req := httptest.NewRequest("GET", "/api/documents", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Errorf("Expected 204 for empty list, got %d", resp.StatusCode)
	}
}

func TestDeleteDocumentHandler(t *testing.T) {
	db := setupTestDB(t)
	user := createAccount(t, db, "deleter")

	doc, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name: "old.pdf", Type: "receipt", TaxYear: 2023,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	app := newTestApp(user)
	handler := &handlers.DocumentHandler{DB: db}
	app.Delete("/api/documents/:id", handler.DeleteDocument)

	url := fmt.Sprintf("/api/documents/%d", doc.DocumentID)

	req := httptest.NewRequest("DELETE", url, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	// Second delete -> 404
	req = httptest.NewRequest("DELETE", url, nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected 404 on double delete, got %d", resp.StatusCode)
	}
}
