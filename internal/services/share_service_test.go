package services_test

import (
	"testing"

	"github.com/localnerve/taxtrackdb/internal/models"
	"github.com/localnerve/taxtrackdb/internal/services"
)

func TestShareDocument(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "share-owner")
	friend := createUser(t, db, "share-friend")

	doc, err := services.CreateDocument(db, owner.UserID, services.DocumentInput{
		Name: "return.pdf", Type: "return", TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	share, err := services.ShareDocument(db, doc.DocumentID, owner.UserID, friend.UserID, models.SharePermissionView)
	if err != nil {
		t.Fatalf("Failed to share: %v", err)
	}
	if share.Permission != models.SharePermissionView {
		t.Errorf("Expected view permission, got %s", share.Permission)
	}

	// Re-sharing upgrades the permission in place
	share, err = services.ShareDocument(db, doc.DocumentID, owner.UserID, friend.UserID, models.SharePermissionEdit)
	if err != nil {
		t.Fatalf("Failed to re-share: %v", err)
	}
	if share.Permission != models.SharePermissionEdit {
		t.Errorf("Expected edit permission, got %s", share.Permission)
	}

	var count int64
	db.Model(&models.SharedDocument{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected a single share row, got %d", count)
	}

	shares, err := services.SharedWithUser(db, friend.UserID)
	if err != nil {
		t.Fatalf("Failed to list shares: %v", err)
	}
	if len(shares) != 1 {
		t.Fatalf("Expected 1 share, got %d", len(shares))
	}
	if shares[0].Document.DocumentID != doc.DocumentID {
		t.Error("Expected document preloaded on share")
	}
}

func TestShareDocumentValidation(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "share-validator")
	friend := createUser(t, db, "share-target")

	doc, err := services.CreateDocument(db, owner.UserID, services.DocumentInput{
		Name: "w2.pdf", Type: "W-2", TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	if _, err := services.ShareDocument(db, doc.DocumentID, owner.UserID, friend.UserID, "admin"); err == nil {
		t.Error("Expected invalid permission error")
	}

	if _, err := services.ShareDocument(db, doc.DocumentID, owner.UserID, owner.UserID, models.SharePermissionView); err == nil {
		t.Error("Expected self-share rejection")
	}

	if _, err := services.ShareDocument(db, doc.DocumentID, friend.UserID, owner.UserID, models.SharePermissionView); err == nil {
		t.Error("Expected not found for non-owner share")
	}

	if _, err := services.ShareDocument(db, doc.DocumentID, owner.UserID, 9999, models.SharePermissionView); err == nil {
		t.Error("Expected not found for unknown target user")
	}
}

func TestSharedWithUserExcludesDeleted(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "share-deleter")
	friend := createUser(t, db, "share-viewer")

	doc, err := services.CreateDocument(db, owner.UserID, services.DocumentInput{
		Name: "old.pdf", Type: "receipt", TaxYear: 2024,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	if _, err := services.ShareDocument(db, doc.DocumentID, owner.UserID, friend.UserID, models.SharePermissionView); err != nil {
		t.Fatalf("Failed to share: %v", err)
	}

	if err := services.SoftDeleteDocument(db, doc.DocumentID, owner.UserID); err != nil {
		t.Fatalf("Failed to soft-delete: %v", err)
	}

	shares, err := services.SharedWithUser(db, friend.UserID)
	if err != nil {
		t.Fatalf("Failed to list shares: %v", err)
	}
	if len(shares) != 0 {
		t.Errorf("Expected deleted document hidden from shares, got %d", len(shares))
	}
}

func TestRevokeShare(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "revoke-owner")
	friend := createUser(t, db, "revoke-friend")

	doc, err := services.CreateDocument(db, owner.UserID, services.DocumentInput{
		Name: "doc.pdf", Type: "W-2", TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	if _, err := services.ShareDocument(db, doc.DocumentID, owner.UserID, friend.UserID, models.SharePermissionView); err != nil {
		t.Fatalf("Failed to share: %v", err)
	}

	// Only the owner can revoke
	if err := services.RevokeShare(db, doc.DocumentID, friend.UserID, friend.UserID); err == nil {
		t.Error("Expected not found for non-owner revoke")
	}

	if err := services.RevokeShare(db, doc.DocumentID, owner.UserID, friend.UserID); err != nil {
		t.Fatalf("Failed to revoke: %v", err)
	}

	shares, err := services.SharedWithUser(db, friend.UserID)
	if err != nil {
		t.Fatalf("Failed to list shares: %v", err)
	}
	if len(shares) != 0 {
		t.Errorf("Expected no shares after revoke, got %d", len(shares))
	}

	if err := services.RevokeShare(db, doc.DocumentID, owner.UserID, friend.UserID); err == nil {
		t.Error("Expected error on double revoke")
	}
}
