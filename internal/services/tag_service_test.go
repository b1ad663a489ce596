package services_test

import (
	"testing"

	"github.com/localnerve/taxtrackdb/internal/models"
	"github.com/localnerve/taxtrackdb/internal/services"
)

func TestTagDocument(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "tagger")

	doc, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name: "receipt.pdf", Type: "receipt", TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	if err := services.TagDocument(db, doc.DocumentID, user.UserID, []string{"medical", "deductible"}); err != nil {
		t.Fatalf("Failed to tag: %v", err)
	}

	// Tagging again with an overlap must not duplicate associations
	if err := services.TagDocument(db, doc.DocumentID, user.UserID, []string{"medical", "2025"}); err != nil {
		t.Fatalf("Failed to re-tag: %v", err)
	}

	reloaded, err := services.GetDocument(db, doc.DocumentID)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if len(reloaded.Tags) != 3 {
		t.Errorf("Expected 3 tags, got %d", len(reloaded.Tags))
	}

	// Tag rows are shared; a second document reuses them
	doc2, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name: "receipt2.pdf", Type: "receipt", TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create second document: %v", err)
	}
	if err := services.TagDocument(db, doc2.DocumentID, user.UserID, []string{"medical"}); err != nil {
		t.Fatalf("Failed to tag second document: %v", err)
	}

	tags, err := services.ListTags(db)
	if err != nil {
		t.Fatalf("Failed to list tags: %v", err)
	}
	if len(tags) != 3 {
		t.Errorf("Expected 3 tag rows total, got %d", len(tags))
	}
}

func TestTagDocumentOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "tag-owner")
	other := createUser(t, db, "tag-other")

	doc, err := services.CreateDocument(db, owner.UserID, services.DocumentInput{
		Name: "w2.pdf", Type: "W-2", TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	err = services.TagDocument(db, doc.DocumentID, other.UserID, []string{"sneaky"})
	if err == nil || err.Error() != "not found" {
		t.Errorf("Expected not found for non-owner tag, got: %v", err)
	}
}

func TestUntagDocument(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "untagger")

	doc, err := services.CreateDocument(db, user.UserID, services.DocumentInput{
		Name: "receipt.pdf", Type: "receipt", TaxYear: 2025,
	})
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	if err := services.TagDocument(db, doc.DocumentID, user.UserID, []string{"medical"}); err != nil {
		t.Fatalf("Failed to tag: %v", err)
	}

	if err := services.UntagDocument(db, doc.DocumentID, user.UserID, "medical"); err != nil {
		t.Fatalf("Failed to untag: %v", err)
	}

	reloaded, err := services.GetDocument(db, doc.DocumentID)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if len(reloaded.Tags) != 0 {
		t.Errorf("Expected no tags, got %d", len(reloaded.Tags))
	}

	// The tag row itself survives the detach
	var count int64
	db.Model(&models.Tag{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected tag row to remain, got %d rows", count)
	}

	if err := services.UntagDocument(db, doc.DocumentID, user.UserID, "missing"); err == nil {
		t.Error("Expected not found for unknown tag")
	}
}
