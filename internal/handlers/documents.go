// documents.go
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

package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/taxtrackdb/internal/services"
	"github.com/localnerve/taxtrackdb/internal/types"
	"github.com/localnerve/taxtrackdb/internal/utils"
	"gorm.io/gorm"
)

// DocumentHandler handles tax document routes
type DocumentHandler struct {
	DB *gorm.DB
}

// CreateDocument handles POST /api/documents
// @Summary Upload a document record
// @Description Create a new tax document (version 1), flip the year's filing to in_progress, and append an audit entry
// @Tags Documents
// @Accept json
// @Produce json
// @Param body body services.DocumentInput true "Document to create"
// @Success 201 {object} models.Document
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /documents [post]
func (h *DocumentHandler) CreateDocument(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	var body struct {
		Name    string           `json:"name"`
		Type    string           `json:"type"`
		TaxYear types.FlexUint64 `json:"taxYear"`
		Status  string           `json:"status"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tax.validation.input")
	}

	doc, err := services.CreateDocument(h.DB, account.UserID, services.DocumentInput{
		Name:    body.Name,
		Type:    body.Type,
		TaxYear: int(body.TaxYear.Uint64()),
		Status:  body.Status,
	})
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
		}
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "User account not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createDocument")
	}

	return utils.SuccessResponse(c, doc, fiber.StatusCreated)
}

// ListDocuments handles GET /api/documents
// @Summary List documents
// @Description List the caller's non-deleted documents, optionally filtered by year, type, status, or tag
// @Tags Documents
// @Accept json
// @Produce json
// @Param year query int false "Tax year filter"
// @Param type query string false "Document type filter"
// @Param status query string false "Status filter (uploaded|reviewed|approved)"
// @Param tag query string false "Tag name filter"
// @Success 200 {array} models.Document
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /documents [get]
func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	year, _ := strconv.Atoi(c.Query("year", "0"))
	filter := services.DocumentFilter{
		TaxYear: year,
		Type:    c.Query("type", ""),
		Status:  c.Query("status", ""),
		Tag:     c.Query("tag", ""),
	}

	docs, err := services.ListDocuments(h.DB, account.UserID, filter)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listDocuments")
	}

	if len(docs) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusOK).JSON(docs)
}

// GetDocument handles GET /api/documents/:id
// @Summary Get a document
// @Description Get a single document with its tags
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} models.Document
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	documentID, err := paramUint64(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
	}

	doc, err := services.GetDocument(h.DB, documentID)
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "Document not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getDocument")
	}

	if doc.UserID != account.UserID {
		return utils.ErrorResponse(c, "Document belongs to another user", fiber.StatusForbidden, "tax.authorization.user")
	}

	return c.Status(fiber.StatusOK).JSON(doc)
}

// AddDocumentVersion handles POST /api/documents/:id/versions
// @Summary Add a document version
// @Description Insert a new row for the document lineage at version+1; a stale baseVersion returns 409
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param body body object true "New name/status and optional baseVersion for optimistic concurrency"
// @Success 201 {object} models.Document
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /documents/{id}/versions [post]
func (h *DocumentHandler) AddDocumentVersion(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	documentID, err := paramUint64(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
	}

	var body struct {
		Name        string           `json:"name"`
		Status      string           `json:"status"`
		BaseVersion types.FlexUint64 `json:"baseVersion"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tax.validation.input")
	}

	source, err := services.GetDocument(h.DB, documentID)
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "Document not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "addDocumentVersion")
	}
	if source.UserID != account.UserID {
		return utils.ErrorResponse(c, "Document belongs to another user", fiber.StatusForbidden, "tax.authorization.user")
	}

	doc, err := services.AddDocumentVersion(h.DB, documentID, body.Name, body.Status, body.BaseVersion.Uint64())
	if err != nil {
		if strings.Contains(err.Error(), "E_VERSION") {
			return utils.VersionErrorResponse(c)
		}
		if strings.Contains(err.Error(), "invalid") {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
		}
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "Document not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "addDocumentVersion")
	}

	return utils.SuccessResponse(c, doc, fiber.StatusCreated)
}

// ListDocumentVersions handles GET /api/documents/:id/versions
// @Summary List document versions
// @Description List every version row in the document's lineage, oldest first
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {array} models.Document
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id}/versions [get]
func (h *DocumentHandler) ListDocumentVersions(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	documentID, err := paramUint64(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
	}

	source, err := services.GetDocument(h.DB, documentID)
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "Document not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listDocumentVersions")
	}
	if source.UserID != account.UserID {
		return utils.ErrorResponse(c, "Document belongs to another user", fiber.StatusForbidden, "tax.authorization.user")
	}

	versions, err := services.DocumentVersions(h.DB, documentID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listDocumentVersions")
	}

	return c.Status(fiber.StatusOK).JSON(versions)
}

// DeleteDocument handles DELETE /api/documents/:id
// @Summary Soft-delete a document
// @Description Mark the document deleted; the row stays for audit history
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	documentID, err := paramUint64(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
	}

	if err := services.SoftDeleteDocument(h.DB, documentID, account.UserID); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "Document not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteDocument")
	}

	return utils.MutationSuccessResponse(c, 0, 1)
}
