package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/taxtrackdb/internal/services"
	"github.com/localnerve/taxtrackdb/internal/types"
	"github.com/localnerve/taxtrackdb/internal/utils"
	"gorm.io/gorm"
)

// TagHandler handles document tag routes
type TagHandler struct {
	DB *gorm.DB
}

// AttachTags handles POST /api/documents/:id/tags
// @Summary Attach tags to a document
// @Description Attach one or more tags to a document, creating tag rows as needed
// @Tags Tags
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param body body object true "Tag names, single string or array"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id}/tags [post]
func (h *TagHandler) AttachTags(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	documentID, err := paramUint64(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
	}

	var body struct {
		Tags types.FlexList[string] `json:"tags"`
	}

	if err := c.BodyParser(&body); err != nil || len(body.Tags) == 0 {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tax.validation.input")
	}

	if err := services.TagDocument(h.DB, documentID, account.UserID, body.Tags.Slice()); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "Document not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "attachTags")
	}

	return utils.MutationSuccessResponse(c, 0, int64(len(body.Tags)))
}

// DetachTag handles DELETE /api/documents/:id/tags/:tag
// @Summary Detach a tag from a document
// @Description Remove the tag mapping; the tag row itself stays
// @Tags Tags
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param tag path string true "Tag name"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id}/tags/{tag} [delete]
func (h *TagHandler) DetachTag(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	documentID, err := paramUint64(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
	}

	tagName := c.Params("tag")
	if tagName == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tax.validation.input")
	}

	if err := services.UntagDocument(h.DB, documentID, account.UserID, tagName); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "Document or tag not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "detachTag")
	}

	return utils.MutationSuccessResponse(c, 0, 1)
}

// ListTags handles GET /api/tags
// @Summary List tags
// @Description List every tag name in use
// @Tags Tags
// @Accept json
// @Produce json
// @Success 200 {array} models.Tag
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tags [get]
func (h *TagHandler) ListTags(c *fiber.Ctx) error {
	if _, err := requireAccount(c, h.DB); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	tags, err := services.ListTags(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listTags")
	}

	if len(tags) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusOK).JSON(tags)
}
