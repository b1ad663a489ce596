package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/taxtrackdb/internal/services"
	"github.com/localnerve/taxtrackdb/internal/types"
	"github.com/localnerve/taxtrackdb/internal/utils"
	"gorm.io/gorm"
)

// ShareHandler handles document sharing routes
type ShareHandler struct {
	DB *gorm.DB
}

// ShareDocument handles POST /api/documents/:id/shares
// @Summary Share a document
// @Description Grant another user view or edit access to a document; re-sharing updates the permission
// @Tags Shares
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param body body object true "Target user id and permission (view|edit)"
// @Success 201 {object} models.SharedDocument
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id}/shares [post]
func (h *ShareHandler) ShareDocument(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	documentID, err := paramUint64(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
	}

	var body struct {
		SharedWithID types.FlexUint64 `json:"sharedWithId"`
		Permission   string           `json:"permission"`
	}

	if err := c.BodyParser(&body); err != nil || body.SharedWithID == 0 {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tax.validation.input")
	}

	share, err := services.ShareDocument(h.DB, documentID, account.UserID, body.SharedWithID.Uint64(), body.Permission)
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
		}
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "Document or target user not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "shareDocument")
	}

	return utils.SuccessResponse(c, share, fiber.StatusCreated)
}

// SharedWithMe handles GET /api/documents/shared
// @Summary List documents shared with the caller
// @Description List share grants where the caller is the recipient, documents preloaded
// @Tags Shares
// @Accept json
// @Produce json
// @Success 200 {array} models.SharedDocument
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /documents/shared [get]
func (h *ShareHandler) SharedWithMe(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	shares, err := services.SharedWithUser(h.DB, account.UserID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "sharedWithMe")
	}

	if len(shares) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusOK).JSON(shares)
}

// RevokeShare handles DELETE /api/documents/:id/shares/:userId
// @Summary Revoke a share
// @Description Remove another user's access to the caller's document
// @Tags Shares
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param userId path int true "Recipient user ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id}/shares/{userId} [delete]
func (h *ShareHandler) RevokeShare(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	documentID, err := paramUint64(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
	}

	sharedWithID, err := paramUint64(c, "userId")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
	}

	if err := services.RevokeShare(h.DB, documentID, account.UserID, sharedWithID); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "Share not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "revokeShare")
	}

	return utils.MutationSuccessResponse(c, 0, 1)
}
