package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/taxtrackdb/internal/services"
	"github.com/localnerve/taxtrackdb/internal/utils"
	"gorm.io/gorm"
)

// AuditHandler handles audit log routes
type AuditHandler struct {
	DB *gorm.DB
}

// ListAuditLogs handles GET /api/audit
// @Summary List audit entries
// @Description List the caller's audit log entries, newest first
// @Tags Audit
// @Accept json
// @Produce json
// @Param limit query int false "Max entries to return (default 100)"
// @Success 200 {array} models.AuditLog
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /audit [get]
func (h *AuditHandler) ListAuditLogs(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	logs, err := services.ListAuditLogs(h.DB, account.UserID, limit)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listAuditLogs")
	}

	if len(logs) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusOK).JSON(logs)
}

// ListUserAuditLogs handles GET /api/audit/:userId
// @Summary List a user's audit entries
// @Description List any user's audit log entries, newest first (admin only)
// @Tags Audit
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param limit query int false "Max entries to return (default 100)"
// @Success 200 {array} models.AuditLog
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /audit/{userId} [get]
func (h *AuditHandler) ListUserAuditLogs(c *fiber.Ctx) error {
	userID, err := paramUint64(c, "userId")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tax.validation.input")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	logs, err := services.ListAuditLogs(h.DB, userID, limit)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listUserAuditLogs")
	}

	if len(logs) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusOK).JSON(logs)
}
