package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/taxtrackdb/internal/services"
	"github.com/localnerve/taxtrackdb/internal/utils"
	"gorm.io/gorm"
)

// ReminderHandler handles reminder routes
type ReminderHandler struct {
	DB *gorm.DB
}

// CreateReminder handles POST /api/reminders
// @Summary Create a reminder
// @Description Create a deadline reminder for the caller
// @Tags Reminders
// @Accept json
// @Produce json
// @Param body body object true "Message and RFC3339 due date"
// @Success 201 {object} models.Reminder
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /reminders [post]
func (h *ReminderHandler) CreateReminder(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	var body struct {
		Message string `json:"message"`
		DueDate string `json:"dueDate"`
	}

	if err := c.BodyParser(&body); err != nil || body.Message == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tax.validation.input")
	}

	dueDate, err := time.Parse(time.RFC3339, body.DueDate)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid dueDate, expected RFC3339", fiber.StatusBadRequest, "tax.validation.input")
	}

	reminder, err := services.CreateReminder(h.DB, account.UserID, body.Message, dueDate)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createReminder")
	}

	return utils.SuccessResponse(c, reminder, fiber.StatusCreated)
}

// ListReminders handles GET /api/reminders
// @Summary List reminders
// @Description List the caller's reminders, soonest due first; ?pending=true filters out completed ones
// @Tags Reminders
// @Accept json
// @Produce json
// @Param pending query bool false "Only incomplete reminders"
// @Success 200 {array} models.Reminder
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /reminders [get]
func (h *ReminderHandler) ListReminders(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	pendingOnly := c.Query("pending", "") == "true"

	reminders, err := services.ListReminders(h.DB, account.UserID, pendingOnly)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listReminders")
	}

	if len(reminders) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusOK).JSON(reminders)
}

// CompleteReminder handles POST /api/reminders/:id/complete
// @Summary Complete a reminder
// @Description Mark the caller's reminder as completed
// @Tags Reminders
// @Accept json
// @Produce json
// @Param id path int true "Reminder ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /reminders/{id}/complete [post]
func (h *ReminderHandler) CompleteReminder(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	reminderID, err := paramUint64(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
	}

	if err := services.CompleteReminder(h.DB, reminderID, account.UserID); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "Reminder not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "completeReminder")
	}

	return utils.MutationSuccessResponse(c, 0, 1)
}
