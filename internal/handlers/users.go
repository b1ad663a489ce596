package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/taxtrackdb/internal/services"
	"github.com/localnerve/taxtrackdb/internal/utils"
	"gorm.io/gorm"
)

// UserHandler handles user account routes
type UserHandler struct {
	DB *gorm.DB
}

// Register handles POST /api/users
// @Summary Register a user account
// @Description Create the local account row linked to the caller's authorizer identity
// @Tags Users
// @Accept json
// @Produce json
// @Param body body object true "Username, email, and password"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /users [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	authzID, err := getAuthzID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tax.validation.input")
	}

	if body.Username == "" || body.Email == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tax.validation.input")
	}

	user, err := services.RegisterUser(h.DB, authzID, body.Username, body.Email, body.Password)
	if err != nil {
		if errors.Is(err, services.ErrWeakPassword) {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
		}
		if errors.Is(err, services.ErrDuplicateUser) {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, "tax.validation.input")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "registerUser")
	}

	return utils.SuccessResponse(c, user, fiber.StatusCreated)
}

// Me handles GET /api/users/me
// @Summary Get the caller's account
// @Description Get the local account row for the session user
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} models.User
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	authzID, err := getAuthzID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	user, err := services.UserByAuthzID(h.DB, authzID)
	if err != nil {
		return utils.NotFoundResponse(c, "No account for session user")
	}

	return c.Status(fiber.StatusOK).JSON(user)
}
