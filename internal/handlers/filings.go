// filings.go
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
	"github.com/localnerve/taxtrackdb/internal/utils"
	"gorm.io/gorm"
)

// FilingHandler handles tax filing routes
type FilingHandler struct {
	DB *gorm.DB
}

// ListFilings handles GET /api/filings
// @Summary List tax filings
// @Description List the caller's non-deleted tax filings, newest year first
// @Tags Filings
// @Accept json
// @Produce json
// @Success 200 {array} models.TaxFiling
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /filings [get]
func (h *FilingHandler) ListFilings(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	filings, err := services.ListFilings(h.DB, account.UserID, false)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listFilings")
	}

	if len(filings) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusOK).JSON(filings)
}

// FilingSummary handles GET /api/filings/summary
// @Summary Filing summary
// @Description Per-year counts of the caller's non-deleted documents by status
// @Tags Filings
// @Accept json
// @Produce json
// @Param year query int false "Restrict to a single tax year"
// @Success 200 {array} services.FilingSummaryRow
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /filings/summary [get]
func (h *FilingHandler) FilingSummary(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	year, _ := strconv.Atoi(c.Query("year", "0"))

	rows, err := services.FilingSummary(h.DB, account.UserID, year)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "filingSummary")
	}

	if len(rows) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusOK).JSON(rows)
}

// GetFiling handles GET /api/filings/:year
// @Summary Get a tax filing
// @Description Get the caller's filing row for a tax year
// @Tags Filings
// @Accept json
// @Produce json
// @Param year path int true "Tax year"
// @Success 200 {object} models.TaxFiling
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /filings/{year} [get]
func (h *FilingHandler) GetFiling(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	year, err := paramYear(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
	}

	filing, err := services.GetFiling(h.DB, account.UserID, year)
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "No filing for that year")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getFiling")
	}

	return c.Status(fiber.StatusOK).JSON(filing)
}

// SetFilingStatus handles POST /api/filings/:year
// @Summary Set filing status
// @Description Create or update the caller's filing row for a tax year
// @Tags Filings
// @Accept json
// @Produce json
// @Param year path int true "Tax year"
// @Param body body object true "New status (not_started|in_progress|filed)"
// @Success 200 {object} models.TaxFiling
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /filings/{year} [post]
func (h *FilingHandler) SetFilingStatus(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	year, err := paramYear(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
	}

	var body struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tax.validation.input")
	}

	filing, err := services.SetFilingStatus(h.DB, account.UserID, year, body.Status)
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "setFilingStatus")
	}

	return c.Status(fiber.StatusOK).JSON(filing)
}

// DeleteFiling handles DELETE /api/filings/:year
// @Summary Soft-delete a tax filing
// @Description Mark the caller's filing row for a tax year deleted
// @Tags Filings
// @Accept json
// @Produce json
// @Param year path int true "Tax year"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /filings/{year} [delete]
func (h *FilingHandler) DeleteFiling(c *fiber.Ctx) error {
	account, err := requireAccount(c, h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "tax.authorization.user")
	}

	year, err := paramYear(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tax.validation.input")
	}

	if err := services.SoftDeleteFiling(h.DB, account.UserID, year); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "No filing for that year")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteFiling")
	}

	return utils.MutationSuccessResponse(c, 0, 1)
}
