// loans.go
//
// A multi-tenant university library service.
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of unilib.
// unilib is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// unilib is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with unilib.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/unilib/internal/middleware"
	"github.com/localnerve/unilib/internal/services"
	"github.com/localnerve/unilib/internal/types"
	"github.com/localnerve/unilib/internal/utils"
	"gorm.io/gorm"
)

// LoanHandler handles the loan lifecycle routes
type LoanHandler struct {
	DB *gorm.DB
}

type checkoutRequest struct {
	BookItemID   string        `json:"bookItemId"`
	DurationDays types.FlexInt `json:"durationDays"`
}

// Checkout handles POST /api/loans/checkout
// @Summary Borrow a book
// @Description Create a loan for the caller; duration falls back to the university default
// @Tags Loans
// @Accept json
// @Produce json
// @Param body body checkoutRequest true "Book and optional duration in days"
// @Success 201 {object} models.Loan
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /loans/checkout [post]
func (h *LoanHandler) Checkout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "checkout")
	}
	if req.BookItemID == "" {
		return utils.ErrorResponse(c, "Missing bookItemId", fiber.StatusBadRequest, "checkout")
	}

	loan, err := services.Checkout(requestDB(h.DB, c), middleware.ScopeFrom(c), req.BookItemID, req.DurationDays.Int())
	if err != nil {
		return serviceErrorResponse(c, err, "checkout")
	}
	return utils.SuccessResponse(c, loan, fiber.StatusCreated)
}

// Return handles POST /api/loans/return/:loanId
// @Summary Return a book
// @Description Close a loan and quote the late fine; admins may return on behalf of their students
// @Tags Loans
// @Produce json
// @Param loanId path string true "Loan ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /loans/return/{loanId} [post]
func (h *LoanHandler) Return(c *fiber.Ctx) error {
	loanID := c.Params("loanId")
	if loanID == "" {
		return utils.ErrorResponse(c, "Missing loanId", fiber.StatusBadRequest, "return")
	}

	loan, fine, err := services.Return(requestDB(h.DB, c), middleware.ScopeFrom(c), loanID)
	if err != nil {
		return serviceErrorResponse(c, err, "return")
	}

	return utils.SuccessResponse(c, fiber.Map{
		"loan":        loan,
		"fineCharged": fine,
	}, fiber.StatusOK)
}

// Mine handles GET /api/loans/mine
// @Summary List my loans
// @Description All loans of the caller, active first
// @Tags Loans
// @Produce json
// @Success 200 {array} models.Loan
// @Router /loans/mine [get]
func (h *LoanHandler) Mine(c *fiber.Ctx) error {
	loans, err := services.ListMyLoans(requestDB(h.DB, c), middleware.ScopeFrom(c))
	if err != nil {
		return serviceErrorResponse(c, err, "myLoans")
	}
	return utils.SuccessResponse(c, loans, fiber.StatusOK)
}
