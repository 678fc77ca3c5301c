// admin.go
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
	"github.com/localnerve/unilib/internal/utils"
	"gorm.io/gorm"
)

// AdminHandler handles admin catalog and policy routes
type AdminHandler struct {
	DB *gorm.DB
}

// CreateBook handles POST /api/admin/books
// @Summary Add a book
// @Description Create a catalog entry for the admin's university
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body services.BookInput true "Book details"
// @Success 201 {object} models.BookItem
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /admin/books [post]
func (h *AdminHandler) CreateBook(c *fiber.Ctx) error {
	var input services.BookInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "createBook")
	}

	book, err := services.CreateBook(requestDB(h.DB, c), middleware.ScopeFrom(c), input)
	if err != nil {
		return serviceErrorResponse(c, err, "createBook")
	}
	return utils.SuccessResponse(c, book, fiber.StatusCreated)
}

// ListBooks handles GET /api/admin/books
// @Summary List the catalog
// @Description All books of the admin's university with availability
// @Tags Admin
// @Produce json
// @Success 200 {array} availability.BookView
// @Router /admin/books [get]
func (h *AdminHandler) ListBooks(c *fiber.Ctx) error {
	books, err := services.ListBooks(requestDB(h.DB, c), middleware.ScopeFrom(c))
	if err != nil {
		return serviceErrorResponse(c, err, "listBooks")
	}
	return utils.SuccessResponse(c, books, fiber.StatusOK)
}

// UpdateBook handles PUT /api/admin/books/:id
// @Summary Update a book
// @Description Partial update of a catalog entry; omitted fields are untouched
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Book item ID"
// @Param body body services.BookUpdate true "Fields to change"
// @Success 200 {object} models.BookItem
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/books/{id} [put]
func (h *AdminHandler) UpdateBook(c *fiber.Ctx) error {
	bookItemID := c.Params("id")
	if bookItemID == "" {
		return utils.ErrorResponse(c, "Missing book id", fiber.StatusBadRequest, "updateBook")
	}

	var update services.BookUpdate
	if err := c.BodyParser(&update); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "updateBook")
	}

	book, err := services.UpdateBook(requestDB(h.DB, c), middleware.ScopeFrom(c), bookItemID, update)
	if err != nil {
		return serviceErrorResponse(c, err, "updateBook")
	}
	return utils.SuccessResponse(c, book, fiber.StatusOK)
}

// DeleteBook handles DELETE /api/admin/books/:id
// @Summary Delete a book
// @Description Remove a catalog entry; refused while copies are out on loan
// @Tags Admin
// @Produce json
// @Param id path string true "Book item ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /admin/books/{id} [delete]
func (h *AdminHandler) DeleteBook(c *fiber.Ctx) error {
	bookItemID := c.Params("id")
	if bookItemID == "" {
		return utils.ErrorResponse(c, "Missing book id", fiber.StatusBadRequest, "deleteBook")
	}

	if err := services.DeleteBook(requestDB(h.DB, c), middleware.ScopeFrom(c), bookItemID); err != nil {
		return serviceErrorResponse(c, err, "deleteBook")
	}
	return utils.SuccessResponse(c, fiber.Map{"message": "Book deleted"}, fiber.StatusOK)
}

// ImportBooks handles POST /api/admin/books/import
// @Summary Bulk import books
// @Description Upsert catalog entries from CSV text keyed by ISBN
// @Tags Admin
// @Accept plain
// @Produce json
// @Success 200 {object} services.ImportSummary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /admin/books/import [post]
func (h *AdminHandler) ImportBooks(c *fiber.Ctx) error {
	summary, err := services.ImportBooksCSV(requestDB(h.DB, c), middleware.ScopeFrom(c), string(c.Body()))
	if err != nil {
		return serviceErrorResponse(c, err, "importBooks")
	}
	return utils.SuccessResponse(c, summary, fiber.StatusOK)
}

// ListNotifications handles GET /api/admin/notifications
// @Summary List activity notifications
// @Description Borrow and return events for the admin's university, newest first
// @Tags Admin
// @Produce json
// @Param limit query int false "Max entries (1-100)"
// @Success 200 {array} services.NotificationView
// @Router /admin/notifications [get]
func (h *AdminHandler) ListNotifications(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	notifications, err := services.ListNotifications(requestDB(h.DB, c), middleware.ScopeFrom(c), limit)
	if err != nil {
		return serviceErrorResponse(c, err, "notifications")
	}
	return utils.SuccessResponse(c, notifications, fiber.StatusOK)
}

// UpdateSettings handles PUT /api/admin/settings
// @Summary Update loan policy
// @Description Change loanDaysDefault and finePerDay for the admin's university
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body services.SettingsUpdate true "Policy fields to change"
// @Success 200 {object} models.University
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /admin/settings [put]
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var update services.SettingsUpdate
	if err := c.BodyParser(&update); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "settings")
	}

	university, err := services.UpdateSettings(requestDB(h.DB, c), middleware.ScopeFrom(c), update)
	if err != nil {
		return serviceErrorResponse(c, err, "settings")
	}
	return utils.SuccessResponse(c, university, fiber.StatusOK)
}
