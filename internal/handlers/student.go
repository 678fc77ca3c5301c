package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/unilib/internal/middleware"
	"github.com/localnerve/unilib/internal/services"
	"github.com/localnerve/unilib/internal/utils"
	"gorm.io/gorm"
)

// StudentHandler handles the student-facing catalog routes
type StudentHandler struct {
	DB *gorm.DB
}

// ListAll handles GET /api/student/books/all
// @Summary List all books
// @Description Every book of the caller's university with availability
// @Tags Student
// @Produce json
// @Success 200 {array} availability.BookView
// @Router /student/books/all [get]
func (h *StudentHandler) ListAll(c *fiber.Ctx) error {
	books, err := services.ListBooks(requestDB(h.DB, c), middleware.ScopeFrom(c))
	if err != nil {
		return serviceErrorResponse(c, err, "studentBooks")
	}
	return utils.SuccessResponse(c, books, fiber.StatusOK)
}

// ListAvailable handles GET /api/student/books/available
// @Summary List available books
// @Description Books with at least one free copy right now
// @Tags Student
// @Produce json
// @Success 200 {array} availability.BookView
// @Router /student/books/available [get]
func (h *StudentHandler) ListAvailable(c *fiber.Ctx) error {
	books, err := services.ListAvailableBooks(requestDB(h.DB, c), middleware.ScopeFrom(c))
	if err != nil {
		return serviceErrorResponse(c, err, "studentBooks")
	}
	return utils.SuccessResponse(c, books, fiber.StatusOK)
}

// Search handles GET /api/student/books/search
// @Summary Search the catalog
// @Description Filter by text query and genres, sort, and paginate
// @Tags Student
// @Produce json
// @Param q query string false "Text matched against title, author, and ISBN"
// @Param genres query string false "Genre filter, repeatable or delimited"
// @Param sort query string false "Sort key: rating or popularity; default title"
// @Param page query int false "1-based page"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} services.SearchResult
// @Router /student/books/search [get]
func (h *StudentHandler) Search(c *fiber.Ctx) error {
	result, err := services.SearchBooks(requestDB(h.DB, c), middleware.ScopeFrom(c), parseListOptions(c))
	if err != nil {
		return serviceErrorResponse(c, err, "searchBooks")
	}
	return utils.SuccessResponse(c, result, fiber.StatusOK)
}

// Predictions handles GET /api/student/books/predictions
// @Summary Books available soon
// @Description Fully borrowed books ordered by their soonest active due date
// @Tags Student
// @Produce json
// @Success 200 {array} services.Prediction
// @Router /student/books/predictions [get]
func (h *StudentHandler) Predictions(c *fiber.Ctx) error {
	predictions, err := services.Predictions(requestDB(h.DB, c), middleware.ScopeFrom(c))
	if err != nil {
		return serviceErrorResponse(c, err, "predictions")
	}
	return utils.SuccessResponse(c, predictions, fiber.StatusOK)
}

// GetBook handles GET /api/student/books/:id
// @Summary Get one book
// @Tags Student
// @Produce json
// @Param id path string true "Book item ID"
// @Success 200 {object} models.BookItem
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /student/books/{id} [get]
func (h *StudentHandler) GetBook(c *fiber.Ctx) error {
	bookItemID := c.Params("id")
	if bookItemID == "" {
		return utils.ErrorResponse(c, "Missing book id", fiber.StatusBadRequest, "getBook")
	}

	book, err := services.GetBook(requestDB(h.DB, c), middleware.ScopeFrom(c), bookItemID)
	if err != nil {
		return serviceErrorResponse(c, err, "getBook")
	}
	return utils.SuccessResponse(c, book, fiber.StatusOK)
}
