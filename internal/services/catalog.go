// catalog.go
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

package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/localnerve/unilib/internal/availability"
	"github.com/localnerve/unilib/internal/models"
	"gorm.io/gorm"
)

// BookInput carries a new catalog entry
type BookInput struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	ISBN          string   `json:"ISBN"`
	CoverImageURL string   `json:"coverImageUrl"`
	Description   string   `json:"description"`
	TotalCopies   int      `json:"totalCopies"`
	Genres        []string `json:"genres"`
	Rating        *float64 `json:"rating"`
}

// BookUpdate carries a partial catalog update; nil fields are untouched
type BookUpdate struct {
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	CoverImageURL *string  `json:"coverImageUrl"`
	Description   *string  `json:"description"`
	TotalCopies   *int     `json:"totalCopies"`
	Genres        []string `json:"genres"`
	Rating        *float64 `json:"rating"`
}

// SearchResult is the paginated search envelope
type SearchResult struct {
	Items      []availability.BookView `json:"items"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	Total      int                     `json:"total"`
	TotalPages int                     `json:"totalPages"`
}

// Prediction is one "available soon" entry: a borrowed-out book keyed by its
// soonest active due date.
type Prediction struct {
	BookID     string    `json:"bookId"`
	Title      string    `json:"title"`
	ISBN       string    `json:"ISBN"`
	MinDueDate time.Time `json:"minDueDate"`
}

// scopedBooks starts a tenant-scoped catalog query with active loans preloaded
func scopedBooks(db *gorm.DB, scope Scope) *gorm.DB {
	return db.Model(&models.BookItem{}).
		Preload("Loans", "return_date IS NULL").
		Where("book_items.university_id = ?", scope.UniversityID)
}

// ListBooks returns the tenant's whole catalog with derived availability
func ListBooks(db *gorm.DB, scope Scope) ([]availability.BookView, error) {
	var books []models.BookItem
	if err := scopedBooks(db, scope).Find(&books).Error; err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	views := make([]availability.BookView, 0, len(books))
	for _, b := range books {
		views = append(views, availability.Enrich(b, now))
	}
	return views, nil
}

// ListAvailableBooks returns only the titles with at least one free copy
func ListAvailableBooks(db *gorm.DB, scope Scope) ([]availability.BookView, error) {
	views, err := ListBooks(db, scope)
	if err != nil {
		return nil, err
	}
	out := make([]availability.BookView, 0, len(views))
	for _, v := range views {
		if v.AvailableCopies > 0 {
			out = append(out, v)
		}
	}
	return out, nil
}

// SearchBooks runs the tenant-scoped catalog search: case-insensitive
// substring match on title/author/ISBN, optional genre intersection, optional
// rating/popularity ordering, offset pagination.
func SearchBooks(db *gorm.DB, scope Scope, opts availability.ListOptions) (*SearchResult, error) {
	opts = opts.Clamp()

	query := scopedBooks(db, scope)
	if q := strings.TrimSpace(opts.Query); q != "" {
		pattern := "%" + availability.EscapeLike(strings.ToLower(q)) + "%"
		query = query.Where(
			`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(author) LIKE ? ESCAPE '\' OR LOWER(isbn) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}

	var books []models.BookItem
	if err := query.Find(&books).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	views := make([]availability.BookView, 0, len(books))
	for _, b := range books {
		views = append(views, availability.Enrich(b, now))
	}

	views = availability.FilterGenres(views, opts.Genres)
	availability.Sort(views, opts.Sort)
	pageItems, total, totalPages := availability.Paginate(views, opts.Page, opts.Limit)

	return &SearchResult{
		Items:      pageItems,
		Page:       opts.Page,
		Limit:      opts.Limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Predictions lists the tenant's borrowed-out titles ordered by the soonest
// active due date. Books with no active loans never appear. Derived from the
// ledger on every call: the SQL stays a plain indexed fetch of the active
// rows, and the per-book minimum comes from the availability helpers, so no
// driver has to map an aggregated datetime back into time.Time.
func Predictions(db *gorm.DB, scope Scope) ([]Prediction, error) {
	var active []models.Loan
	err := db.Preload("BookItem").
		Where("return_date IS NULL AND university_id = ?", scope.UniversityID).
		Find(&active).Error
	if err != nil {
		return nil, err
	}

	byBook := map[string][]models.Loan{}
	titles := map[string]*models.BookItem{}
	for i := range active {
		l := active[i]
		byBook[l.BookItemID] = append(byBook[l.BookItemID], l)
		if l.BookItem != nil {
			titles[l.BookItemID] = l.BookItem
		}
	}

	results := make([]Prediction, 0, len(byBook))
	for bookID, loans := range byBook {
		min := availability.SoonestDueDate(loans)
		if min == nil {
			continue
		}
		p := Prediction{BookID: bookID, MinDueDate: *min}
		if book := titles[bookID]; book != nil {
			p.Title = book.Title
			p.ISBN = book.ISBN
		}
		results = append(results, p)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].MinDueDate.Before(results[j].MinDueDate)
	})
	return results, nil
}

// GetBook resolves one book within the caller's tenant
func GetBook(db *gorm.DB, scope Scope, bookItemID string) (*models.BookItem, error) {
	var book models.BookItem
	err := db.Preload("Loans", "return_date IS NULL").
		Where("book_item_id = ? AND university_id = ?", bookItemID, scope.UniversityID).
		First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// CreateBook adds a catalog entry to the caller's tenant
func CreateBook(db *gorm.DB, scope Scope, input BookInput) (*models.BookItem, error) {
	title := strings.TrimSpace(input.Title)
	isbn := strings.TrimSpace(input.ISBN)
	if title == "" || isbn == "" || input.TotalCopies < 0 {
		return nil, fmt.Errorf("%w: title, ISBN, totalCopies required", ErrInvalidInput)
	}

	book := models.BookItem{
		UniversityID:  scope.UniversityID,
		Title:         title,
		Author:        strings.TrimSpace(input.Author),
		ISBN:          isbn,
		CoverImageURL: strings.TrimSpace(input.CoverImageURL),
		Description:   strings.TrimSpace(input.Description),
		TotalCopies:   input.TotalCopies,
		Genres:        SanitizeGenres(input.Genres),
		Rating:        ClampRating(input.Rating),
	}
	if err := db.Create(&book).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: a book with this ISBN already exists", ErrConflict)
		}
		return nil, err
	}
	return &book, nil
}

// UpdateBook applies a partial update to a tenant-scoped book
func UpdateBook(db *gorm.DB, scope Scope, bookItemID string, update BookUpdate) (*models.BookItem, error) {
	book, err := GetBook(db, scope, bookItemID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if update.Title != nil {
		t := strings.TrimSpace(*update.Title)
		if t == "" {
			return nil, fmt.Errorf("%w: title must be non-empty", ErrInvalidInput)
		}
		changes["title"] = t
	}
	if update.Author != nil {
		changes["author"] = strings.TrimSpace(*update.Author)
	}
	if update.CoverImageURL != nil {
		changes["cover_image_url"] = strings.TrimSpace(*update.CoverImageURL)
	}
	if update.Description != nil {
		changes["description"] = *update.Description
	}
	if update.TotalCopies != nil {
		if *update.TotalCopies < 0 {
			return nil, fmt.Errorf("%w: totalCopies must be a non-negative integer", ErrInvalidInput)
		}
		changes["total_copies"] = *update.TotalCopies
	}
	if update.Genres != nil {
		changes["genres"] = SanitizeGenres(update.Genres)
	}
	if update.Rating != nil {
		changes["rating"] = ClampRating(update.Rating)
	}
	if len(changes) == 0 {
		return book, nil
	}

	if err := db.Model(book).Updates(changes).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes a tenant-scoped book. A title with copies still out
// cannot be deleted; the ledger would point at nothing.
func DeleteBook(db *gorm.DB, scope Scope, bookItemID string) error {
	book, err := GetBook(db, scope, bookItemID)
	if err != nil {
		return err
	}
	if availability.ActiveLoanCount(book.Loans) > 0 {
		return fmt.Errorf("%w: book has active loans", ErrConflict)
	}
	return db.Delete(book).Error
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// SanitizeGenres trims and drops empty tags
func SanitizeGenres(genres []string) models.StringList {
	out := models.StringList{}
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g != "" {
			out = append(out, g)
		}
	}
	return out
}

// ClampRating bounds a rating to [0, 5]; nil means unrated (zero)
func ClampRating(r *float64) float64 {
	if r == nil {
		return 0
	}
	if *r < 0 {
		return 0
	}
	if *r > 5 {
		return 5
	}
	return *r
}
