package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/localnerve/unilib/internal/models"
	"gorm.io/gorm"
)

// ImportSummary reports a CSV bulk import
type ImportSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// csv columns recognized by the importer (lowercased header names)
var requiredImportColumns = []string{"title", "isbn", "totalcopies"}

// ImportBooksCSV bulk-loads catalog entries from CSV text. The first row is a
// header; title, isbn and totalcopies are required columns. Rows upsert by
// (ISBN, university): existing titles are updated in place, new ones created.
// Malformed rows are skipped, not fatal.
func ImportBooksCSV(db *gorm.DB, scope Scope, csvText string) (*ImportSummary, error) {
	if strings.TrimSpace(csvText) == "" {
		return nil, fmt.Errorf("%w: csvText is required", ErrInvalidInput)
	}

	reader := csv.NewReader(strings.NewReader(csvText))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: CSV requires a header row", ErrInvalidInput)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range requiredImportColumns {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%w: missing required column: %s", ErrInvalidInput, required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	summary := &ImportSummary{}
	sawRow := false
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			summary.Skipped++
			continue
		}
		sawRow = true

		title := field(row, "title")
		isbn := field(row, "isbn")
		totalCopies, convErr := strconv.Atoi(field(row, "totalcopies"))
		if title == "" || isbn == "" || convErr != nil || totalCopies < 0 {
			summary.Skipped++
			continue
		}

		entry := models.BookItem{
			UniversityID:  scope.UniversityID,
			Title:         title,
			Author:        field(row, "author"),
			ISBN:          isbn,
			CoverImageURL: field(row, "coverimageurl"),
			Description:   field(row, "description"),
			TotalCopies:   totalCopies,
		}

		var existing models.BookItem
		err = db.Where("isbn = ? AND university_id = ?", isbn, scope.UniversityID).First(&existing).Error
		switch {
		case err == nil:
			updates := map[string]interface{}{
				"title":           entry.Title,
				"author":          entry.Author,
				"cover_image_url": entry.CoverImageURL,
				"description":     entry.Description,
				"total_copies":    entry.TotalCopies,
			}
			if err := db.Model(&existing).Updates(updates).Error; err != nil {
				return nil, err
			}
			summary.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&entry).Error; err != nil {
				return nil, err
			}
			summary.Created++
		default:
			return nil, err
		}
	}

	if !sawRow {
		return nil, fmt.Errorf("%w: CSV requires a header row and at least one data row", ErrInvalidInput)
	}
	return summary, nil
}
