// book_item.go
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

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookItem is a catalog title owned by one university. ISBN is unique per
// university, not globally. The available-copy count is never stored; it is
// derived from TotalCopies minus the active rows in Loans.
type BookItem struct {
	BookItemID    string     `gorm:"primaryKey;type:char(36)" json:"bookItemId"`
	UniversityID  string     `gorm:"type:char(36);not null;index;index:idx_books_university_isbn,unique" json:"universityId"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Author        string     `gorm:"size:255" json:"author"`
	ISBN          string     `gorm:"size:64;not null;index:idx_books_university_isbn,unique" json:"ISBN"`
	CoverImageURL string     `gorm:"size:512" json:"coverImageUrl"`
	Description   string     `gorm:"size:2048" json:"description"`
	TotalCopies   int        `gorm:"not null" json:"totalCopies"`
	BorrowCount   int        `gorm:"not null;default:0" json:"borrowCount"`
	Genres        StringList `json:"genres"`
	Rating        float64    `gorm:"not null;default:0" json:"rating"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	// Loans is used with a conditional preload to carry the active loans of
	// this title; it is never serialized directly.
	Loans []Loan `gorm:"foreignKey:BookItemID" json:"-"`
}

// BeforeCreate assigns a UUID primary key
func (b *BookItem) BeforeCreate(_ *gorm.DB) error {
	if b.BookItemID == "" {
		b.BookItemID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for BookItem
func (BookItem) TableName() string {
	return "book_items"
}
