// loan.go
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

// Loan is one borrow event in the ledger. A nil ReturnDate is the single
// source of truth for "active"; rows are created by checkout, mutated exactly
// once by return, and never deleted.
//
// UniversityID is denormalized from the book so every ledger query is
// tenant-scoped without a join, and so the two hot lookups ("active loans for
// book X", "active loans for university Y") each have a covering index.
type Loan struct {
	LoanID       string     `gorm:"primaryKey;type:char(36)" json:"loanId"`
	BookItemID   string     `gorm:"type:char(36);not null;index:idx_loans_book_active" json:"bookItemRef"`
	StudentID    string     `gorm:"type:char(36);not null;index" json:"studentRef"`
	UniversityID string     `gorm:"type:char(36);not null;index:idx_loans_university_active" json:"universityId"`
	DueDate      time.Time  `gorm:"not null" json:"dueDate"`
	ReturnDate   *time.Time `gorm:"index:idx_loans_book_active;index:idx_loans_university_active" json:"returnDate"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	BookItem *BookItem `gorm:"foreignKey:BookItemID;references:BookItemID" json:"bookItem,omitempty"`
}

// BeforeCreate assigns a UUID primary key
func (l *Loan) BeforeCreate(_ *gorm.DB) error {
	if l.LoanID == "" {
		l.LoanID = uuid.NewString()
	}
	return nil
}

// Active reports whether the loan is still outstanding
func (l *Loan) Active() bool {
	return l.ReturnDate == nil
}

// TableName overrides the table name for Loan
func (Loan) TableName() string {
	return "loans"
}
