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

package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/localnerve/unilib/internal/availability"
	"github.com/localnerve/unilib/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// Loan duration bounds for a caller-requested duration, in days
const (
	MinLoanDays = 1
	MaxLoanDays = 28
)

// checkoutRetries bounds the retries of the checkout transaction on
// transient lock contention before the caller sees a conflict.
const checkoutRetries = 3

// Checkout borrows one copy of a book for the calling student.
//
// The availability check and the loan insert run in one transaction holding a
// row lock on the book, so two checkouts racing for the last copy serialize
// and the loser sees ErrNoCopies. The invariant: at no committed instant do
// active loans for a book exceed its total copies.
//
// durationDays <= 0 means "not requested" and falls back to the university's
// default; a requested duration is clamped to [MinLoanDays, MaxLoanDays].
//
// The popularity counter and the borrow notification are best-effort side
// effects: their failure is logged and never fails the checkout.
func Checkout(db *gorm.DB, scope Scope, bookItemID string, durationDays int) (*models.Loan, error) {
	if bookItemID == "" {
		return nil, fmt.Errorf("%w: bookItemId required", ErrInvalidInput)
	}

	var loan *models.Loan
	var book models.BookItem

	var err error
	for attempt := 0; ; attempt++ {
		err = db.Transaction(func(tx *gorm.DB) error {
			// Lock the book row: this is the per-book serialization point
			// for the check-and-insert.
			if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("book_item_id = ? AND university_id = ?", bookItemID, scope.UniversityID).
				First(&book).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}

			active, err := countActiveLoans(tx, book.BookItemID)
			if err != nil {
				return err
			}
			if book.TotalCopies-int(active) <= 0 {
				return ErrNoCopies
			}

			var uni models.University
			if err := tx.First(&uni, "university_id = ?", scope.UniversityID).Error; err != nil {
				return err
			}

			days := resolveLoanDays(durationDays, uni.LoanDaysDefault)
			now := time.Now().UTC()
			created := &models.Loan{
				BookItemID:   book.BookItemID,
				StudentID:    scope.UserID,
				UniversityID: scope.UniversityID,
				DueDate:      now.Add(time.Duration(days) * 24 * time.Hour),
			}
			if err := tx.Create(created).Error; err != nil {
				return err
			}
			loan = created
			return nil
		})

		if err == nil || !isTransientTxError(err) || attempt >= checkoutRetries {
			break
		}
		log.Printf("checkout: retrying after transient storage error (attempt %d): %v", attempt+1, err)
	}
	if err != nil {
		if isTransientTxError(err) {
			return nil, fmt.Errorf("%w: checkout contention, retry", ErrConflict)
		}
		return nil, err
	}

	// Fire-and-forget side effects; the loan row is already committed.
	bumpBorrowCount(db, book.BookItemID)
	recordActivity(db, scope, &book, models.NotificationBorrow,
		fmt.Sprintf("%s borrowed %q (%s)", scope.Who(), book.Title, isbnOrPlaceholder(book.ISBN)))

	return loan, nil
}

// Return closes out a loan, records the return date, and quotes the late
// fine. Permitted for the borrowing student, or for an admin of the book's
// university. Returning twice is an error, not a no-op: the second call fails
// and leaves the recorded return date untouched.
func Return(db *gorm.DB, scope Scope, loanID string) (*models.Loan, float64, error) {
	var loan models.Loan
	if err := db.Preload("BookItem").First(&loan, "loan_id = ?", loanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	isOwner := loan.StudentID == scope.UserID
	sameUniversity := loan.UniversityID == scope.UniversityID
	if !(isOwner || (scope.IsAdmin() && sameUniversity)) {
		return nil, 0, ErrForbidden
	}

	if loan.ReturnDate != nil {
		return nil, 0, ErrAlreadyReturned
	}

	now := time.Now().UTC()
	// Conditional write: only flips the row if it is still active, so two
	// concurrent returns cannot both succeed.
	result := db.Model(&models.Loan{}).
		Where("loan_id = ? AND return_date IS NULL", loan.LoanID).
		Update("return_date", now)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, 0, ErrAlreadyReturned
	}
	loan.ReturnDate = &now

	var uni models.University
	fine := 0.0
	if err := db.First(&uni, "university_id = ?", loan.UniversityID).Error; err != nil {
		// The fine is a quote, not a ledger entry; a missing policy row
		// degrades to zero rather than failing the return.
		log.Printf("return: failed to load university %s for fine computation: %v", loan.UniversityID, err)
	} else {
		fine = Fine(loan.DueDate, now, uni.FinePerDay)
	}

	if loan.BookItem != nil {
		recordActivity(db, scope, loan.BookItem, models.NotificationReturn,
			fmt.Sprintf("%s returned %q (%s)", scope.Who(), loan.BookItem.Title, isbnOrPlaceholder(loan.BookItem.ISBN)))
	}

	return &loan, fine, nil
}

// ListMyLoans returns the caller's loans, newest first, with the book preloaded
func ListMyLoans(db *gorm.DB, scope Scope) ([]models.Loan, error) {
	var loans []models.Loan
	err := db.Preload("BookItem").
		Where("student_id = ? AND university_id = ?", scope.UserID, scope.UniversityID).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

// Fine computes the late fee quoted on return: whole days late (rounded up)
// times the university's per-day rate. On-time and early returns owe nothing.
func Fine(dueDate, returnDate time.Time, finePerDay float64) float64 {
	if !returnDate.After(dueDate) {
		return 0
	}
	if finePerDay < 0 {
		finePerDay = 0
	}
	daysLate := availability.CeilDays(returnDate.Sub(dueDate))
	return float64(daysLate) * finePerDay
}

// resolveLoanDays picks the effective loan duration: a positive request is
// clamped to the allowed window, anything else falls back to the university
// default (itself floored at one day).
func resolveLoanDays(requested, universityDefault int) int {
	if requested > 0 {
		if requested > MaxLoanDays {
			return MaxLoanDays
		}
		if requested < MinLoanDays {
			return MinLoanDays
		}
		return requested
	}
	if universityDefault < MinLoanDays {
		return MinLoanDays
	}
	return universityDefault
}

// countActiveLoans is the ledger's hot query; on MySQL it pins the partial
// covering index to keep the planner off the student index.
func countActiveLoans(tx *gorm.DB, bookItemID string) (int64, error) {
	q := tx.Model(&models.Loan{})
	if tx.Dialector.Name() == "mysql" {
		q = q.Clauses(hints.UseIndex("idx_loans_book_active"))
	}
	var active int64
	err := q.Where("book_item_id = ? AND return_date IS NULL", bookItemID).
		Count(&active).Error
	return active, err
}

// bumpBorrowCount increments the popularity counter, best-effort
func bumpBorrowCount(db *gorm.DB, bookItemID string) {
	err := db.Model(&models.BookItem{}).
		Where("book_item_id = ?", bookItemID).
		UpdateColumn("borrow_count", gorm.Expr("borrow_count + 1")).Error
	if err != nil {
		log.Printf("loans: failed to increment borrow count for %s: %v", bookItemID, err)
	}
}

func isbnOrPlaceholder(isbn string) string {
	if isbn == "" {
		return "no ISBN"
	}
	return isbn
}

// isTransientTxError matches the lock-contention and serialization failures
// the supported drivers report for a retriable transaction.
func isTransientTxError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "could not serialize access")
}
