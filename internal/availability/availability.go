// availability.go
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

// Package availability derives copy availability from the loan ledger.
//
// Everything here is a pure function over loaded rows: no stored derived
// state, no caching. Loan state changes on every checkout and return, so a
// stale counter would surface as phantom availability and overbooking
// downstream. Callers load a book with its active loans preloaded and
// recompute on every request.
package availability

import (
	"time"

	"github.com/localnerve/unilib/internal/models"
)

const day = 24 * time.Hour

// BookView is a catalog row enriched with the derived availability fields.
// NextAvailableInDays is nil when no prediction can be made (a book that is
// unavailable yet has no active loans is anomalous and reported as unknown).
type BookView struct {
	models.BookItem
	AvailableCopies     int        `json:"availableCopies"`
	NextAvailableInDays *int       `json:"nextAvailableInDays"`
	SoonestDueDate      *time.Time `json:"soonestDueDate"`
}

// ActiveLoanCount counts the loans with no return date recorded
func ActiveLoanCount(loans []models.Loan) int {
	n := 0
	for i := range loans {
		if loans[i].ReturnDate == nil {
			n++
		}
	}
	return n
}

// AvailableCopies is totalCopies minus the active loan count, floored at
// zero. The floor protects against transient anomalies (a shrunk copy count
// while loans are still out); under the checkout invariant it never engages.
func AvailableCopies(totalCopies int, loans []models.Loan) int {
	available := totalCopies - ActiveLoanCount(loans)
	if available < 0 {
		return 0
	}
	return available
}

// SoonestDueDate returns the earliest due date over the active loans, or nil
// when none are active.
func SoonestDueDate(loans []models.Loan) *time.Time {
	var min *time.Time
	for i := range loans {
		if loans[i].ReturnDate != nil {
			continue
		}
		d := loans[i].DueDate
		if min == nil || d.Before(*min) {
			min = &d
		}
	}
	if min == nil {
		return nil
	}
	cp := *min
	return &cp
}

// NextAvailableInDays predicts how many days until a copy frees up:
// 0 when a copy is available now, ceil(days to the soonest due date) when all
// copies are out, nil when unavailable with no active loans (unknown).
func NextAvailableInDays(totalCopies int, loans []models.Loan, now time.Time) *int {
	if AvailableCopies(totalCopies, loans) > 0 {
		zero := 0
		return &zero
	}
	min := SoonestDueDate(loans)
	if min == nil {
		return nil
	}
	days := CeilDays(min.Sub(now))
	if days < 0 {
		days = 0
	}
	return &days
}

// CeilDays converts a duration to whole days, rounding up
func CeilDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days
}

// Enrich computes the derived fields for a book whose active loans are
// preloaded in book.Loans.
func Enrich(book models.BookItem, now time.Time) BookView {
	return BookView{
		BookItem:            book,
		AvailableCopies:     AvailableCopies(book.TotalCopies, book.Loans),
		NextAvailableInDays: NextAvailableInDays(book.TotalCopies, book.Loans, now),
		SoonestDueDate:      SoonestDueDate(book.Loans),
	}
}
