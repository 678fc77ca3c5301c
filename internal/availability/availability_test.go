// availability_test.go
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

package availability

import (
	"testing"
	"time"

	"github.com/localnerve/unilib/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func activeLoan(due time.Time) models.Loan {
	return models.Loan{DueDate: due}
}

func returnedLoan(due, returned time.Time) models.Loan {
	return models.Loan{DueDate: due, ReturnDate: &returned}
}

func TestActiveLoanCount(t *testing.T) {
	loans := []models.Loan{
		activeLoan(now.Add(24 * time.Hour)),
		returnedLoan(now, now),
		activeLoan(now.Add(48 * time.Hour)),
	}
	assert.Equal(t, 2, ActiveLoanCount(loans))
	assert.Equal(t, 0, ActiveLoanCount(nil))
}

func TestAvailableCopies(t *testing.T) {
	loans := []models.Loan{
		activeLoan(now.Add(24 * time.Hour)),
		activeLoan(now.Add(48 * time.Hour)),
	}
	assert.Equal(t, 1, AvailableCopies(3, loans))
	assert.Equal(t, 0, AvailableCopies(2, loans))
	// Floors at zero when copies shrank below active loans
	assert.Equal(t, 0, AvailableCopies(1, loans))
	assert.Equal(t, 3, AvailableCopies(3, nil))
}

func TestSoonestDueDate(t *testing.T) {
	soon := now.Add(24 * time.Hour)
	late := now.Add(72 * time.Hour)
	loans := []models.Loan{
		activeLoan(late),
		activeLoan(soon),
		// A returned loan with the earliest due date must not win
		returnedLoan(now.Add(time.Hour), now),
	}

	got := SoonestDueDate(loans)
	require.NotNil(t, got)
	assert.True(t, got.Equal(soon))

	assert.Nil(t, SoonestDueDate(nil))
	assert.Nil(t, SoonestDueDate([]models.Loan{returnedLoan(now, now)}))
}

func TestNextAvailableInDays(t *testing.T) {
	t.Run("copy free now", func(t *testing.T) {
		loans := []models.Loan{activeLoan(now.Add(24 * time.Hour))}
		got := NextAvailableInDays(2, loans, now)
		require.NotNil(t, got)
		assert.Equal(t, 0, *got)
	})

	t.Run("all copies out", func(t *testing.T) {
		loans := []models.Loan{
			activeLoan(now.Add(36 * time.Hour)),
			activeLoan(now.Add(80 * time.Hour)),
		}
		got := NextAvailableInDays(2, loans, now)
		require.NotNil(t, got)
		// 36h rounds up to 2 days
		assert.Equal(t, 2, *got)
	})

	t.Run("overdue loan predicts zero", func(t *testing.T) {
		loans := []models.Loan{activeLoan(now.Add(-24 * time.Hour))}
		got := NextAvailableInDays(1, loans, now)
		require.NotNil(t, got)
		assert.Equal(t, 0, *got)
	})

	t.Run("unavailable with no loans is unknown", func(t *testing.T) {
		assert.Nil(t, NextAvailableInDays(0, nil, now))
	})
}

func TestCeilDays(t *testing.T) {
	assert.Equal(t, 0, CeilDays(0))
	assert.Equal(t, 0, CeilDays(-time.Hour))
	assert.Equal(t, 1, CeilDays(time.Hour))
	assert.Equal(t, 1, CeilDays(24*time.Hour))
	assert.Equal(t, 2, CeilDays(25*time.Hour))
}

func TestEnrich(t *testing.T) {
	book := models.BookItem{
		Title:       "SICP",
		TotalCopies: 1,
		Loans:       []models.Loan{activeLoan(now.Add(30 * time.Hour))},
	}

	view := Enrich(book, now)
	assert.Equal(t, 0, view.AvailableCopies)
	require.NotNil(t, view.NextAvailableInDays)
	assert.Equal(t, 2, *view.NextAvailableInDays)
	require.NotNil(t, view.SoonestDueDate)
	assert.True(t, view.SoonestDueDate.Equal(now.Add(30*time.Hour)))
}
