// services_test.go
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
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/unilib/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
// A single connection keeps all sessions on the same memory database and
// serializes concurrent transactions.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.University{},
		&models.User{},
		&models.BookItem{},
		&models.Loan{},
		&models.AdminNotification{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// seedUniversity creates a tenant with the given loan policy
func seedUniversity(t *testing.T, db *gorm.DB, domain string, loanDays int, finePerDay float64) *models.University {
	t.Helper()
	uni := models.University{
		Name:            "Test University " + domain,
		Domain:          domain,
		LoanDaysDefault: loanDays,
		FinePerDay:      finePerDay,
	}
	if err := db.Create(&uni).Error; err != nil {
		t.Fatalf("Failed to seed university: %v", err)
	}
	return &uni
}

// seedUser creates a user in the given tenant and returns its scope
func seedUser(t *testing.T, db *gorm.DB, uni *models.University, email, role string) Scope {
	t.Helper()
	user := models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		UniversityID: uni.UniversityID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return Scope{
		UserID:       user.UserID,
		Email:        user.Email,
		Role:         user.Role,
		UniversityID: user.UniversityID,
	}
}

// seedBook creates a catalog entry in the given tenant
func seedBook(t *testing.T, db *gorm.DB, uni *models.University, title, isbn string, copies int) *models.BookItem {
	t.Helper()
	book := models.BookItem{
		UniversityID: uni.UniversityID,
		Title:        title,
		ISBN:         isbn,
		TotalCopies:  copies,
	}
	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("Failed to seed book: %v", err)
	}
	return &book
}

// seedLoan creates a loan row directly, bypassing the checkout path
func seedLoan(t *testing.T, db *gorm.DB, book *models.BookItem, scope Scope, dueDate time.Time) *models.Loan {
	t.Helper()
	loan := models.Loan{
		BookItemID:   book.BookItemID,
		StudentID:    scope.UserID,
		UniversityID: scope.UniversityID,
		DueDate:      dueDate,
	}
	if err := db.Create(&loan).Error; err != nil {
		t.Fatalf("Failed to seed loan: %v", err)
	}
	return &loan
}
