package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/localnerve/unilib/internal/models"
	"gorm.io/gorm"
)

// OnboardingInput creates a tenant and its first admin in one step
type OnboardingInput struct {
	UniversityName  string   `json:"universityName"`
	Domain          string   `json:"domain"`
	AdminEmail      string   `json:"adminEmail"`
	AdminPassword   string   `json:"adminPassword"`
	LoanDaysDefault *int     `json:"loanDaysDefault"`
	FinePerDay      *float64 `json:"finePerDay"`
}

var schemePrefix = regexp.MustCompile(`^https?://`)

// NormalizeDomain lowercases and strips scheme/trailing slash from a domain
func NormalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = schemePrefix.ReplaceAllString(d, "")
	return strings.TrimSuffix(d, "/")
}

// RegisterUniversity onboards a tenant: creates the university with its loan
// policy and the founding admin user, atomically. The admin's email domain
// must match the university domain.
func RegisterUniversity(db *gorm.DB, input OnboardingInput) (*models.University, *models.User, error) {
	name := strings.TrimSpace(input.UniversityName)
	domain := NormalizeDomain(input.Domain)
	adminEmail := strings.ToLower(strings.TrimSpace(input.AdminEmail))

	if name == "" || domain == "" || adminEmail == "" || input.AdminPassword == "" {
		return nil, nil, fmt.Errorf("%w: universityName, domain, adminEmail, adminPassword are required", ErrInvalidInput)
	}
	if EmailDomain(adminEmail) != domain {
		return nil, nil, fmt.Errorf("%w: admin email domain must match the university domain", ErrInvalidInput)
	}

	university := models.University{
		Name:            name,
		Domain:          domain,
		LoanDaysDefault: 7,
		FinePerDay:      0.5,
	}
	if input.LoanDaysDefault != nil && *input.LoanDaysDefault >= 1 {
		university.LoanDaysDefault = *input.LoanDaysDefault
	}
	if input.FinePerDay != nil && *input.FinePerDay >= 0 {
		university.FinePerDay = *input.FinePerDay
	}

	hash, err := HashPassword(input.AdminPassword)
	if err != nil {
		return nil, nil, err
	}
	admin := models.User{
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.University{}).Where("domain = ?", domain).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: a university with this domain already exists", ErrConflict)
		}

		if err := tx.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: admin user email already exists", ErrConflict)
		}

		if err := tx.Create(&university).Error; err != nil {
			return err
		}
		admin.UniversityID = university.UniversityID
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		university.AdminID = &admin.UserID
		return tx.Model(&university).Update("admin_id", admin.UserID).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &university, &admin, nil
}

// ListUniversities returns the public tenant directory, newest first
func ListUniversities(db *gorm.DB) ([]models.University, error) {
	var list []models.University
	err := db.Select("university_id", "name", "domain", "created_at").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
