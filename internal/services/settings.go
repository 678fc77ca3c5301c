package services

import (
	"errors"
	"fmt"

	"github.com/localnerve/unilib/internal/models"
	"gorm.io/gorm"
)

// SettingsUpdate carries a partial loan-policy update; nil fields are untouched
type SettingsUpdate struct {
	LoanDaysDefault *int     `json:"loanDaysDefault"`
	FinePerDay      *float64 `json:"finePerDay"`
}

// GetSettings returns the caller's university with its loan policy
func GetSettings(db *gorm.DB, scope Scope) (*models.University, error) {
	var university models.University
	if err := db.First(&university, "university_id = ?", scope.UniversityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &university, nil
}

// UpdateSettings changes the tenant's loan policy. loanDaysDefault must stay
// at least one day; finePerDay cannot go negative.
func UpdateSettings(db *gorm.DB, scope Scope, update SettingsUpdate) (*models.University, error) {
	university, err := GetSettings(db, scope)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if update.LoanDaysDefault != nil {
		if *update.LoanDaysDefault < 1 {
			return nil, fmt.Errorf("%w: loanDaysDefault must be >= 1", ErrInvalidInput)
		}
		changes["loan_days_default"] = *update.LoanDaysDefault
	}
	if update.FinePerDay != nil {
		if *update.FinePerDay < 0 {
			return nil, fmt.Errorf("%w: finePerDay must be >= 0", ErrInvalidInput)
		}
		changes["fine_per_day"] = *update.FinePerDay
	}
	if len(changes) == 0 {
		return university, nil
	}

	if err := db.Model(university).Updates(changes).Error; err != nil {
		return nil, err
	}
	return university, nil
}
