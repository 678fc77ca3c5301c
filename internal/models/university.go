package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// University is a tenant: one school's isolated library instance, keyed by
// email domain. Loan policy (default loan length, fine per day) lives here.
type University struct {
	UniversityID    string    `gorm:"primaryKey;type:char(36)" json:"universityId"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Domain          string    `gorm:"uniqueIndex;size:255;not null" json:"domain"`
	AdminID         *string   `gorm:"type:char(36)" json:"adminId,omitempty"`
	LoanDaysDefault int       `gorm:"not null;default:7" json:"loanDaysDefault"`
	FinePerDay      float64   `gorm:"not null;default:0.5" json:"finePerDay"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID primary key
func (u *University) BeforeCreate(_ *gorm.DB) error {
	if u.UniversityID == "" {
		u.UniversityID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for University
func (University) TableName() string {
	return "universities"
}
