package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationBorrow = "borrow"
	NotificationReturn = "return"
)

// AdminNotification is an append-only activity record for the admin feed.
// Rows are never mutated and are read newest first.
type AdminNotification struct {
	NotificationID string    `gorm:"primaryKey;type:char(36)" json:"notificationId"`
	UniversityID   string    `gorm:"type:char(36);not null;index" json:"universityId"`
	UserID         string    `gorm:"type:char(36);not null" json:"userId"`
	BookItemID     string    `gorm:"type:char(36);not null" json:"bookItemId"`
	Type           string    `gorm:"size:16;not null" json:"type"`
	Message        string    `gorm:"size:512;not null" json:"message"`
	Unread         bool      `gorm:"not null;default:true" json:"unread"`
	CreatedAt      time.Time `json:"createdAt"`

	User     *User     `gorm:"foreignKey:UserID;references:UserID" json:"-"`
	BookItem *BookItem `gorm:"foreignKey:BookItemID;references:BookItemID" json:"-"`
}

// BeforeCreate assigns a UUID primary key
func (n *AdminNotification) BeforeCreate(_ *gorm.DB) error {
	if n.NotificationID == "" {
		n.NotificationID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for AdminNotification
func (AdminNotification) TableName() string {
	return "admin_notifications"
}
