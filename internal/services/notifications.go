package services

import (
	"log"
	"time"

	"github.com/localnerve/unilib/internal/models"
	"gorm.io/gorm"
)

// Maximum rows a single activity-feed read may return
const maxNotificationLimit = 100

// NotificationView is the normalized activity feed entry
type NotificationView struct {
	NotificationID string    `json:"notificationId"`
	Type           string    `json:"type"`
	CreatedAt      time.Time `json:"createdAt"`
	Message        string    `json:"message"`
	UserEmail      string    `json:"userEmail,omitempty"`
	BookTitle      string    `json:"bookTitle,omitempty"`
	BookISBN       string    `json:"bookISBN,omitempty"`
}

// recordActivity appends a borrow/return event to the admin feed.
// Best-effort by contract: a failed append is logged and swallowed so it can
// never fail or roll back the loan mutation it trails.
func recordActivity(db *gorm.DB, scope Scope, book *models.BookItem, eventType, message string) {
	n := models.AdminNotification{
		UniversityID: scope.UniversityID,
		UserID:       scope.UserID,
		BookItemID:   book.BookItemID,
		Type:         eventType,
		Message:      message,
	}
	if err := db.Create(&n).Error; err != nil {
		log.Printf("notifications: failed to record %s activity for book %s: %v", eventType, book.BookItemID, err)
	}
}

// ListNotifications returns the tenant's activity feed, newest first
func ListNotifications(db *gorm.DB, scope Scope, limit int) ([]NotificationView, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	var rows []models.AdminNotification
	err := db.Preload("User").Preload("BookItem").
		Where("university_id = ?", scope.UniversityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]NotificationView, 0, len(rows))
	for _, n := range rows {
		v := NotificationView{
			NotificationID: n.NotificationID,
			Type:           n.Type,
			CreatedAt:      n.CreatedAt,
			Message:        n.Message,
		}
		if n.User != nil {
			v.UserEmail = n.User.Email
		}
		if n.BookItem != nil {
			v.BookTitle = n.BookItem.Title
			v.BookISBN = n.BookItem.ISBN
		}
		views = append(views, v)
	}
	return views, nil
}
