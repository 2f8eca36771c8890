package models

import "time"

// Notification types.
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
	NotificationTypeOther   = "other"
)

// Notification is an in-app notification record. It is written by the
// dispatcher regardless of whether push delivery succeeds, and only the Read
// flag is ever mutated afterwards.
type Notification struct {
	ID        string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string            `json:"userId" gorm:"index;type:varchar(36)"`
	Title     string            `json:"title" gorm:"type:varchar(255)"`
	Body      string            `json:"body" gorm:"type:text"`
	Type      string            `json:"type" gorm:"type:varchar(20)"`
	Data      map[string]string `json:"data" gorm:"serializer:json"`
	Read      bool              `json:"read" gorm:"default:false"`
	CreatedAt time.Time         `json:"createdAt"`
}
