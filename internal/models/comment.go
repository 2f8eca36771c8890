package models

import "time"

// Comment is an append-only reply to a post. Comments are never edited or
// deleted.
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `json:"postId" gorm:"index;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36)"`
	Username  string    `json:"username" gorm:"type:varchar(100)"`
	Content   string    `json:"content" gorm:"type:text" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
}
