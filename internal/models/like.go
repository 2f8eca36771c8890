package models

import "time"

// Like marks a post as liked by a user. The composite unique index keeps at
// most one row per (post, user) pair, which is what makes the toggle safe
// under concurrent calls.
type Like struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `json:"postId" gorm:"uniqueIndex:idx_likes_post_user;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"uniqueIndex:idx_likes_post_user;type:varchar(36)"`
	Username  string    `json:"username" gorm:"type:varchar(100)"`
	CreatedAt time.Time `json:"createdAt"`
}
