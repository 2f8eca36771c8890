package models

import "time"

// Post is a feed entry. Username is a snapshot taken at creation time;
// later username changes do not rewrite historical posts.
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"index;type:varchar(36)"`
	Username  string    `json:"username" gorm:"type:varchar(100)"`
	Content   string    `json:"content" gorm:"type:text" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostView is a Post enriched with live interaction counts for the viewer.
type PostView struct {
	Post
	LikesCount    int64 `json:"likesCount"`
	CommentsCount int64 `json:"commentsCount"`
	IsLiked       bool  `json:"isLiked"`
}
