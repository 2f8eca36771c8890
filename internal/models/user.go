package models

import "time"

// User represents a registered account. The Password field holds a bcrypt
// hash and is never serialized.
type User struct {
	ID        string    `json:"userId" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	CreatedAt time.Time `json:"createdAt"`
}
