package models

import "time"

// DeviceToken is a push destination registered by a client device. A token
// string belongs to at most one user at a time; re-registration under a new
// account reassigns ownership.
type DeviceToken struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"-" gorm:"index;type:varchar(36)"`
	Token     string    `json:"-" gorm:"uniqueIndex;type:varchar(512)"` // Don't expose the token in JSON
	CreatedAt time.Time `json:"createdAt"`
}
