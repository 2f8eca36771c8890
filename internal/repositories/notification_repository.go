package repositories

import "socialfeed/internal/models"

// NotificationRepository defines the interface for notification data access.
// MarkRead only touches rows owned by userID, so callers cannot flip other
// users' notifications by guessing IDs.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByUser(userID string, offset, limit int) ([]models.Notification, error)
	CountByUser(userID string) (int64, error)
	CountUnread(userID string) (int64, error)
	MarkRead(userID string, ids []string) error
	MarkAllRead(userID string) error
}

// DeviceTokenRepository defines the interface for push-token data access.
// Upsert is keyed by the token string: registering a known token under a new
// user reassigns ownership instead of duplicating the row.
type DeviceTokenRepository interface {
	Upsert(userID, token string) error
	ListByUser(userID string) ([]models.DeviceToken, error)
	DeleteByToken(token string) error
}
