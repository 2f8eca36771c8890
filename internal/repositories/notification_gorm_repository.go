package repositories

import (
	"errors"
	"fmt"

	"socialfeed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMNotificationRepository is a GORM implementation of
// NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new instance of
// GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{db: db}
}

// Create inserts a notification.
func (r *GORMNotificationRepository) Create(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByUser returns a user's notifications, newest first.
func (r *GORMNotificationRepository) ListByUser(userID string, offset, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}
	return notifications, nil
}

// CountByUser returns the total number of notifications for a user.
func (r *GORMNotificationRepository) CountByUser(userID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count notifications for user %s: %w", userID, err)
	}
	return count, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *GORMNotificationRepository) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for user %s: %w", userID, err)
	}
	return count, nil
}

// MarkRead flips the read flag on the given notifications, scoped to the
// owning user.
func (r *GORMNotificationRepository) MarkRead(userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read for user %s: %w", userID, err)
	}
	return nil
}

// MarkAllRead flips the read flag on all of the user's unread notifications.
func (r *GORMNotificationRepository) MarkAllRead(userID string) error {
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark all notifications read for user %s: %w", userID, err)
	}
	return nil
}

// GORMDeviceTokenRepository is a GORM implementation of
// DeviceTokenRepository.
type GORMDeviceTokenRepository struct {
	db *gorm.DB
}

// NewGORMDeviceTokenRepository creates a new instance of
// GORMDeviceTokenRepository.
func NewGORMDeviceTokenRepository(db *gorm.DB) *GORMDeviceTokenRepository {
	return &GORMDeviceTokenRepository{db: db}
}

// Upsert registers a token for a user. A token already present keeps its row
// and only changes owner; the unique index on token resolves races between
// two devices registering the same string.
func (r *GORMDeviceTokenRepository) Upsert(userID, token string) error {
	var existing models.DeviceToken
	err := r.db.First(&existing, "token = ?", token).Error
	switch {
	case err == nil:
		if existing.UserID == userID {
			return nil
		}
		if err := r.db.Model(&existing).Update("user_id", userID).Error; err != nil {
			return fmt.Errorf("failed to reassign device token: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		deviceToken := models.DeviceToken{
			ID:     uuid.New().String(),
			UserID: userID,
			Token:  token,
		}
		if err := r.db.Create(&deviceToken).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race with another registration; take ownership.
				return r.reassign(userID, token)
			}
			return fmt.Errorf("failed to create device token: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("failed to look up device token: %w", err)
	}
}

func (r *GORMDeviceTokenRepository) reassign(userID, token string) error {
	err := r.db.Model(&models.DeviceToken{}).
		Where("token = ?", token).
		Update("user_id", userID).Error
	if err != nil {
		return fmt.Errorf("failed to reassign device token: %w", err)
	}
	return nil
}

// ListByUser returns all device tokens registered to a user.
func (r *GORMDeviceTokenRepository) ListByUser(userID string) ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	if err := r.db.Where("user_id = ?", userID).Find(&tokens).Error; err != nil {
		return nil, fmt.Errorf("failed to list device tokens for user %s: %w", userID, err)
	}
	return tokens, nil
}

// DeleteByToken removes a device token by its token string.
func (r *GORMDeviceTokenRepository) DeleteByToken(token string) error {
	if err := r.db.Where("token = ?", token).Delete(&models.DeviceToken{}).Error; err != nil {
		return fmt.Errorf("failed to delete device token: %w", err)
	}
	return nil
}
