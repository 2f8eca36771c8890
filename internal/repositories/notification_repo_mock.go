package repositories

import (
	"sort"
	"sync"
	"time"

	"socialfeed/internal/models"

	"github.com/google/uuid"
)

// MockNotificationRepository is an in-memory implementation of
// NotificationRepository.
type MockNotificationRepository struct {
	notifications map[string]models.Notification
	mu            sync.RWMutex
}

// NewMockNotificationRepository creates a new instance of
// MockNotificationRepository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{
		notifications: make(map[string]models.Notification),
	}
}

// Create adds a notification.
func (r *MockNotificationRepository) Create(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	r.notifications[notification.ID] = *notification
	return nil
}

// ListByUser returns a user's notifications, newest first.
func (r *MockNotificationRepository) ListByUser(userID string, offset, limit int) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			list = append(list, n)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if offset >= len(list) {
		return []models.Notification{}, nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// CountByUser returns the total number of notifications for a user.
func (r *MockNotificationRepository) CountByUser(userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID {
			count++
		}
	}
	return count, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *MockNotificationRepository) CountUnread(userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead flips the read flag on the given notifications of the user.
func (r *MockNotificationRepository) MarkRead(userID string, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if n, ok := r.notifications[id]; ok && n.UserID == userID {
			n.Read = true
			r.notifications[id] = n
		}
	}
	return nil
}

// MarkAllRead flips the read flag on all of the user's notifications.
func (r *MockNotificationRepository) MarkAllRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			r.notifications[id] = n
		}
	}
	return nil
}

// MockDeviceTokenRepository is an in-memory implementation of
// DeviceTokenRepository, keyed by token string like the real schema.
type MockDeviceTokenRepository struct {
	tokens map[string]models.DeviceToken
	mu     sync.RWMutex
}

// NewMockDeviceTokenRepository creates a new instance of
// MockDeviceTokenRepository.
func NewMockDeviceTokenRepository() *MockDeviceTokenRepository {
	return &MockDeviceTokenRepository{
		tokens: make(map[string]models.DeviceToken),
	}
}

// Upsert registers a token, reassigning ownership if it already exists.
func (r *MockDeviceTokenRepository) Upsert(userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.tokens[token]; ok {
		existing.UserID = userID
		r.tokens[token] = existing
		return nil
	}
	r.tokens[token] = models.DeviceToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now(),
	}
	return nil
}

// ListByUser returns all device tokens registered to a user.
func (r *MockDeviceTokenRepository) ListByUser(userID string) ([]models.DeviceToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []models.DeviceToken
	for _, t := range r.tokens {
		if t.UserID == userID {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Token < list[j].Token
	})
	return list, nil
}

// DeleteByToken removes a device token by its token string.
func (r *MockDeviceTokenRepository) DeleteByToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, token)
	return nil
}
