package services

import (
	"context"
	"fmt"
	"log"

	"socialfeed/internal/models"
	"socialfeed/internal/repositories"
	"socialfeed/pkg/push"
)

// NotificationService persists notification records, fans pushes out to the
// recipient's registered devices, and prunes tokens the provider rejects.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	tokenRepo        repositories.DeviceTokenRepository
	messenger        push.Messenger
}

// NewNotificationService creates a new NotificationService. messenger may be
// nil, in which case notifications are recorded but no push is attempted.
func NewNotificationService(notificationRepo repositories.NotificationRepository, tokenRepo repositories.DeviceTokenRepository, messenger push.Messenger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		tokenRepo:        tokenRepo,
		messenger:        messenger,
	}
}

// Dispatch records an in-app notification and attempts push delivery to every
// device token of the recipient. It never reports failure to the caller: the
// triggering action must not fail because a push could not be delivered, so
// everything here is logged and swallowed. Device tokens the provider
// individually rejects are deleted.
func (s *NotificationService) Dispatch(userID, title, body string, data map[string]string) {
	if data == nil {
		data = map[string]string{}
	}
	kind := data["type"]
	switch kind {
	case models.NotificationTypeLike, models.NotificationTypeComment, models.NotificationTypeFollow:
	default:
		kind = models.NotificationTypeOther
	}

	notification := &models.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
		Type:   kind,
		Data:   data,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		log.Printf("Failed to save notification for user %s: %v", userID, err)
		return
	}

	if s.messenger == nil {
		return
	}

	tokens, err := s.tokenRepo.ListByUser(userID)
	if err != nil {
		log.Printf("Failed to load device tokens for user %s: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	messages := make([]push.Message, 0, len(tokens))
	for _, t := range tokens {
		messages = append(messages, push.Message{
			Token: t.Token,
			Title: title,
			Body:  body,
			Data:  data,
		})
	}

	resp, err := s.messenger.SendEach(context.Background(), messages)
	if err != nil {
		log.Printf("Failed to send push notifications to user %s: %v", userID, err)
		return
	}
	log.Printf("Sent %d notification(s) to user %s", resp.SuccessCount, userID)

	// Self-healing cleanup: drop every token the provider rejected.
	for i, result := range resp.Responses {
		if result.Error == nil {
			continue
		}
		log.Printf("Error sending to token: %v", result.Error)
		if err := s.tokenRepo.DeleteByToken(tokens[i].Token); err != nil {
			log.Printf("Failed to delete stale device token: %v", err)
		}
	}
}

// RegisterToken registers a device token for push delivery. Registering a
// token that belongs to another user moves it to the new user.
func (s *NotificationService) RegisterToken(userID, token string) error {
	if err := s.tokenRepo.Upsert(userID, token); err != nil {
		return fmt.Errorf("failed to register device token: %w", err)
	}
	return nil
}

// List returns a page of the user's notifications along with the total and
// unread counts.
func (s *NotificationService) List(userID string, page, limit int) ([]models.Notification, int64, int64, error) {
	page, limit = normalizePage(page, limit, 20)

	notifications, err := s.notificationRepo.ListByUser(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	total, err := s.notificationRepo.CountByUser(userID)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, 0, 0, err
	}
	return notifications, total, unread, nil
}

// MarkRead marks the given notifications of the user as read.
func (s *NotificationService) MarkRead(userID string, ids []string) error {
	return s.notificationRepo.MarkRead(userID, ids)
}

// MarkAllRead marks every unread notification of the user as read.
func (s *NotificationService) MarkAllRead(userID string) error {
	return s.notificationRepo.MarkAllRead(userID)
}

// SendTest dispatches a test notification to the caller.
func (s *NotificationService) SendTest(userID, username string) {
	s.Dispatch(
		userID,
		"Test Notification",
		fmt.Sprintf("Hello %s! This is a test notification.", username),
		map[string]string{"type": models.NotificationTypeOther},
	)
}
