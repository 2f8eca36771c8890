package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMMessenger delivers push messages through Firebase Cloud Messaging.
type FCMMessenger struct {
	client *messaging.Client
}

// NewFCMMessenger initializes the Firebase app from a service-account file
// and returns a ready messenger. Called once at process start; the handle is
// passed to whoever needs to send.
func NewFCMMessenger(ctx context.Context, credentialsFile string) (*FCMMessenger, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize fcm client: %w", err)
	}
	return &FCMMessenger{client: client}, nil
}

// SendEach submits the batch to FCM and maps the per-message results back.
func (m *FCMMessenger) SendEach(ctx context.Context, messages []Message) (*BatchResponse, error) {
	fcmMessages := make([]*messaging.Message, 0, len(messages))
	for _, msg := range messages {
		fcmMessages = append(fcmMessages, &messaging.Message{
			Token: msg.Token,
			Notification: &messaging.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
		})
	}

	batch, err := m.client.SendEach(ctx, fcmMessages)
	if err != nil {
		return nil, fmt.Errorf("fcm batch send failed: %w", err)
	}

	resp := &BatchResponse{
		SuccessCount: batch.SuccessCount,
		FailureCount: batch.FailureCount,
		Responses:    make([]SendResponse, 0, len(batch.Responses)),
	}
	for _, r := range batch.Responses {
		resp.Responses = append(resp.Responses, SendResponse{
			Success:   r.Success,
			MessageID: r.MessageID,
			Error:     r.Error,
		})
	}
	return resp, nil
}
