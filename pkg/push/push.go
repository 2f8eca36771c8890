// Package push abstracts the external push-notification provider. The
// dispatcher depends on the Messenger interface so delivery can be mocked in
// tests and disabled entirely when no credential is configured.
package push

import "context"

// Message is one push notification addressed to a single device token.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// SendResponse is the provider's verdict on a single message. A non-nil
// Error marks the destination token as undeliverable.
type SendResponse struct {
	Success   bool
	MessageID string
	Error     error
}

// BatchResponse is the provider's verdict on a batch. Responses are in the
// same order as the submitted messages.
type BatchResponse struct {
	SuccessCount int
	FailureCount int
	Responses    []SendResponse
}

// Messenger submits a batch of push messages in a single round trip.
type Messenger interface {
	SendEach(ctx context.Context, messages []Message) (*BatchResponse, error)
}
