package queue

import (
	"context"
	"time"
)

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Publisher adapts a Client to the shape the documents service expects.
type Publisher struct {
	Client Client
}

// EnqueueExtraction publishes an extraction job for a stored document.
func (p *Publisher) EnqueueExtraction(ctx context.Context, documentID, userID, requestID string) error {
	return p.Client.Send(ctx, Message{
		DocumentID: documentID,
		UserID:     userID,
		RequestID:  requestID,
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    1,
	})
}
