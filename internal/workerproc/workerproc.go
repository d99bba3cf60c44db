// Package workerproc parses and processes extraction jobs pulled off the
// queue. Parse failures are typed so the worker loop can decide between
// dropping a poison message and retrying a transient failure.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"legal-backend/internal/documents"
	"legal-backend/internal/queue"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingDocumentID indicates a message missing the document id.
type ErrMissingDocumentID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingDocumentID) Error() string { return "missing document id" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	DocumentID string
	RequestID  string
	Err        error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process document"
	}
	return "process document: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.DocumentID) == "" {
		return msg, meta, ErrMissingDocumentID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

// HandleMessage parses a payload and runs extraction for the referenced
// document.
func HandleMessage(ctx context.Context, svc *documents.Service, body string) error {
	if svc == nil {
		return errors.New("documents service not configured")
	}

	msg, _, err := ParseMessage(body)
	if err != nil {
		return err
	}

	if err := svc.ExtractStored(ctx, msg.UserID, msg.DocumentID); err != nil {
		return ErrProcess{DocumentID: msg.DocumentID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
