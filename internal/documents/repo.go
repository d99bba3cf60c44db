package documents

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid document input")
)

// Extraction is the outcome recorded against a document after text
// extraction ran, successfully or not.
type Extraction struct {
	Text            string
	OCRUsed         bool
	PageCount       int
	ProcessingError string
	ExtractedAt     time.Time
}

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
	ListByCase(ctx context.Context, userID, caseID string, limit, offset int) ([]Document, error)
	UpdateExtraction(ctx context.Context, documentID string, ex Extraction) error
}
