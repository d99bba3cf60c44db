package analyses

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("analysis not found")
	ErrInvalidInput = errors.New("invalid analysis input")
)

// Repo defines persistence operations for analyses. There is deliberately no
// update: analysis rows are append-only.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, userID, analysisID string) (Analysis, error)
	ListByCase(ctx context.Context, userID, caseID string, limit, offset int) ([]Analysis, error)
}
