package cases

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("case not found")
	ErrInvalidInput = errors.New("invalid case input")
)

// Repo defines persistence operations for cases.
type Repo interface {
	Create(ctx context.Context, cs Case) error
	GetByID(ctx context.Context, userID, caseID string) (Case, error)
	ListByUser(ctx context.Context, userID string, status string, limit, offset int) ([]Case, error)
	Update(ctx context.Context, cs Case) error
}
