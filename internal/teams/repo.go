package teams

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("team not found")
	ErrAlreadyMember = errors.New("user is already a member")
)

// Repo defines persistence operations for teams and memberships.
type Repo interface {
	Create(ctx context.Context, team Team, owner Member) error
	GetByID(ctx context.Context, teamID string) (Team, error)
	ListByUser(ctx context.Context, userID string) ([]Team, error)
	AddMember(ctx context.Context, member Member) error
	ListMembers(ctx context.Context, teamID string) ([]Member, error)
	IsMember(ctx context.Context, teamID, userID string) (bool, error)
}
