package teams

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is the in-memory Repo used in dev mode and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	teams   map[string]Team
	members map[string][]Member
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		teams:   make(map[string]Team),
		members: make(map[string][]Member),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, team Team, owner Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	team.CreatedAt = now
	owner.TeamID = team.ID
	owner.JoinedAt = now
	r.teams[team.ID] = team
	r.members[team.ID] = []Member{owner}
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, teamID string) (Team, error) {
	if err := ctx.Err(); err != nil {
		return Team{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	team, ok := r.teams[teamID]
	if !ok {
		return Team{}, ErrNotFound
	}
	return team, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Team, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Team
	for teamID, members := range r.members {
		for _, m := range members {
			if m.UserID == userID {
				out = append(out, r.teams[teamID])
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) AddMember(ctx context.Context, member Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[member.TeamID]; !ok {
		return ErrNotFound
	}
	for _, m := range r.members[member.TeamID] {
		if m.UserID == member.UserID {
			return ErrAlreadyMember
		}
	}
	member.JoinedAt = time.Now().UTC()
	r.members[member.TeamID] = append(r.members[member.TeamID], member)
	return nil
}

func (r *MemoryRepo) ListMembers(ctx context.Context, teamID string) ([]Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.teams[teamID]; !ok {
		return nil, ErrNotFound
	}
	return append([]Member(nil), r.members[teamID]...), nil
}

func (r *MemoryRepo) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members[teamID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

var _ Repo = (*MemoryRepo)(nil)
