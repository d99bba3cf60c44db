package cases

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is the in-memory Repo used in dev mode and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	cases map[string]Case
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{cases: make(map[string]Case)}
}

func (r *MemoryRepo) Create(ctx context.Context, cs Case) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cs.CreatedAt = time.Now().UTC()
	r.cases[cs.ID] = cs
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, caseID string) (Case, error) {
	if err := ctx.Err(); err != nil {
		return Case{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cs, ok := r.cases[caseID]
	if !ok || cs.UserID != userID {
		return Case{}, ErrNotFound
	}
	return cs, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, status string, limit, offset int) ([]Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []Case
	for _, cs := range r.cases {
		if cs.UserID != userID {
			continue
		}
		if status != "" && cs.Status != status {
			continue
		}
		all = append(all, cs)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return append([]Case(nil), all[offset:end]...), nil
}

func (r *MemoryRepo) Update(ctx context.Context, cs Case) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.cases[cs.ID]
	if !ok || existing.UserID != cs.UserID {
		return ErrNotFound
	}
	cs.CreatedAt = existing.CreatedAt
	cs.UpdatedAt = time.Now().UTC()
	r.cases[cs.ID] = cs
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
