package analyses

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is the in-memory Repo used in dev mode and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows map[string]Analysis
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Analysis)}
}

func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis.CreatedAt = time.Now().UTC()
	r.rows[analysis.ID] = analysis
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.rows[analysisID]
	if !ok || analysis.UserID != userID {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

func (r *MemoryRepo) ListByCase(ctx context.Context, userID, caseID string, limit, offset int) ([]Analysis, error) {
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
	var all []Analysis
	for _, analysis := range r.rows {
		if analysis.CaseID == caseID && analysis.UserID == userID {
			all = append(all, analysis)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return append([]Analysis(nil), all[offset:end]...), nil
}

var _ Repo = (*MemoryRepo)(nil)
