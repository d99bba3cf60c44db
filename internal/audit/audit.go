// Package audit records search activity. The log is append-only: there is no
// update or delete path.
package audit

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Search log kinds.
const (
	KindKanoon = "kanoon"
	KindCNR    = "cnr"
)

// Entry is one recorded search.
type Entry struct {
	ID        string
	UserID    string
	Query     string
	Kind      string
	CreatedAt time.Time
}

// Log records and lists search entries.
type Log interface {
	Record(ctx context.Context, userID, query, kind string) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
}

// PGLog implements Log using Postgres.
type PGLog struct {
	DB *sql.DB
}

func (l *PGLog) Record(ctx context.Context, userID, query, kind string) error {
	const stmt = `
INSERT INTO search_logs (id, user_id, query, kind, created_at)
VALUES ($1, $2, $3, $4, now())`
	_, err := l.DB.ExecContext(ctx, stmt, uuid.NewString(), userID, query, kind)
	return err
}

func (l *PGLog) ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const query = `
SELECT id, user_id, query, kind, created_at
FROM search_logs
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := l.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Query, &e.Kind, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MemoryLog is the in-memory Log used in dev mode and tests.
type MemoryLog struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Record(ctx context.Context, userID, query, kind string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Query:     query,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (l *MemoryLog) ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Entry
	for _, e := range l.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var (
	_ Log = (*PGLog)(nil)
	_ Log = (*MemoryLog)(nil)
)
