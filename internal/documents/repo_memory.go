package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is the in-memory Repo used in dev mode and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document)}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.Source == "" {
		doc.Source = SourceUpload
	}
	if doc.StorageProvider == "" {
		doc.StorageProvider = "local"
	}
	doc.CreatedAt = time.Now().UTC()
	r.docs[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[documentID]
	if !ok || doc.UserID != userID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (r *MemoryRepo) ListByCase(ctx context.Context, userID, caseID string, limit, offset int) ([]Document, error) {
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
	var all []Document
	for _, doc := range r.docs {
		if doc.CaseID == caseID && doc.UserID == userID {
			all = append(all, doc)
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
	return append([]Document(nil), all[offset:end]...), nil
}

func (r *MemoryRepo) UpdateExtraction(ctx context.Context, documentID string, ex Extraction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return ErrNotFound
	}
	doc.ExtractedText = ex.Text
	doc.OCRUsed = ex.OCRUsed
	doc.PageCount = ex.PageCount
	doc.ProcessingError = ex.ProcessingError
	extractedAt := ex.ExtractedAt
	doc.ExtractedAt = &extractedAt
	r.docs[documentID] = doc
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
