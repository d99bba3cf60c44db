package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"legal-backend/internal/extract"
	"legal-backend/internal/shared/storage/object"
	"legal-backend/internal/shared/telemetry"
	"legal-backend/internal/shared/util"
)

// CaseChecker verifies that a case exists and belongs to the caller before a
// document is attached to it.
type CaseChecker interface {
	Exists(ctx context.Context, userID, caseID string) (bool, error)
}

// Enqueuer publishes extraction jobs. When nil, extraction runs inline.
type Enqueuer interface {
	EnqueueExtraction(ctx context.Context, documentID, userID, requestID string) error
}

// Service contains document business logic.
type Service struct {
	Store     object.ObjectStore
	Repo      Repo
	Extractor *extract.Extractor
	Cases     CaseChecker
	Queue     Enqueuer
}

// Upload stores the file, records the document and extracts its text. With a
// queue configured the extraction happens in the worker; otherwise inline.
func (s *Service) Upload(ctx context.Context, userID, caseID, title, fileName, requestID string, r io.Reader) (Document, error) {
	fileName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	if caseID != "" && s.Cases != nil {
		ok, err := s.Cases.Exists(ctx, userID, caseID)
		if err != nil {
			return Document{}, err
		}
		if !ok {
			return Document{}, fmt.Errorf("%w: case %s", ErrInvalidInput, caseID)
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, err
	}

	if strings.TrimSpace(title) == "" {
		title = fileName
	}
	doc := Document{
		ID:         uuid.NewString(),
		CaseID:     caseID,
		UserID:     userID,
		Title:      title,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		Source:     SourceUpload,
		StorageKey: storageKey,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	if s.Queue != nil {
		err := s.Queue.EnqueueExtraction(ctx, doc.ID, userID, requestID)
		if err == nil {
			return s.Repo.GetByID(ctx, userID, doc.ID)
		}
		// Fall through to inline extraction when the queue rejects the job.
		telemetry.Warn("documents.enqueue_failed", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
	}

	s.extractAndRecord(ctx, doc.ID, data, mimeType, fileName)
	return s.Repo.GetByID(ctx, userID, doc.ID)
}

// ExtractStored re-runs extraction for a stored document; the worker path.
func (s *Service) ExtractStored(ctx context.Context, userID, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return err
	}
	if doc.StorageKey == "" {
		return fmt.Errorf("%w: document has no stored object", ErrInvalidInput)
	}

	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}

	s.extractAndRecord(ctx, doc.ID, data, doc.MimeType, doc.FileName)
	return nil
}

// ProcessBytes extracts text from an in-memory payload without persisting
// anything. Serves the one-shot file processing endpoint.
func (s *Service) ProcessBytes(ctx context.Context, data []byte, mimeType, fileName string) (extract.Result, error) {
	if s.Extractor == nil {
		return extract.Result{}, errors.New("extractor not configured")
	}
	return s.Extractor.FromBytes(ctx, data, mimeType, fileName)
}

// Get fetches a document owned by the user.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	return s.Repo.GetByID(ctx, userID, documentID)
}

// ListByCase returns a case's documents newest-first.
func (s *Service) ListByCase(ctx context.Context, userID, caseID string, limit, offset int) ([]Document, error) {
	return s.Repo.ListByCase(ctx, userID, caseID, limit, offset)
}

// extractAndRecord runs extraction and stores the outcome on the document
// row. Extraction failures are recorded, not returned: the upload succeeded.
func (s *Service) extractAndRecord(ctx context.Context, documentID string, data []byte, mimeType, fileName string) {
	if s.Extractor == nil {
		return
	}

	ex := Extraction{ExtractedAt: time.Now().UTC()}
	result, err := s.Extractor.FromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		ex.ProcessingError = err.Error()
	} else {
		ex.Text = result.Text
		ex.OCRUsed = result.OCRUsed
		ex.PageCount = result.PageCount
		ex.ProcessingError = result.Warning
	}

	if err := s.Repo.UpdateExtraction(ctx, documentID, ex); err != nil {
		telemetry.Error("documents.extraction_record_failed", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
	}
}
