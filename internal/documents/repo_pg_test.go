package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateDefaultsSourceAndProvider(t *testing.T) {
	repo, mock := newMockRepo(t)

	doc := Document{
		ID:        "doc-1",
		CaseID:    "case-1",
		UserID:    "user-1",
		Title:     "Order",
		FileName:  "order.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 1024,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.CaseID,
			doc.UserID,
			doc.Title,
			doc.FileName,
			doc.MimeType,
			doc.SizeBytes,
			SourceUpload, // empty source defaults
			"local",      // empty provider defaults
			nil,          // storage_key
			nil,          // extracted_text
			false,
			nil, // page_count
			nil, // kanoon_doc_id
			nil, // kanoon_citation
			nil, // processing_error
			nil, // extracted_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScansNullableColumns(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "case_id", "user_id", "title", "file_name", "mime_type", "size_bytes",
		"source", "storage_provider", "storage_key", "extracted_text", "ocr_used",
		"page_count", "kanoon_doc_id", "kanoon_citation", "processing_error",
		"extracted_at", "created_at",
	}).AddRow(
		"doc-1", nil, "user-1", "Order", "order.txt", "text/plain", int64(42),
		SourceKanoonFetch, "local", nil, "body", false,
		nil, "12345", nil, nil,
		nil, created,
	)

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("doc-1", "user-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.CaseID != "" {
		t.Fatalf("CaseID = %q, want empty from NULL", doc.CaseID)
	}
	if doc.ExtractedText != "body" || doc.KanoonDocID != "12345" {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.ExtractedAt != nil {
		t.Fatal("ExtractedAt should be nil for NULL column")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("missing", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "user-1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestPGRepoUpdateExtractionNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	mock.ExpectExec("UPDATE documents").
		WithArgs("text", true, 3, nil, now, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateExtraction(context.Background(), "missing", Extraction{
		Text:        "text",
		OCRUsed:     true,
		PageCount:   3,
		ExtractedAt: now,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
