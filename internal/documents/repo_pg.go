package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const docColumns = `id, case_id, user_id, title, file_name, mime_type, size_bytes, source, storage_provider, storage_key, extracted_text, ocr_used, page_count, kanoon_doc_id, kanoon_citation, processing_error, extracted_at, created_at`

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, case_id, user_id, title, file_name, mime_type, size_bytes, source, storage_provider, storage_key, extracted_text, ocr_used, page_count, kanoon_doc_id, kanoon_citation, processing_error, extracted_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, now())`

	provider := doc.StorageProvider
	if provider == "" {
		provider = "local"
	}
	source := doc.Source
	if source == "" {
		source = SourceUpload
	}

	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		nullableString(doc.CaseID),
		doc.UserID,
		doc.Title,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		source,
		provider,
		nullableString(doc.StorageKey),
		nullableString(doc.ExtractedText),
		doc.OCRUsed,
		nullableInt(doc.PageCount),
		nullableString(doc.KanoonDocID),
		nullableString(doc.KanoonCitation),
		nullableString(doc.ProcessingError),
		doc.ExtractedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	const query = `
SELECT ` + docColumns + `
FROM documents
WHERE id = $1 AND user_id = $2
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, documentID, userID))
}

func (r *PGRepo) ListByCase(ctx context.Context, userID, caseID string, limit, offset int) ([]Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + docColumns + `
FROM documents
WHERE case_id = $1 AND user_id = $2
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`

	rows, err := r.DB.QueryContext(ctx, query, caseID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateExtraction(ctx context.Context, documentID string, ex Extraction) error {
	const query = `
UPDATE documents
SET extracted_text = $1, ocr_used = $2, page_count = $3, processing_error = $4, extracted_at = $5
WHERE id = $6`
	res, err := r.DB.ExecContext(ctx, query,
		nullableString(ex.Text),
		ex.OCRUsed,
		nullableInt(ex.PageCount),
		nullableString(ex.ProcessingError),
		ex.ExtractedAt,
		documentID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var caseID, storageKey, extractedText, kanoonDocID, kanoonCitation, processingError sql.NullString
	var pageCount sql.NullInt64
	var extractedAt sql.NullTime
	err := row.Scan(
		&doc.ID,
		&caseID,
		&doc.UserID,
		&doc.Title,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.Source,
		&doc.StorageProvider,
		&storageKey,
		&extractedText,
		&doc.OCRUsed,
		&pageCount,
		&kanoonDocID,
		&kanoonCitation,
		&processingError,
		&extractedAt,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	doc.CaseID = caseID.String
	doc.StorageKey = storageKey.String
	doc.ExtractedText = extractedText.String
	doc.KanoonDocID = kanoonDocID.String
	doc.KanoonCitation = kanoonCitation.String
	doc.ProcessingError = processingError.String
	if pageCount.Valid {
		doc.PageCount = int(pageCount.Int64)
	}
	if extractedAt.Valid {
		doc.ExtractedAt = &extractedAt.Time
	}
	return doc, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
