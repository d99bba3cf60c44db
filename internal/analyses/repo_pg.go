package analyses

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, case_id, document_id, user_id, analysis_type, result, model, prompt_tokens, completion_tokens, total_tokens, cost_estimate, processing_ms, created_at`

func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (id, case_id, document_id, user_id, analysis_type, result, model, prompt_tokens, completion_tokens, total_tokens, cost_estimate, processing_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())`
	_, err := r.DB.ExecContext(ctx, query,
		analysis.ID,
		nullableString(analysis.CaseID),
		nullableString(analysis.DocumentID),
		analysis.UserID,
		analysis.AnalysisType,
		analysis.Result,
		analysis.Model,
		analysis.PromptTokens,
		analysis.CompletionTokens,
		analysis.TotalTokens,
		analysis.CostEstimate,
		analysis.ProcessingMs,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, analysisID string) (Analysis, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE id = $1 AND user_id = $2
LIMIT 1`
	return scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID, userID))
}

func (r *PGRepo) ListByCase(ctx context.Context, userID, caseID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE case_id = $1 AND user_id = $2
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`

	rows, err := r.DB.QueryContext(ctx, query, caseID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var analysis Analysis
	var caseID, documentID sql.NullString
	err := row.Scan(
		&analysis.ID,
		&caseID,
		&documentID,
		&analysis.UserID,
		&analysis.AnalysisType,
		&analysis.Result,
		&analysis.Model,
		&analysis.PromptTokens,
		&analysis.CompletionTokens,
		&analysis.TotalTokens,
		&analysis.CostEstimate,
		&analysis.ProcessingMs,
		&analysis.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	analysis.CaseID = caseID.String
	analysis.DocumentID = documentID.String
	return analysis, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
