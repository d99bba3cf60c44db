package cases

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// PGRepo implements Repo using Postgres. Tags are stored as a JSONB array.
type PGRepo struct {
	DB *sql.DB
}

const caseColumns = `id, user_id, team_id, title, case_number, court_name, jurisdiction, plaintiff, defendant, status, description, tags, filing_date, hearing_date, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, cs Case) error {
	const query = `
INSERT INTO cases (id, user_id, team_id, title, case_number, court_name, jurisdiction, plaintiff, defendant, status, description, tags, filing_date, hearing_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())`
	tags, err := tagsJSON(cs.Tags)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		cs.ID,
		cs.UserID,
		nullableString(cs.TeamID),
		cs.Title,
		nullableString(cs.CaseNumber),
		nullableString(cs.CourtName),
		nullableString(cs.Jurisdiction),
		nullableString(cs.Plaintiff),
		nullableString(cs.Defendant),
		cs.Status,
		nullableString(cs.Description),
		tags,
		cs.FilingDate,
		cs.HearingDate,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, caseID string) (Case, error) {
	const query = `
SELECT ` + caseColumns + `
FROM cases
WHERE id = $1 AND user_id = $2
LIMIT 1`
	return scanCase(r.DB.QueryRowContext(ctx, query, caseID, userID))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, status string, limit, offset int) ([]Case, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
SELECT ` + caseColumns + `
FROM cases
WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += `
ORDER BY created_at DESC
LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Case
	for rows.Next() {
		cs, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, cs Case) error {
	const query = `
UPDATE cases
SET title = $1, case_number = $2, court_name = $3, jurisdiction = $4, plaintiff = $5,
    defendant = $6, status = $7, description = $8, tags = $9, filing_date = $10,
    hearing_date = $11, team_id = $12, updated_at = now()
WHERE id = $13 AND user_id = $14`
	tags, err := tagsJSON(cs.Tags)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		cs.Title,
		nullableString(cs.CaseNumber),
		nullableString(cs.CourtName),
		nullableString(cs.Jurisdiction),
		nullableString(cs.Plaintiff),
		nullableString(cs.Defendant),
		cs.Status,
		nullableString(cs.Description),
		tags,
		cs.FilingDate,
		cs.HearingDate,
		nullableString(cs.TeamID),
		cs.ID,
		cs.UserID,
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

func scanCase(row rowScanner) (Case, error) {
	var cs Case
	var teamID, caseNumber, courtName, jurisdiction, plaintiff, defendant, description sql.NullString
	var tagsRaw []byte
	var filingDate, hearingDate, updatedAt sql.NullTime
	err := row.Scan(
		&cs.ID,
		&cs.UserID,
		&teamID,
		&cs.Title,
		&caseNumber,
		&courtName,
		&jurisdiction,
		&plaintiff,
		&defendant,
		&cs.Status,
		&description,
		&tagsRaw,
		&filingDate,
		&hearingDate,
		&cs.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Case{}, ErrNotFound
		}
		return Case{}, err
	}
	cs.TeamID = teamID.String
	cs.CaseNumber = caseNumber.String
	cs.CourtName = courtName.String
	cs.Jurisdiction = jurisdiction.String
	cs.Plaintiff = plaintiff.String
	cs.Defendant = defendant.String
	cs.Description = description.String
	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &cs.Tags); err != nil {
			cs.Tags = nil
		}
	}
	if filingDate.Valid {
		cs.FilingDate = timePtr(filingDate.Time)
	}
	if hearingDate.Valid {
		cs.HearingDate = timePtr(hearingDate.Time)
	}
	if updatedAt.Valid {
		cs.UpdatedAt = updatedAt.Time
	}
	return cs, nil
}

func tagsJSON(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func timePtr(t time.Time) *time.Time { return &t }

var _ Repo = (*PGRepo)(nil)
