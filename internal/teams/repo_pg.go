package teams

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, team Team, owner Member) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertTeam = `
INSERT INTO teams (id, name, description, created_at)
VALUES ($1, $2, $3, now())`
	if _, err := tx.ExecContext(ctx, insertTeam, team.ID, team.Name, nullableString(team.Description)); err != nil {
		return err
	}

	const insertOwner = `
INSERT INTO team_members (id, team_id, user_id, role, joined_at)
VALUES ($1, $2, $3, $4, now())`
	if _, err := tx.ExecContext(ctx, insertOwner, owner.ID, team.ID, owner.UserID, owner.Role); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepo) GetByID(ctx context.Context, teamID string) (Team, error) {
	const query = `
SELECT id, name, description, created_at
FROM teams
WHERE id = $1
LIMIT 1`
	var team Team
	var description sql.NullString
	err := r.DB.QueryRowContext(ctx, query, teamID).Scan(&team.ID, &team.Name, &description, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Team{}, ErrNotFound
		}
		return Team{}, err
	}
	if description.Valid {
		team.Description = description.String
	}
	return team, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Team, error) {
	const query = `
SELECT t.id, t.name, t.description, t.created_at
FROM teams t
JOIN team_members m ON m.team_id = t.id
WHERE m.user_id = $1
ORDER BY t.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Team
	for rows.Next() {
		var team Team
		var description sql.NullString
		if err := rows.Scan(&team.ID, &team.Name, &description, &team.CreatedAt); err != nil {
			return nil, err
		}
		if description.Valid {
			team.Description = description.String
		}
		out = append(out, team)
	}
	return out, rows.Err()
}

func (r *PGRepo) AddMember(ctx context.Context, member Member) error {
	const query = `
INSERT INTO team_members (id, team_id, user_id, role, joined_at)
VALUES ($1, $2, $3, $4, now())`
	_, err := r.DB.ExecContext(ctx, query, member.ID, member.TeamID, member.UserID, member.Role)
	if err != nil && strings.Contains(err.Error(), "team_members_team_id_user_id_key") {
		return ErrAlreadyMember
	}
	return err
}

func (r *PGRepo) ListMembers(ctx context.Context, teamID string) ([]Member, error) {
	const query = `
SELECT id, team_id, user_id, role, joined_at
FROM team_members
WHERE team_id = $1
ORDER BY joined_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PGRepo) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	const query = `
SELECT EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, teamID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
