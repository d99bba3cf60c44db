package cases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Input carries the writable fields of a case.
type Input struct {
	Title        string
	TeamID       string
	CaseNumber   string
	CourtName    string
	Jurisdiction string
	Plaintiff    string
	Defendant    string
	Status       string
	Description  string
	Tags         []string
	FilingDate   *time.Time
	HearingDate  *time.Time
}

// Service contains case business logic.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create validates and persists a new case.
func (s *Service) Create(ctx context.Context, userID string, in Input) (Case, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return Case{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = StatusDraft
	}
	if !validStatus(in.Status) {
		return Case{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
	}

	cs := fromInput(in)
	cs.ID = uuid.NewString()
	cs.UserID = userID
	if err := s.Repo.Create(ctx, cs); err != nil {
		return Case{}, err
	}
	return s.Repo.GetByID(ctx, userID, cs.ID)
}

// Get fetches a case owned by the user.
func (s *Service) Get(ctx context.Context, userID, caseID string) (Case, error) {
	return s.Repo.GetByID(ctx, userID, caseID)
}

// List returns the user's cases, optionally filtered by status.
func (s *Service) List(ctx context.Context, userID, status string, limit, offset int) ([]Case, error) {
	if status != "" && !validStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.Repo.ListByUser(ctx, userID, status, limit, offset)
}

// Update replaces the writable fields of an existing case.
func (s *Service) Update(ctx context.Context, userID, caseID string, in Input) (Case, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return Case{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = StatusDraft
	}
	if !validStatus(in.Status) {
		return Case{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
	}

	cs := fromInput(in)
	cs.ID = caseID
	cs.UserID = userID
	if err := s.Repo.Update(ctx, cs); err != nil {
		return Case{}, err
	}
	return s.Repo.GetByID(ctx, userID, caseID)
}

func fromInput(in Input) Case {
	return Case{
		TeamID:       strings.TrimSpace(in.TeamID),
		Title:        in.Title,
		CaseNumber:   strings.TrimSpace(in.CaseNumber),
		CourtName:    strings.TrimSpace(in.CourtName),
		Jurisdiction: strings.TrimSpace(in.Jurisdiction),
		Plaintiff:    strings.TrimSpace(in.Plaintiff),
		Defendant:    strings.TrimSpace(in.Defendant),
		Status:       in.Status,
		Description:  in.Description,
		Tags:         in.Tags,
		FilingDate:   in.FilingDate,
		HearingDate:  in.HearingDate,
	}
}
