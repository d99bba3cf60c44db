package cases

import "time"

// Case is a legal matter tracked by a user, optionally shared with a team.
type Case struct {
	ID           string
	UserID       string
	TeamID       string
	Title        string
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
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusClosed   = "closed"
	StatusArchived = "archived"
)

func validStatus(status string) bool {
	switch status {
	case StatusDraft, StatusActive, StatusClosed, StatusArchived:
		return true
	default:
		return false
	}
}
