package cases

import "time"

// CaseResponse is the outward-facing representation of a case.
type CaseResponse struct {
	ID           string     `json:"id"`
	TeamID       string     `json:"teamId,omitempty"`
	Title        string     `json:"title"`
	CaseNumber   string     `json:"caseNumber,omitempty"`
	CourtName    string     `json:"courtName,omitempty"`
	Jurisdiction string     `json:"jurisdiction,omitempty"`
	Plaintiff    string     `json:"plaintiff,omitempty"`
	Defendant    string     `json:"defendant,omitempty"`
	Status       string     `json:"status"`
	Description  string     `json:"description,omitempty"`
	Tags         []string   `json:"tags"`
	FilingDate   *time.Time `json:"filingDate,omitempty"`
	HearingDate  *time.Time `json:"hearingDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

func toResponse(cs Case) CaseResponse {
	tags := cs.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := CaseResponse{
		ID:           cs.ID,
		TeamID:       cs.TeamID,
		Title:        cs.Title,
		CaseNumber:   cs.CaseNumber,
		CourtName:    cs.CourtName,
		Jurisdiction: cs.Jurisdiction,
		Plaintiff:    cs.Plaintiff,
		Defendant:    cs.Defendant,
		Status:       cs.Status,
		Description:  cs.Description,
		Tags:         tags,
		FilingDate:   cs.FilingDate,
		HearingDate:  cs.HearingDate,
		CreatedAt:    cs.CreatedAt,
	}
	if !cs.UpdatedAt.IsZero() {
		updated := cs.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
