package analyses

import "time"

// Analysis is one AI analysis run. Rows are immutable after insert; a re-run
// produces a fresh row rather than overwriting history.
type Analysis struct {
	ID               string
	CaseID           string
	DocumentID       string
	UserID           string
	AnalysisType     string
	Result           string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	CostEstimate     float64
	ProcessingMs     int64
	CreatedAt        time.Time
}
