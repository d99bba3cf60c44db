// Package llm abstracts the hosted completion providers used for legal
// document analysis.
package llm

import (
	"context"
	"fmt"
	"strings"

	"legal-backend/internal/upstream"
)

// Analysis types accepted by the analyze endpoints.
const (
	TypeSummary            = "summary"
	TypeRiskAssessment     = "risk-assessment"
	TypeCaseAnalysis       = "case-analysis"
	TypeArgumentGeneration = "argument-generation"
	TypeOutcomePrediction  = "outcome-prediction"
)

// AnalyzeInput captures the inputs for a single analysis call.
type AnalyzeInput struct {
	Text         string
	AnalysisType string
	// Context carries optional case metadata (court, citation, date) that
	// is appended to the prompt.
	Context map[string]string
}

// Usage is the token and cost accounting for one completion call.
type Usage struct {
	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	TotalTokens      int     `json:"totalTokens"`
	CostEstimate     float64 `json:"costEstimate"`
}

// Analysis is the provider response. Result is passed through verbatim; the
// provider output is never validated or reshaped.
type Analysis struct {
	Result       string `json:"result"`
	Model        string `json:"model"`
	Usage        Usage  `json:"usage"`
	ProcessingMs int64  `json:"processingMs"`
}

// Client abstracts completion providers.
type Client interface {
	Analyze(ctx context.Context, input AnalyzeInput) (Analysis, error)
}

// NormalizeType validates an analysis type, defaulting empty to summary.
func NormalizeType(raw string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(raw))
	switch t {
	case "":
		return TypeSummary, nil
	case TypeSummary, TypeRiskAssessment, TypeCaseAnalysis, TypeArgumentGeneration, TypeOutcomePrediction:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown analysis type %q", upstream.ErrInvalidInput, raw)
	}
}

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Analyze always fails; analysis requires a configured provider.
func (PlaceholderClient) Analyze(ctx context.Context, input AnalyzeInput) (Analysis, error) {
	_ = ctx
	_ = input
	return Analysis{}, fmt.Errorf("%w: no completion provider configured", upstream.ErrAnalysisFailed)
}
