package analyses

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"legal-backend/internal/llm"
	"legal-backend/internal/shared/metrics"
)

// DocumentSource supplies the extracted text of a stored document.
type DocumentSource interface {
	ExtractedText(ctx context.Context, userID, documentID string) (text, caseID string, err error)
}

// Service runs AI analyses and records the results.
type Service struct {
	Repo Repo
	LLM  llm.Client
	Docs DocumentSource
}

// AnalyzeDocument runs an analysis over a stored document's extracted text
// and persists the result as a new row.
func (s *Service) AnalyzeDocument(ctx context.Context, userID, caseID, documentID, analysisType string, extraContext map[string]string) (Analysis, error) {
	analysisType, err := llm.NormalizeType(analysisType)
	if err != nil {
		return Analysis{}, err
	}

	text, docCaseID, err := s.Docs.ExtractedText(ctx, userID, documentID)
	if err != nil {
		return Analysis{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Analysis{}, fmt.Errorf("%w: document has no extracted text", ErrInvalidInput)
	}
	if caseID == "" {
		caseID = docCaseID
	}

	result, err := s.LLM.Analyze(ctx, llm.AnalyzeInput{
		Text:         text,
		AnalysisType: analysisType,
		Context:      extraContext,
	})
	if err != nil {
		metrics.IncUpstreamError()
		return Analysis{}, err
	}
	metrics.IncUpstreamAnalysis()

	analysis := fromLLM(result, analysisType)
	analysis.ID = uuid.NewString()
	analysis.CaseID = caseID
	analysis.DocumentID = documentID
	analysis.UserID = userID
	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, err
	}
	return s.Repo.GetByID(ctx, userID, analysis.ID)
}

// AnalyzeText runs an analysis over raw text without persisting anything.
func (s *Service) AnalyzeText(ctx context.Context, text, analysisType string, extraContext map[string]string) (llm.Analysis, string, error) {
	analysisType, err := llm.NormalizeType(analysisType)
	if err != nil {
		return llm.Analysis{}, "", err
	}
	if strings.TrimSpace(text) == "" {
		return llm.Analysis{}, "", fmt.Errorf("%w: text is required", ErrInvalidInput)
	}

	result, err := s.LLM.Analyze(ctx, llm.AnalyzeInput{
		Text:         text,
		AnalysisType: analysisType,
		Context:      extraContext,
	})
	if err != nil {
		metrics.IncUpstreamError()
		return llm.Analysis{}, "", err
	}
	metrics.IncUpstreamAnalysis()
	return result, analysisType, nil
}

// Get fetches an analysis owned by the user.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	return s.Repo.GetByID(ctx, userID, analysisID)
}

// ListByCase returns a case's analyses newest-first.
func (s *Service) ListByCase(ctx context.Context, userID, caseID string, limit, offset int) ([]Analysis, error) {
	return s.Repo.ListByCase(ctx, userID, caseID, limit, offset)
}

func fromLLM(result llm.Analysis, analysisType string) Analysis {
	return Analysis{
		AnalysisType:     analysisType,
		Result:           result.Result,
		Model:            result.Model,
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
		TotalTokens:      result.Usage.TotalTokens,
		CostEstimate:     result.Usage.CostEstimate,
		ProcessingMs:     result.ProcessingMs,
	}
}
