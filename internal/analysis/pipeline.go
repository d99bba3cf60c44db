// Package analysis orchestrates the CNR research pipeline: resolve a CNR to
// an Indian Kanoon judgment, pull its text and optionally run an AI analysis.
package analysis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"legal-backend/internal/analyses"
	"legal-backend/internal/audit"
	"legal-backend/internal/cnr"
	"legal-backend/internal/documents"
	"legal-backend/internal/kanoon"
	"legal-backend/internal/llm"
	"legal-backend/internal/shared/metrics"
	"legal-backend/internal/shared/telemetry"
	"legal-backend/internal/upstream"
)

const persistTimeout = 15 * time.Second

// Kanoon is the slice of the Kanoon client the pipeline uses.
type Kanoon interface {
	Search(ctx context.Context, params kanoon.SearchParams) (kanoon.SearchResult, error)
	Document(ctx context.Context, docID string, maxCites, maxCitedBy int) (kanoon.Document, error)
	SearchByCNR(ctx context.Context, cnrNumber string, maxResults int) (kanoon.CNRSearchResult, error)
	Configured() bool
}

// Request is one CNR analysis request.
type Request struct {
	CNR             string
	IncludeAnalysis bool
	AnalysisType    string
	CaseContext     string
}

// Result is the assembled pipeline response. Persistence happens after the
// result is returned and never contributes IDs to it.
type Result struct {
	CNR           string           `json:"cnrNumber"`
	Doc           kanoon.SearchDoc `json:"document"`
	ExtractedText string           `json:"extractedText"`
	PatternsUsed  []string         `json:"searchPatternsUsed"`
	TotalFound    int64            `json:"totalFound"`
	AnalysisType  string           `json:"analysisType,omitempty"`
	Analysis      *llm.Analysis    `json:"analysis,omitempty"`
}

// Pipeline wires the CNR flow: normalize, search, fetch, analyze, persist.
type Pipeline struct {
	Kanoon   Kanoon
	LLM      llm.Client
	Docs     documents.Repo
	Analyses analyses.Repo
	Audit    audit.Log
}

// AnalyzeCNR runs the full pipeline for one CNR. The response is assembled
// before any database write; persistence runs detached and only logs
// failures.
func (p *Pipeline) AnalyzeCNR(ctx context.Context, userID string, req Request) (Result, error) {
	metrics.IncPipelineStarted()
	start := time.Now()

	result, err := p.run(ctx, userID, req)
	metrics.ObservePipelineDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncPipelineFailed()
		return Result{}, err
	}
	metrics.IncPipelineCompleted()
	return result, nil
}

// SearchCNR resolves a CNR to ranked hits without fetching or analyzing.
func (p *Pipeline) SearchCNR(ctx context.Context, userID, rawCNR string, maxResults int) (kanoon.CNRSearchResult, error) {
	normalized, err := cnr.Normalize(rawCNR)
	if err != nil {
		return kanoon.CNRSearchResult{}, err
	}

	search, err := p.Kanoon.SearchByCNR(ctx, normalized, maxResults)
	if err != nil {
		return kanoon.CNRSearchResult{}, err
	}

	p.recordSearch(ctx, userID, normalized, audit.KindCNR)
	return search, nil
}

func (p *Pipeline) run(ctx context.Context, userID string, req Request) (Result, error) {
	normalized, err := cnr.Normalize(req.CNR)
	if err != nil {
		return Result{}, err
	}

	analysisType := ""
	if req.IncludeAnalysis {
		analysisType, err = llm.NormalizeType(req.AnalysisType)
		if err != nil {
			return Result{}, err
		}
	}

	search, err := p.Kanoon.SearchByCNR(ctx, normalized, 10)
	if err != nil {
		return Result{}, err
	}
	if len(search.Docs) == 0 {
		return Result{}, fmt.Errorf("%w: no documents found for CNR %s", upstream.ErrNotFound, normalized)
	}

	top := search.Docs[0]
	doc, err := p.Kanoon.Document(ctx, strconv.FormatInt(top.TID, 10), 0, 0)
	if err != nil {
		return Result{}, err
	}

	text := doc.PlainText()
	if text == "" {
		// Some documents only ship a snippet in search results.
		text = top.Snippet
	}

	result := Result{
		CNR:           normalized,
		Doc:           top,
		ExtractedText: text,
		PatternsUsed:  search.PatternsUsed,
		TotalFound:    search.TotalFound,
	}

	if req.IncludeAnalysis {
		llmContext := map[string]string{
			"court":    top.Court,
			"citation": top.Citation,
			"date":     top.Date,
		}
		if req.CaseContext != "" {
			llmContext["case_context"] = req.CaseContext
		}
		analysis, err := p.LLM.Analyze(ctx, llm.AnalyzeInput{
			Text:         text,
			AnalysisType: analysisType,
			Context:      llmContext,
		})
		if err != nil {
			metrics.IncUpstreamError()
			return Result{}, err
		}
		metrics.IncUpstreamAnalysis()
		result.AnalysisType = analysisType
		result.Analysis = &analysis
	}

	p.persist(ctx, userID, result)
	p.recordSearch(ctx, userID, normalized, audit.KindCNR)
	return result, nil
}

// persist writes the fetched document and any analysis in a detached
// goroutine. The request is already answered; failures are logged only.
func (p *Pipeline) persist(ctx context.Context, userID string, result Result) {
	if p.Docs == nil {
		return
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		persistCtx, cancel := context.WithTimeout(detached, persistTimeout)
		defer cancel()

		now := time.Now().UTC()
		doc := documents.Document{
			ID:             uuid.NewString(),
			UserID:         userID,
			Title:          result.Doc.Title,
			FileName:       result.CNR + ".txt",
			MimeType:       "text/plain",
			SizeBytes:      int64(len(result.ExtractedText)),
			Source:         documents.SourceKanoonFetch,
			ExtractedText:  result.ExtractedText,
			KanoonDocID:    strconv.FormatInt(result.Doc.TID, 10),
			KanoonCitation: result.Doc.Citation,
			ExtractedAt:    &now,
		}
		if err := p.Docs.Create(persistCtx, doc); err != nil {
			telemetry.Error("pipeline.persist_document_failed", map[string]any{
				"cnr":   result.CNR,
				"error": err.Error(),
			})
			return
		}

		if result.Analysis == nil || p.Analyses == nil {
			return
		}
		row := analyses.Analysis{
			ID:               uuid.NewString(),
			DocumentID:       doc.ID,
			UserID:           userID,
			AnalysisType:     result.AnalysisType,
			Result:           result.Analysis.Result,
			Model:            result.Analysis.Model,
			PromptTokens:     result.Analysis.Usage.PromptTokens,
			CompletionTokens: result.Analysis.Usage.CompletionTokens,
			TotalTokens:      result.Analysis.Usage.TotalTokens,
			CostEstimate:     result.Analysis.Usage.CostEstimate,
			ProcessingMs:     result.Analysis.ProcessingMs,
		}
		if err := p.Analyses.Create(persistCtx, row); err != nil {
			telemetry.Error("pipeline.persist_analysis_failed", map[string]any{
				"cnr":   result.CNR,
				"error": err.Error(),
			})
		}
	}()
}

func (p *Pipeline) recordSearch(ctx context.Context, userID, query, kind string) {
	if p.Audit == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		auditCtx, cancel := context.WithTimeout(detached, persistTimeout)
		defer cancel()
		if err := p.Audit.Record(auditCtx, userID, query, kind); err != nil {
			telemetry.Error("pipeline.audit_failed", map[string]any{
				"query": query,
				"error": err.Error(),
			})
		}
	}()
}
