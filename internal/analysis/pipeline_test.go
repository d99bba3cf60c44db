package analysis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"legal-backend/internal/analyses"
	"legal-backend/internal/audit"
	"legal-backend/internal/documents"
	"legal-backend/internal/kanoon"
	"legal-backend/internal/llm"
	"legal-backend/internal/upstream"
)

type stubKanoon struct {
	searchResult kanoon.SearchResult
	searchErr    error
	document     kanoon.Document
	documentErr  error
	searchCalls  atomic.Int32
}

func (s *stubKanoon) Search(ctx context.Context, params kanoon.SearchParams) (kanoon.SearchResult, error) {
	s.searchCalls.Add(1)
	if s.searchErr != nil {
		return kanoon.SearchResult{}, s.searchErr
	}
	return s.searchResult, nil
}

func (s *stubKanoon) Document(ctx context.Context, docID string, maxCites, maxCitedBy int) (kanoon.Document, error) {
	if s.documentErr != nil {
		return kanoon.Document{}, s.documentErr
	}
	return s.document, nil
}

func (s *stubKanoon) SearchByCNR(ctx context.Context, cnrNumber string, maxResults int) (kanoon.CNRSearchResult, error) {
	search, err := s.Search(ctx, kanoon.SearchParams{Query: cnrNumber})
	if err != nil {
		return kanoon.CNRSearchResult{}, err
	}
	return kanoon.CNRSearchResult{
		CNR:          cnrNumber,
		TotalFound:   search.Total,
		Docs:         search.Docs,
		PatternsUsed: []string{cnrNumber},
	}, nil
}

func (s *stubKanoon) Configured() bool { return true }

type stubLLM struct {
	calls  atomic.Int32
	result llm.Analysis
	err    error
}

func (s *stubLLM) Analyze(ctx context.Context, input llm.AnalyzeInput) (llm.Analysis, error) {
	s.calls.Add(1)
	if s.err != nil {
		return llm.Analysis{}, s.err
	}
	return s.result, nil
}

func newTestPipeline(k Kanoon, l llm.Client) (*Pipeline, *documents.MemoryRepo, *analyses.MemoryRepo, *audit.MemoryLog) {
	docs := documents.NewMemoryRepo()
	rows := analyses.NewMemoryRepo()
	log := audit.NewMemoryLog()
	return &Pipeline{Kanoon: k, LLM: l, Docs: docs, Analyses: rows, Audit: log}, docs, rows, log
}

func TestAnalyzeCNRFullFlow(t *testing.T) {
	k := &stubKanoon{
		searchResult: kanoon.SearchResult{
			Total: 1,
			Docs: []kanoon.SearchDoc{
				{TID: 12345, Title: "State vs Sharma", Court: "Delhi District Court", Citation: "2023 DLCT 42", Date: "2023-04-01"},
			},
		},
		document: kanoon.Document{TID: 12345, Text: "Sample order text"},
	}
	l := &stubLLM{result: llm.Analysis{
		Result: "The order grants interim relief.",
		Model:  "deepseek-chat",
		Usage:  llm.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}}
	p, docs, rows, log := newTestPipeline(k, l)

	result, err := p.AnalyzeCNR(context.Background(), "user-1", Request{
		CNR:             "CNR NO: DLCT010001232023",
		IncludeAnalysis: true,
		AnalysisType:    llm.TypeSummary,
	})
	if err != nil {
		t.Fatalf("AnalyzeCNR: %v", err)
	}
	if result.CNR != "DLCT010001232023" {
		t.Fatalf("CNR = %q", result.CNR)
	}
	if result.ExtractedText != "Sample order text" {
		t.Fatalf("ExtractedText = %q", result.ExtractedText)
	}
	if result.Analysis == nil || result.Analysis.Result != "The order grants interim relief." {
		t.Fatalf("Analysis = %+v", result.Analysis)
	}
	if l.calls.Load() != 1 {
		t.Fatalf("llm calls = %d", l.calls.Load())
	}

	// Persistence is detached; wait for the rows to appear.
	waitFor(t, func() bool {
		list, _ := docs.ListByCase(context.Background(), "user-1", "", 10, 0)
		if len(list) != 1 {
			return false
		}
		if list[0].Source != documents.SourceKanoonFetch || list[0].KanoonDocID != "12345" {
			t.Fatalf("persisted doc = %+v", list[0])
		}
		analysesList, _ := rows.ListByCase(context.Background(), "user-1", "", 10, 0)
		if len(analysesList) != 1 {
			return false
		}
		entries, _ := log.ListByUser(context.Background(), "user-1", 10)
		return len(entries) == 1
	})
}

func TestAnalyzeCNRWithoutAnalysis(t *testing.T) {
	k := &stubKanoon{
		searchResult: kanoon.SearchResult{Total: 1, Docs: []kanoon.SearchDoc{{TID: 7, Snippet: "snippet only"}}},
		document:     kanoon.Document{TID: 7},
	}
	l := &stubLLM{}
	p, _, _, _ := newTestPipeline(k, l)

	result, err := p.AnalyzeCNR(context.Background(), "user-1", Request{CNR: "DLCT010001232023"})
	if err != nil {
		t.Fatalf("AnalyzeCNR: %v", err)
	}
	if result.Analysis != nil {
		t.Fatal("expected no analysis")
	}
	// The document body was empty, so the search snippet stands in.
	if result.ExtractedText != "snippet only" {
		t.Fatalf("ExtractedText = %q", result.ExtractedText)
	}
	if l.calls.Load() != 0 {
		t.Fatalf("llm calls = %d, want 0", l.calls.Load())
	}
}

func TestAnalyzeCNRInvalidInput(t *testing.T) {
	p, _, _, _ := newTestPipeline(&stubKanoon{}, &stubLLM{})
	_, err := p.AnalyzeCNR(context.Background(), "user-1", Request{CNR: "not a cnr"})
	if !errors.Is(err, upstream.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestAnalyzeCNRNoHits(t *testing.T) {
	p, _, _, _ := newTestPipeline(&stubKanoon{}, &stubLLM{})
	_, err := p.AnalyzeCNR(context.Background(), "user-1", Request{CNR: "DLCT010001232023"})
	if !errors.Is(err, upstream.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestAnalyzeCNRAnalysisFailureSurfaces(t *testing.T) {
	k := &stubKanoon{
		searchResult: kanoon.SearchResult{Total: 1, Docs: []kanoon.SearchDoc{{TID: 1}}},
		document:     kanoon.Document{TID: 1, Text: "body"},
	}
	l := &stubLLM{err: upstream.ErrAnalysisFailed}
	p, docs, _, _ := newTestPipeline(k, l)

	_, err := p.AnalyzeCNR(context.Background(), "user-1", Request{
		CNR:             "DLCT010001232023",
		IncludeAnalysis: true,
	})
	if !errors.Is(err, upstream.ErrAnalysisFailed) {
		t.Fatalf("error = %v, want ErrAnalysisFailed", err)
	}

	// A failed run persists nothing.
	time.Sleep(50 * time.Millisecond)
	list, _ := docs.ListByCase(context.Background(), "user-1", "", 10, 0)
	if len(list) != 0 {
		t.Fatalf("expected no persisted documents, got %d", len(list))
	}
}

func TestSearchCNR(t *testing.T) {
	k := &stubKanoon{
		searchResult: kanoon.SearchResult{Total: 2, Docs: []kanoon.SearchDoc{{TID: 1}, {TID: 2}}},
	}
	p, _, _, log := newTestPipeline(k, &stubLLM{})

	result, err := p.SearchCNR(context.Background(), "user-1", "dlct010001232023", 10)
	if err != nil {
		t.Fatalf("SearchCNR: %v", err)
	}
	if result.CNR != "DLCT010001232023" {
		t.Fatalf("CNR = %q", result.CNR)
	}
	if len(result.Docs) != 2 {
		t.Fatalf("docs = %d", len(result.Docs))
	}

	waitFor(t, func() bool {
		entries, _ := log.ListByUser(context.Background(), "user-1", 10)
		return len(entries) == 1 && entries[0].Kind == audit.KindCNR
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
