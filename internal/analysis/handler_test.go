package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/kanoon"
	"legal-backend/internal/llm"
	"legal-backend/internal/upstream"
)

func newTestRouter(p *Pipeline) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	NewHandler(p).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAnalyzeCNREndpoint(t *testing.T) {
	k := &stubKanoon{
		searchResult: kanoon.SearchResult{
			Total: 1,
			Docs:  []kanoon.SearchDoc{{TID: 99, Title: "In re Kumar", Court: "Madras High Court"}},
		},
		document: kanoon.Document{TID: 99, Text: "Order text here"},
	}
	l := &stubLLM{result: llm.Analysis{Result: "Summary.", Model: "deepseek-chat"}}
	p, _, _, _ := newTestPipeline(k, l)
	router := newTestRouter(p)

	resp := postJSON(t, router, "/api/v1/analyze/cnr", map[string]any{
		"cnrNumber": "MHHC010001232023",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", resp.Code, resp.Body.String())
	}
	var out struct {
		CNR           string `json:"cnrNumber"`
		ExtractedText string `json:"extractedText"`
		Analysis      *struct {
			Result string `json:"result"`
		} `json:"analysis"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.CNR != "MHHC010001232023" {
		t.Fatalf("cnrNumber = %q", out.CNR)
	}
	if out.ExtractedText != "Order text here" {
		t.Fatalf("extractedText = %q", out.ExtractedText)
	}
	if out.Analysis == nil || out.Analysis.Result != "Summary." {
		t.Fatalf("analysis = %+v", out.Analysis)
	}
}

func TestAnalyzeCNREndpointOptOut(t *testing.T) {
	k := &stubKanoon{
		searchResult: kanoon.SearchResult{Total: 1, Docs: []kanoon.SearchDoc{{TID: 5, Snippet: "snippet"}}},
		document:     kanoon.Document{TID: 5},
	}
	l := &stubLLM{}
	p, _, _, _ := newTestPipeline(k, l)
	router := newTestRouter(p)

	resp := postJSON(t, router, "/api/v1/analyze/cnr", map[string]any{
		"cnrNumber":       "MHHC010001232023",
		"includeAnalysis": false,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", resp.Code, resp.Body.String())
	}
	if l.calls.Load() != 0 {
		t.Fatalf("llm calls = %d, want 0", l.calls.Load())
	}
}

func TestAnalyzeCNREndpointErrors(t *testing.T) {
	p, _, _, _ := newTestPipeline(&stubKanoon{}, &stubLLM{})
	router := newTestRouter(p)

	resp := postJSON(t, router, "/api/v1/analyze/cnr", map[string]any{"cnrNumber": "garbage"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("invalid cnr: status %d", resp.Code)
	}

	resp = postJSON(t, router, "/api/v1/analyze/cnr", map[string]any{"cnrNumber": "MHHC010001232023"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("no hits: status %d", resp.Code)
	}
}

func TestSearchKanoonEndpoint(t *testing.T) {
	k := &stubKanoon{
		searchResult: kanoon.SearchResult{Total: 3, Docs: []kanoon.SearchDoc{{TID: 1}, {TID: 2}, {TID: 3}}},
	}
	p, _, _, log := newTestPipeline(k, &stubLLM{})
	router := newTestRouter(p)

	resp := postJSON(t, router, "/api/v1/search/kanoon", map[string]any{"query": "anticipatory bail"})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", resp.Code, resp.Body.String())
	}

	waitFor(t, func() bool {
		entries, _ := log.ListByUser(context.Background(), "user-1", 10)
		return len(entries) == 1 && entries[0].Query == "anticipatory bail"
	})

	resp = postJSON(t, router, "/api/v1/search/kanoon", map[string]any{"query": "   "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("blank query: status %d", resp.Code)
	}
}

func TestKanoonDocumentEndpoint(t *testing.T) {
	k := &stubKanoon{document: kanoon.Document{TID: 42, Title: "Some Judgment", Text: "Full text"}}
	p, _, _, _ := newTestPipeline(k, &stubLLM{})
	router := newTestRouter(p)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kanoon/documents/42", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", resp.Code, resp.Body.String())
	}
	var out struct {
		TID   int64  `json:"tid"`
		Title string `json:"title"`
		Text  string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.TID != 42 || out.Text != "Full text" {
		t.Fatalf("out = %+v", out)
	}
}

func TestKanoonDocumentEndpointUpstreamError(t *testing.T) {
	k := &stubKanoon{documentErr: upstream.ErrRateLimited}
	p, _, _, _ := newTestPipeline(k, &stubLLM{})
	router := newTestRouter(p)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/kanoon/documents/42", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.Code)
	}
}
