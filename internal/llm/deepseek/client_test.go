package deepseek

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"legal-backend/internal/llm"
	"legal-backend/internal/upstream"
)

func TestAnalyzeReturnsVerbatimResultAndUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("expected system+user messages, got %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[1].Content, "Sample order text") {
			t.Errorf("document text missing from prompt")
		}
		w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "not even json {"}}],
			"usage": {"prompt_tokens": 1000, "completion_tokens": 500, "total_tokens": 1500}
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "sk-test", "deepseek-chat", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	analysis, err := client.Analyze(context.Background(), llm.AnalyzeInput{
		Text:         "Sample order text",
		AnalysisType: llm.TypeSummary,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// Output is passed through as-is, even when it is not valid JSON.
	if analysis.Result != "not even json {" {
		t.Fatalf("Result = %q", analysis.Result)
	}
	if analysis.Usage.TotalTokens != 1500 {
		t.Fatalf("TotalTokens = %d", analysis.Usage.TotalTokens)
	}
	wantCost := 1000.0/1e6*promptPricePerM + 500.0/1e6*outputPricePerM
	if analysis.Usage.CostEstimate != wantCost {
		t.Fatalf("CostEstimate = %v, want %v", analysis.Usage.CostEstimate, wantCost)
	}
}

func TestAnalyzeErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, upstream.ErrAuth},
		{http.StatusTooManyRequests, upstream.ErrRateLimited},
		{http.StatusServiceUnavailable, upstream.ErrUnavailable},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		client, _ := NewClient(srv.URL, "sk", "deepseek-chat", time.Second)
		_, err := client.Analyze(context.Background(), llm.AnalyzeInput{Text: "x", AnalysisType: llm.TypeSummary})
		srv.Close()
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: error = %v, want %v", tc.status, err, tc.want)
		}
	}
}

func TestAnalyzeEmptyContentFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": ""}}]}`))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL, "sk", "deepseek-chat", time.Second)
	_, err := client.Analyze(context.Background(), llm.AnalyzeInput{Text: "x", AnalysisType: llm.TypeSummary})
	if !errors.Is(err, upstream.ErrAnalysisFailed) {
		t.Fatalf("error = %v, want ErrAnalysisFailed", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("https://api.deepseek.com", "", "deepseek-chat", time.Second); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
