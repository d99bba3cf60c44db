// Package deepseek implements llm.Client against the DeepSeek
// chat-completions API (OpenAI-compatible schema).
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"legal-backend/internal/llm"
	"legal-backend/internal/shared/metrics"
	"legal-backend/internal/shared/telemetry"
	"legal-backend/internal/upstream"
)

const (
	defaultModel     = "deepseek-chat"
	maxTokens        = 4000
	temperature      = 0.1
	completionsPath  = "/chat/completions"
	promptPricePerM  = 0.14 // USD per 1M prompt tokens
	outputPricePerM  = 0.28 // USD per 1M completion tokens
)

// Client calls the DeepSeek completion endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a DeepSeek client. Every call is bounded by timeout.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("DEEPSEEK_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Analyze sends the analysis prompt and returns the completion verbatim.
func (c *Client) Analyze(ctx context.Context, input llm.AnalyzeInput) (llm.Analysis, error) {
	metrics.IncUpstreamAnalysis()

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: llm.SystemPrompt},
			{Role: "user", Content: llm.BuildPrompt(input)},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Analysis{}, fmt.Errorf("%w: encode request: %s", upstream.ErrAnalysisFailed, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(payload))
	if err != nil {
		return llm.Analysis{}, fmt.Errorf("%w: %s", upstream.ErrAnalysisFailed, err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncUpstreamError()
		return llm.Analysis{}, upstream.FromTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncUpstreamError()
		return llm.Analysis{}, upstream.FromTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.IncUpstreamError()
		return llm.Analysis{}, upstream.FromStatus(resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return llm.Analysis{}, fmt.Errorf("%w: parse response: %s", upstream.ErrAnalysisFailed, err.Error())
	}
	if parsed.Error != nil {
		return llm.Analysis{}, fmt.Errorf("%w: %s (%s)", upstream.ErrAnalysisFailed, parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return llm.Analysis{}, fmt.Errorf("%w: response missing choices", upstream.ErrAnalysisFailed)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return llm.Analysis{}, fmt.Errorf("%w: response empty content", upstream.ErrAnalysisFailed)
	}

	analysis := llm.Analysis{
		Result:       content,
		Model:        c.model,
		ProcessingMs: time.Since(start).Milliseconds(),
	}
	if parsed.Usage != nil {
		analysis.Usage = llm.Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
			CostEstimate:     estimateCost(parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens),
		}
	}
	logUsage(c.model, input.AnalysisType, analysis)
	return analysis, nil
}

func estimateCost(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)/1e6*promptPricePerM + float64(completionTokens)/1e6*outputPricePerM
}

func logUsage(model, analysisType string, a llm.Analysis) {
	telemetry.Info("llm.usage", map[string]any{
		"model":             model,
		"analysis_type":     analysisType,
		"prompt_tokens":     a.Usage.PromptTokens,
		"completion_tokens": a.Usage.CompletionTokens,
		"total_tokens":      a.Usage.TotalTokens,
		"cost_estimate":     a.Usage.CostEstimate,
		"processing_ms":     a.ProcessingMs,
	})
}

var _ llm.Client = (*Client)(nil)
