// Package kanoon wraps the Indian Kanoon legal-document search API. All
// endpoints require POST with form-encoded bodies and a static token header.
package kanoon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"legal-backend/internal/shared/metrics"
	"legal-backend/internal/shared/telemetry"
	"legal-backend/internal/upstream"
)

const retryDelay = 300 * time.Millisecond

// Client is a stateless request/response wrapper around the Kanoon API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a Kanoon client. Every call is bounded by timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

// Search queries the search endpoint and returns ranked documents.
func (c *Client) Search(ctx context.Context, params SearchParams) (SearchResult, error) {
	metrics.IncUpstreamSearch()

	form := url.Values{}
	form.Set("formInput", params.Query)
	form.Set("pagenum", strconv.Itoa(params.PageNum))
	if len(params.DocTypes) > 0 {
		form.Set("doctypes", strings.Join(params.DocTypes, ","))
	}
	setIfPresent(form, "fromdate", params.FromDate)
	setIfPresent(form, "todate", params.ToDate)
	setIfPresent(form, "title", params.Title)
	setIfPresent(form, "cite", params.Cite)
	setIfPresent(form, "author", params.Author)
	setIfPresent(form, "bench", params.Bench)

	var result SearchResult
	if err := c.postForm(ctx, "/search/", form, &result); err != nil {
		return SearchResult{}, err
	}
	return result, nil
}

// Document fetches a full document by ID.
func (c *Client) Document(ctx context.Context, docID string, maxCites, maxCitedBy int) (Document, error) {
	metrics.IncUpstreamDocument()

	form := url.Values{}
	if maxCites > 0 {
		form.Set("maxcites", strconv.Itoa(maxCites))
	}
	if maxCitedBy > 0 {
		form.Set("maxcitedby", strconv.Itoa(maxCitedBy))
	}

	var doc Document
	if err := c.postForm(ctx, "/doc/"+url.PathEscape(docID)+"/", form, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// DocumentMeta fetches document metadata without the body.
func (c *Client) DocumentMeta(ctx context.Context, docID string) (DocumentMeta, error) {
	var meta DocumentMeta
	if err := c.postForm(ctx, "/docmeta/"+url.PathEscape(docID)+"/", url.Values{}, &meta); err != nil {
		return DocumentMeta{}, err
	}
	return meta, nil
}

// OriginalDocument fetches the original court copy (PDF bytes).
func (c *Client) OriginalDocument(ctx context.Context, docID string) ([]byte, error) {
	metrics.IncUpstreamDocument()
	return c.postRaw(ctx, "/origdoc/"+url.PathEscape(docID)+"/", url.Values{})
}

// DocumentFragments searches within a document.
func (c *Client) DocumentFragments(ctx context.Context, docID, query string) (FragmentsResult, error) {
	form := url.Values{}
	form.Set("formInput", query)

	var result FragmentsResult
	if err := c.postForm(ctx, "/docfragment/"+url.PathEscape(docID)+"/", form, &result); err != nil {
		return FragmentsResult{}, err
	}
	return result, nil
}

// cnrSearchPatterns returns the query variants a CNR appears under in
// filed documents, most specific first.
func cnrSearchPatterns(cnrNumber string) []string {
	return []string{
		fmt.Sprintf("%q", cnrNumber),
		"CNR " + cnrNumber,
		"CNR NO: " + cnrNumber,
		"CNR NO." + cnrNumber,
		"CNR NO " + cnrNumber,
		"Case Number Record: " + cnrNumber,
	}
}

// SearchByCNR tries each CNR query pattern in turn, deduplicates hits by
// document ID and stops once maxResults are collected. Individual pattern
// failures are logged and skipped; the lookup fails only when every pattern
// fails or nothing matches.
func (c *Client) SearchByCNR(ctx context.Context, cnrNumber string, maxResults int) (CNRSearchResult, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	patterns := cnrSearchPatterns(cnrNumber)
	result := CNRSearchResult{CNR: cnrNumber}

	seen := make(map[int64]struct{})
	var lastErr error
	for _, pattern := range patterns {
		search, err := c.Search(ctx, SearchParams{Query: pattern})
		if err != nil {
			if ctx.Err() != nil {
				return CNRSearchResult{}, upstream.FromTransport(ctx.Err())
			}
			lastErr = err
			telemetry.Warn("kanoon.cnr_pattern_failed", map[string]any{
				"pattern": pattern,
				"error":   err.Error(),
			})
			continue
		}
		if len(search.Docs) == 0 {
			continue
		}
		result.TotalFound = search.Total
		result.PatternsUsed = append(result.PatternsUsed, pattern)
		for _, doc := range search.Docs {
			if _, ok := seen[doc.TID]; ok {
				continue
			}
			seen[doc.TID] = struct{}{}
			result.Docs = append(result.Docs, doc)
			if len(result.Docs) >= maxResults {
				return result, nil
			}
		}
		if len(result.Docs) > 0 {
			break
		}
	}

	if len(result.Docs) == 0 && lastErr != nil {
		return CNRSearchResult{}, lastErr
	}
	return result, nil
}

func setIfPresent(form url.Values, key, value string) {
	if strings.TrimSpace(value) != "" {
		form.Set(key, value)
	}
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	body, err := c.postRaw(ctx, path, form)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: parse response: %s", upstream.ErrUnavailable, err.Error())
	}
	return nil
}

func (c *Client) postRaw(ctx context.Context, path string, form url.Values) ([]byte, error) {
	body, err := c.doOnce(ctx, path, form)
	if err == nil || !upstream.Retryable(err) {
		return body, err
	}

	telemetry.Warn("kanoon.retry", map[string]any{
		"path":  path,
		"error": err.Error(),
	})
	select {
	case <-time.After(retryDelay):
	case <-ctx.Done():
		return nil, upstream.FromTransport(ctx.Err())
	}

	return c.doOnce(ctx, path, form)
}

func (c *Client) doOnce(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, upstream.FromTransport(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Token "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncUpstreamError()
		return nil, upstream.FromTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncUpstreamError()
		return nil, upstream.FromTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.IncUpstreamError()
		return nil, upstream.FromStatus(resp.StatusCode, string(body))
	}
	return body, nil
}
