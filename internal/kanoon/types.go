package kanoon

import "strings"

// SearchParams mirrors the Indian Kanoon search form fields.
type SearchParams struct {
	Query    string
	DocTypes []string
	FromDate string // YYYY-MM-DD
	ToDate   string // YYYY-MM-DD
	Title    string
	Cite     string
	Author   string
	Bench    string
	PageNum  int
}

// SearchDoc is one ranked hit from the search endpoint.
type SearchDoc struct {
	TID      int64   `json:"tid"`
	Title    string  `json:"title"`
	Citation string  `json:"cite"`
	Court    string  `json:"court"`
	Date     string  `json:"date"`
	Author   string  `json:"author"`
	Bench    string  `json:"bench"`
	Size     int64   `json:"size"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
	Type     string  `json:"type"`
}

// SearchResult is the parsed search response.
type SearchResult struct {
	Docs  []SearchDoc `json:"results"`
	Total int64       `json:"total"`
}

// Document is a full document fetched by ID. The text can live in any of
// several fields depending on the document type.
type Document struct {
	TID         int64  `json:"tid"`
	Title       string `json:"title"`
	Citation    string `json:"cite"`
	Court       string `json:"court"`
	Date        string `json:"date"`
	Text        string `json:"text"`
	Content     string `json:"content"`
	Judgment    string `json:"judgment"`
	Description string `json:"description"`
}

// PlainText returns the first populated text field.
func (d Document) PlainText() string {
	for _, candidate := range []string{d.Text, d.Content, d.Judgment, d.Description} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// DocumentMeta holds document metadata without the body.
type DocumentMeta struct {
	TID      int64  `json:"tid"`
	Title    string `json:"title"`
	Citation string `json:"cite"`
	Court    string `json:"court"`
	Date     string `json:"date"`
	Author   string `json:"author"`
	Bench    string `json:"bench"`
}

// FragmentsResult holds in-document fragment matches.
type FragmentsResult struct {
	TID       int64    `json:"tid"`
	Fragments []string `json:"fragments"`
}

// CNRSearchResult aggregates the deduplicated hits for a CNR lookup.
type CNRSearchResult struct {
	CNR          string      `json:"cnrNumber"`
	TotalFound   int64       `json:"totalFound"`
	Docs         []SearchDoc `json:"results"`
	PatternsUsed []string    `json:"searchPatternsUsed"`
}
