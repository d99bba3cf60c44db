package kanoon

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legal-backend/internal/upstream"
)

func TestSearchParsesResults(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.PostFormValue("formInput")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total": 2, "results": [
			{"tid": 101, "title": "State v. Sharma", "court": "Delhi High Court", "snippet": "CNR DLCT010001232023", "score": 9.1},
			{"tid": 102, "title": "Sharma appeal", "score": 4.2}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", time.Second)
	result, err := client.Search(context.Background(), SearchParams{Query: "DLCT010001232023"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotAuth != "Token test-key" {
		t.Fatalf("expected token auth header, got %q", gotAuth)
	}
	if gotQuery != "DLCT010001232023" {
		t.Fatalf("expected formInput to carry the query, got %q", gotQuery)
	}
	if result.Total != 2 || len(result.Docs) != 2 {
		t.Fatalf("unexpected result: total=%d docs=%d", result.Total, len(result.Docs))
	}
	if result.Docs[0].TID != 101 || result.Docs[0].Court != "Delhi High Court" {
		t.Fatalf("unexpected top doc: %+v", result.Docs[0])
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, upstream.ErrAuth},
		{http.StatusForbidden, upstream.ErrAuth},
		{http.StatusTooManyRequests, upstream.ErrRateLimited},
		{http.StatusInternalServerError, upstream.ErrUnavailable},
		{http.StatusBadGateway, upstream.ErrUnavailable},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		client := NewClient(srv.URL, "k", time.Second)
		_, err := client.Search(context.Background(), SearchParams{Query: "x"})
		srv.Close()
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: error = %v, want %v", tc.status, err, tc.want)
		}
	}
}

func TestTimeoutMapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", 20*time.Millisecond)
	_, err := client.Search(context.Background(), SearchParams{Query: "x"})
	if !errors.Is(err, upstream.ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestTransientFailureRetriedOnce(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"total": 1, "results": [{"tid": 7, "title": "ok"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", time.Second)
	result, err := client.Search(context.Background(), SearchParams{Query: "x"})
	if err != nil {
		t.Fatalf("Search after retry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(result.Docs) != 1 || result.Docs[0].TID != 7 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSearchByCNRDeduplicates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 3, "results": [
			{"tid": 1, "title": "a"},
			{"tid": 2, "title": "b"},
			{"tid": 1, "title": "a dup"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", time.Second)
	result, err := client.SearchByCNR(context.Background(), "DLCT010001232023", 10)
	if err != nil {
		t.Fatalf("SearchByCNR: %v", err)
	}
	if len(result.Docs) != 2 {
		t.Fatalf("expected deduplicated docs, got %d", len(result.Docs))
	}
	if result.Docs[0].TID != 1 || result.Docs[1].TID != 2 {
		t.Fatalf("unexpected doc order: %+v", result.Docs)
	}
}

func TestSearchByCNRIdempotentReads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 1, "results": [{"tid": 42, "title": "order", "snippet": "Sample order text"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", time.Second)
	first, err := client.SearchByCNR(context.Background(), "DLCT010001232023", 5)
	if err != nil {
		t.Fatalf("first SearchByCNR: %v", err)
	}
	second, err := client.SearchByCNR(context.Background(), "DLCT010001232023", 5)
	if err != nil {
		t.Fatalf("second SearchByCNR: %v", err)
	}
	if len(first.Docs) != 1 || len(second.Docs) != 1 {
		t.Fatalf("expected one doc per call")
	}
	if first.Docs[0] != second.Docs[0] {
		t.Fatalf("repeated reads differ: %+v vs %+v", first.Docs[0], second.Docs[0])
	}
}

func TestDocumentPlainTextFallback(t *testing.T) {
	doc := Document{Judgment: "the judgment body"}
	if got := doc.PlainText(); got != "the judgment body" {
		t.Fatalf("PlainText = %q", got)
	}
	empty := Document{}
	if got := empty.PlainText(); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}
