package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/bootstrap"
	"legal-backend/internal/shared/config"
	"legal-backend/internal/shared/server"
)

func buildApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		CORSAllowOrigin: []string{"http://localhost:5173"},
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func TestHealthEndpoint(t *testing.T) {
	app := buildApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var status struct {
		Status   string          `json:"status"`
		Services map[string]bool `json:"services"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != "ok" {
		t.Fatalf("status = %q", status.Status)
	}
	for _, key := range []string{"database", "kanoon_api", "ai_analysis", "ocr_processing"} {
		if _, ok := status.Services[key]; !ok {
			t.Fatalf("services missing %q", key)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := buildApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	body := resp.Body.String()
	for _, name := range []string{"cnr_pipeline_started_total", "upstream_errors_total", "ocr_in_flight", "cnr_pipeline_duration_ms_count"} {
		if !strings.Contains(body, name) {
			t.Fatalf("metrics body missing %s:\n%s", name, body)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	app := buildApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected X-Request-Id header")
	}

	// A caller-supplied id is echoed back.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-Id", "fixed-id")
	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if got := resp.Header().Get("X-Request-Id"); got != "fixed-id" {
		t.Fatalf("X-Request-Id = %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	app := buildApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cases", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("status = %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{
		"":      ":8080",
		"9000":  ":9000",
		":7070": ":7070",
	}
	for in, want := range cases {
		if got := server.Addr(in); got != want {
			t.Errorf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
