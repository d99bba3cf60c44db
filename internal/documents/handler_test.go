package documents_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/bootstrap"
	"legal-backend/internal/shared/config"
)

func buildApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func createCase(t *testing.T, router *gin.Engine) string {
	t.Helper()
	body := strings.NewReader(`{"title":"Upload target"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cases", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create case: status %d body %s", resp.Code, resp.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode case: %v", err)
	}
	return created.ID
}

func multipartFile(t *testing.T, fileName, contentType, content string, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	for key, val := range extra {
		if err := writer.WriteField(key, val); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, writer.FormDataContentType()
}

func TestUploadExtractsInline(t *testing.T) {
	app := buildApp(t)
	caseID := createCase(t, app.Router)

	body, contentType := multipartFile(t, "order.txt", "text/plain", "The petition is allowed.", map[string]string{
		"title": "Final order",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cases/"+caseID+"/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: status %d body %s", resp.Code, resp.Body.String())
	}
	var doc struct {
		ID            string `json:"id"`
		CaseID        string `json:"caseId"`
		Title         string `json:"title"`
		ExtractedText string `json:"extractedText"`
		Source        string `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode upload: %v", err)
	}
	if doc.CaseID != caseID {
		t.Fatalf("caseId = %q, want %q", doc.CaseID, caseID)
	}
	if doc.Title != "Final order" {
		t.Fatalf("title = %q", doc.Title)
	}
	if doc.Source != "upload" {
		t.Fatalf("source = %q", doc.Source)
	}
	if doc.ExtractedText != "The petition is allowed." {
		t.Fatalf("extractedText = %q", doc.ExtractedText)
	}

	// Case listing returns the document but without the text payload.
	reqList := httptest.NewRequest(http.MethodGet, "/api/v1/cases/"+caseID+"/documents", nil)
	reqList.Header.Set("X-Guest-Id", "test-guest")
	respList := httptest.NewRecorder()
	app.Router.ServeHTTP(respList, reqList)
	if respList.Code != http.StatusOK {
		t.Fatalf("list: status %d", respList.Code)
	}
	var list []struct {
		ID            string `json:"id"`
		ExtractedText string `json:"extractedText"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != doc.ID {
		t.Fatalf("list = %+v", list)
	}
	if list[0].ExtractedText != "" {
		t.Fatal("list should omit extracted text")
	}
}

func TestUploadUnknownCase(t *testing.T) {
	app := buildApp(t)

	body, contentType := multipartFile(t, "order.txt", "text/plain", "text", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cases/missing/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestProcessFileStateless(t *testing.T) {
	app := buildApp(t)

	body, contentType := multipartFile(t, "note.txt", "text/plain", "stateless extraction", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/process/file", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", resp.Code, resp.Body.String())
	}
	var out struct {
		FileName string `json:"fileName"`
		Text     string `json:"text"`
		OCRUsed  bool   `json:"ocrUsed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Text != "stateless extraction" {
		t.Fatalf("text = %q", out.Text)
	}
	if out.OCRUsed {
		t.Fatal("ocrUsed should be false for plain text")
	}
}

func TestUploadRequiresFile(t *testing.T) {
	app := buildApp(t)
	caseID := createCase(t, app.Router)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cases/"+caseID+"/documents", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}
