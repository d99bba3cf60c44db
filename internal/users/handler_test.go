package users_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/bootstrap"
	"legal-backend/internal/shared/config"
)

func buildApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

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

func TestRegisterLoginMe(t *testing.T) {
	app := buildApp(t)

	resp := postJSON(t, app.Router, "/api/v1/auth/register", map[string]string{
		"email":    "Advocate@Example.com",
		"fullName": "A. Advocate",
		"password": "sufficiently-long",
		"role":     "lawyer",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", resp.Code, resp.Body.String())
	}
	var registered struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&registered); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	if registered.Email != "advocate@example.com" {
		t.Fatalf("email = %q, want lowercased", registered.Email)
	}
	if registered.Role != "lawyer" {
		t.Fatalf("role = %q", registered.Role)
	}

	// Same email again conflicts regardless of case.
	respDup := postJSON(t, app.Router, "/api/v1/auth/register", map[string]string{
		"email":    "advocate@example.com",
		"password": "sufficiently-long",
	})
	if respDup.Code != http.StatusConflict {
		t.Fatalf("duplicate register: status %d", respDup.Code)
	}

	respLogin := postJSON(t, app.Router, "/api/v1/auth/login", map[string]string{
		"email":    "advocate@example.com",
		"password": "sufficiently-long",
	})
	if respLogin.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", respLogin.Code, respLogin.Body.String())
	}
	var login struct {
		AccessToken string `json:"accessToken"`
		TokenType   string `json:"tokenType"`
	}
	if err := json.NewDecoder(respLogin.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.AccessToken == "" || login.TokenType != "bearer" {
		t.Fatalf("login response = %+v", login)
	}

	reqMe := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	reqMe.Header.Set("Authorization", "Bearer "+login.AccessToken)
	respMe := httptest.NewRecorder()
	app.Router.ServeHTTP(respMe, reqMe)
	if respMe.Code != http.StatusOK {
		t.Fatalf("me: status %d body %s", respMe.Code, respMe.Body.String())
	}
	var me struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(respMe.Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.ID != registered.ID {
		t.Fatalf("me id = %q, want %q", me.ID, registered.ID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app := buildApp(t)

	resp := postJSON(t, app.Router, "/api/v1/auth/register", map[string]string{
		"email":    "someone@example.com",
		"password": "sufficiently-long",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: status %d", resp.Code)
	}

	respLogin := postJSON(t, app.Router, "/api/v1/auth/login", map[string]string{
		"email":    "someone@example.com",
		"password": "wrong-password",
	})
	if respLogin.Code != http.StatusUnauthorized {
		t.Fatalf("login: status %d, want 401", respLogin.Code)
	}
}

func TestMeRequiresToken(t *testing.T) {
	app := buildApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
}
