package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/ehr/hms/internal/platform/seed"
	"github.com/ehr/hms/internal/views"
)

// testEnv points the configuration at a fresh data directory.
func testEnv(t *testing.T, authDisabled bool) string {
	t.Helper()
	t.Chdir(t.TempDir())
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("ENV", "test")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FILE", "")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTH_USERS", "")
	if authDisabled {
		t.Setenv("AUTH_DISABLED", "true")
		t.Setenv("AUTH_SECRET", "")
	} else {
		t.Setenv("AUTH_DISABLED", "false")
		t.Setenv("AUTH_SECRET", "test-secret-for-session-tokens")
	}
	return dir
}

func testServer(t *testing.T, authDisabled bool) *echo.Echo {
	t.Helper()
	testEnv(t, authDisabled)
	ctx := context.Background()
	a, err := newApp(ctx, io.Discard)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(a.Close)
	if _, err := seed.Seed(ctx, a.store, time.Now(), a.logger); err != nil {
		t.Fatalf("seed: %v", err)
	}
	e, err := a.newServer()
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	return e
}

func do(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestServer_HealthAndSeededData(t *testing.T) {
	e := testServer(t, true)

	if rec := do(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Errorf("/health: expected 200, got %d", rec.Code)
	}

	rec := do(e, http.MethodGet, "/health/store", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"backend":"file"`) {
		t.Errorf("/health/store: got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/api/v1/patients", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list patients: got %d", rec.Code)
	}
	var list struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 2 {
		t.Errorf("expected 2 seeded patients, got %d", list.Total)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id on the response")
	}

	rec = do(e, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `hms_collection_records{collection="patients"} 2`) {
		t.Errorf("/metrics: got %d, body missing collection gauge", rec.Code)
	}
}

func TestServer_DevSession(t *testing.T) {
	e := testServer(t, true)
	rec := do(e, http.MethodGet, "/api/v1/session", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"username":"admin"`) {
		t.Errorf("expected dev admin session, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestServer_CreateAndFetchPatient(t *testing.T) {
	e := testServer(t, true)

	rec := do(e, http.MethodPost, "/api/v1/patients",
		`{"name":"Ravi Kumar","age":51,"gender":"Male","phone":"+91-9876543210"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":"P003"`) {
		t.Errorf("expected id P003, got %s", rec.Body.String())
	}

	if rec := do(e, http.MethodGet, "/api/v1/patients/P003", "", ""); rec.Code != http.StatusOK {
		t.Errorf("fetch: got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/api/v1/patients/search?name=ravi", "", ""); !strings.Contains(rec.Body.String(), "P003") {
		t.Errorf("search did not find the new patient: %s", rec.Body.String())
	}
	if rec := do(e, http.MethodPost, "/api/v1/patients", `{"name":"No Phone"}`, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing fields, got %d", rec.Code)
	}
}

func TestServer_LoginGate(t *testing.T) {
	e := testServer(t, false)

	if rec := do(e, http.MethodGet, "/api/v1/patients", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
	for _, path := range []string{"/health", "/metrics"} {
		if rec := do(e, http.MethodGet, path, "", ""); rec.Code != http.StatusOK {
			t.Errorf("%s must stay public, got %d", path, rec.Code)
		}
	}
	if rec := do(e, http.MethodPost, "/api/v1/login", `{"username":"admin","password":"wrong"}`, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", rec.Code)
	}

	rec := do(e, http.MethodPost, "/api/v1/login", `{"username":"admin","password":"admin123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: got %d %s", rec.Code, rec.Body.String())
	}
	var login struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatal(err)
	}
	if login.Token == "" || login.Role != "Administrator" {
		t.Fatalf("unexpected login response %s", rec.Body.String())
	}

	if rec := do(e, http.MethodGet, "/api/v1/reports/overview", "", login.Token); rec.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", rec.Code)
	}
}

func TestCommands_SeedNextIDOverview(t *testing.T) {
	testEnv(t, true)

	out, err := runCmd(t, "seed")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "seeded patients") || !strings.Contains(out, "seeded billing") {
		t.Errorf("unexpected seed output %q", out)
	}
	out, err = runCmd(t, "seed")
	if err != nil || !strings.Contains(out, "already exist") {
		t.Errorf("second seed: %q %v", out, err)
	}

	out, err = runCmd(t, "next-id", "inventory")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "I002" {
		t.Errorf("expected I002, got %q", out)
	}

	out, err = runCmd(t, "overview")
	if err != nil {
		t.Fatal(err)
	}
	var ov views.Overview
	if err := json.Unmarshal([]byte(out), &ov); err != nil {
		t.Fatalf("overview is not JSON: %v", err)
	}
	if ov.TotalPatients != 2 || ov.TotalDoctors != 3 || ov.TotalRevenue != 825 {
		t.Errorf("unexpected overview %+v", ov)
	}
}

func TestCommands_NextIDUnknownCollection(t *testing.T) {
	testEnv(t, true)
	if _, err := runCmd(t, "next-id", "wards"); err == nil {
		t.Error("expected error for unknown collection")
	}
}

func TestCommands_Export(t *testing.T) {
	testEnv(t, true)
	if _, err := runCmd(t, "seed"); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if _, err := runCmd(t, "export", "--out", path); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Doctors")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Errorf("expected header plus 3 doctors, got %d rows", len(rows))
	}
}

func TestServer_CorruptCollection(t *testing.T) {
	e := testServer(t, true)
	if err := os.WriteFile(filepath.Join(os.Getenv("DATA_DIR"), "patients.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Reads degrade to an empty collection.
	rec := do(e, http.MethodGet, "/api/v1/patients", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total":0`) {
		t.Errorf("list patients: got %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(e, http.MethodGet, "/api/v1/patients/P001", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("get patient: expected 404, got %d", rec.Code)
	}

	// Writes refuse to replace the unreadable document.
	rec = do(e, http.MethodPost, "/api/v1/patients",
		`{"name":"Jane Roe","age":41,"gender":"Female","phone":"+1-555-0199"}`, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("create patient: expected 503, got %d %s", rec.Code, rec.Body.String())
	}
	data, err := os.ReadFile(filepath.Join(os.Getenv("DATA_DIR"), "patients.json"))
	if err != nil || string(data) != "{not json" {
		t.Errorf("corrupt document was modified: %q %v", data, err)
	}
}
