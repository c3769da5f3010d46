package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bookshophere/bookshop/internal/config"
	"github.com/bookshophere/bookshop/internal/core"
	"github.com/bookshophere/bookshop/internal/importer"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: 30 * time.Second},
		Upload: config.UploadConfig{MaxFileSize: 1 << 20, Timeout: time.Minute},
	}
}

func newTestServer(cfg *config.Config) *Server {
	return NewServer(core.NewService(nil), cfg)
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/import/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleUpload_CSV(t *testing.T) {
	srv := newTestServer(testConfig())

	req := uploadRequest(t, "authors.csv",
		[]byte("last_name,first_name,birth_year\nAusten,Jane,1775\n"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatalf("response = %+v, want success with data", resp)
	}
	if resp.Data.FileType != importer.FormatDelimited {
		t.Errorf("file_type = %q, want csv", resp.Data.FileType)
	}
	if len(resp.Data.Sheets) != 1 || resp.Data.Sheets[0].Type != importer.TypeAuthor {
		t.Errorf("sheets = %+v, want one author sheet", resp.Data.Sheets)
	}
}

func TestHandleUpload_Errors(t *testing.T) {
	srv := newTestServer(testConfig())

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantCode   string
	}{
		{
			name: "no file field",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/api/import/upload", strings.NewReader(""))
				r.Header.Set("Content-Type", "multipart/form-data; boundary=x")
				return r
			}(),
			wantStatus: http.StatusBadRequest,
			wantCode:   "FILE004",
		},
		{
			name:       "empty file",
			req:        uploadRequest(t, "empty.csv", nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   "FILE005",
		},
		{
			name:       "unsupported format",
			req:        uploadRequest(t, "report.pdf", []byte("%PDF-1.4")),
			wantStatus: http.StatusBadRequest,
			wantCode:   "FILE002",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, tt.req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleUpload_FileTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.MaxFileSize = 10
	srv := newTestServer(cfg)

	req := uploadRequest(t, "big.csv", []byte("last_name,first_name\nAusten,Jane\n"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != "FILE001" {
		t.Errorf("code = %q, want FILE001", resp.Code)
	}
}

func TestHandleProcess_NoRecords(t *testing.T) {
	srv := newTestServer(testConfig())

	body := `{"file_type":"csv","filename":"authors.csv","data_by_type":{}}`
	req := httptest.NewRequest(http.MethodPost, "/api/import/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
	}
}

func TestHandleProcess_BadJSON(t *testing.T) {
	srv := newTestServer(testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/import/process", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleTemplate(t *testing.T) {
	srv := newTestServer(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/template/book", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "book_import_template.xlsx") {
		t.Errorf("content disposition = %q", cd)
	}
	if rec.Body.Len() == 0 {
		t.Error("template body is empty")
	}
}

func TestHandleTemplate_UnknownType(t *testing.T) {
	srv := newTestServer(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/template/magazine", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAPIKeyRequired(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret-key"}
	srv := newTestServer(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/template/book", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/template/book", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/template/book", nil)
	req.Header.Set("X-API-Key", "secret-key")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid key: status = %d, want 200", rec.Code)
	}

	// The health endpoint stays outside the authenticated group.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code == http.StatusUnauthorized || rec.Code == http.StatusForbidden {
		t.Errorf("healthz should not require an API key, got %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	cfg := testConfig()
	cfg.Security.EnableCSP = true
	srv := newTestServer(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/template/book", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("CSP header missing with EnableCSP set")
	}
}

func TestUploadRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.RequestsPerMinute = 100
	cfg.Rate.UploadLimit = 1
	srv := newTestServer(cfg)

	csv := []byte("last_name,first_name\nAusten,Jane\n")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, uploadRequest(t, "authors.csv", csv))
	if rec.Code != http.StatusOK {
		t.Fatalf("first upload: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, uploadRequest(t, "authors.csv", csv))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second upload: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("limited response should carry Retry-After")
	}

	// Other routes only see the general limit.
	for i := 0; i < 3; i++ {
		rec = httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/template/book", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("template request %d: status = %d", i+1, rec.Code)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	if !rl.allow("10.0.0.1:1234") || !rl.allow("10.0.0.1:1234") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("10.0.0.1:1234") {
		t.Error("third request inside the window should be limited")
	}
	if !rl.allow("10.0.0.2:1234") {
		t.Error("other clients have their own bucket")
	}
}
