package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog/entities"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/config"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/core"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/storage"
)

type testServer struct {
	*Server
	mock pgxmock.PgxPoolIface
	root string
}

func newTestServer(t *testing.T, mutate func(*config.Config)) testServer {
	t.Helper()

	root := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{RequestTimeout: time.Minute},
		Import: config.ImportConfig{
			MaxFileSize:   1 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   50 * time.Millisecond,
			Timeout:       time.Minute,
			ResultTTL:     time.Hour,
		},
		Export:   config.ExportConfig{StorageRoot: root, Dir: "exports", UnknownFormat: "error", MaxRows: 100},
		Rate:     config.RateLimitConfig{Enabled: false},
		Security: config.SecurityConfig{EnableCSP: true},
	}
	if mutate != nil {
		mutate(cfg)
	}

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	svc, err := core.NewService(mock, storage.NewDisk(root, cfg.Export.PublicURL), cfg)
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	s := NewServer(svc, cfg)
	t.Cleanup(func() {
		for _, l := range s.limiters {
			l.stop()
		}
	})
	return testServer{Server: s, mock: mock, root: root}
}

func (ts testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.Router().ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, url, fileName, body string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `action="/api/import/candidates"`)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestListEntities(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/entities", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var infos []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	assert.Len(t, infos, 5)
}

func TestTemplate(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/template/departments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "departments_template.csv")
	assert.Equal(t, "Name,Code,Description,Status\n", rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/template/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"ENT001"`)
}

func TestImport_JSON(t *testing.T) {
	ts := newTestServer(t, nil)

	ts.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO departments (code,name) VALUES ($1,$2)")).
		WithArgs(pgtype.Text{String: "PHY", Valid: true}, pgtype.Text{String: "Physics", Valid: true}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec := ts.do(uploadRequest(t, "/api/import/departments", "d.csv",
		"Name,Code\nPhysics,PHY\n,CHE\n", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Processed)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, []string{"Row 3: Name is a required field"}, resp.Errors)
	assert.Equal(t, "/api/import/"+resp.ID+"/errors", resp.ErrorsURL)
	assert.NoError(t, ts.mock.ExpectationsWereMet())

	rec = ts.do(httptest.NewRequest(http.MethodGet, resp.ErrorsURL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "line,error\n3,Row 3: Name is a required field\n", rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/import/"+resp.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestImport_DryRunHTML(t *testing.T) {
	ts := newTestServer(t, nil)

	req := uploadRequest(t, "/api/import/departments", "d.csv", "Name,Code\nPhysics,PHY\n",
		map[string]string{"dry_run": "1"})
	req.Header.Set("Accept", "text/html")

	rec := ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Validation of departments")
	assert.NoError(t, ts.mock.ExpectationsWereMet())
}

func TestImport_Fatal(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(uploadRequest(t, "/api/import/departments", "d.csv", "Foo,Bar\n1,2\n", nil))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Problem)
	assert.Equal(t, "IMP004", resp.Problem.Code)
	assert.False(t, resp.Success)
}

func TestImport_NoFile(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(uploadRequest(t, "/api/import/departments", "", "", map[string]string{"x": "y"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE002")
}

func TestImport_TooLarge(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.Import.MaxFileSize = 64 })

	rec := ts.do(uploadRequest(t, "/api/import/departments", "d.csv", strings.Repeat("x", 1024), nil))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE001")
}

func TestImportErrors_NotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/import/missing/errors", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "JOB002")
}

func TestExport(t *testing.T) {
	ts := newTestServer(t, nil)

	ts.mock.ExpectQuery("SELECT (.+) FROM departments").
		WillReturnRows(pgxmock.NewRows([]string{"name", "code", "description", "status"}).
			AddRow("Physics", "PHY", "", "active"))

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/export/departments?format=csv", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Regexp(t, `^/exports/departments-\d+\.csv$`, body["url"])

	_, err := os.Stat(filepath.Join(ts.root, strings.TrimPrefix(body["url"], "/")))
	require.NoError(t, err)

	// The stored file is served back.
	rec = ts.do(httptest.NewRequest(http.MethodGet, body["url"], nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Name,Code,Description,Status\nPhysics,PHY,,active\n", rec.Body.String())
}

func TestExport_DownloadRedirects(t *testing.T) {
	ts := newTestServer(t, nil)

	ts.mock.ExpectQuery("SELECT (.+) FROM subjects").
		WillReturnRows(pgxmock.NewRows([]string{"code", "name"}).AddRow("PHY101", "Physics"))

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/export/subjects?format=Excel&download=1", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Regexp(t, `^/exports/subjects-\d+\.xlsx$`, rec.Header().Get("Location"))
}

func TestExport_BadFormat(t *testing.T) {
	ts := newTestServer(t, nil)

	ts.mock.ExpectQuery("SELECT").WillReturnRows(pgxmock.NewRows([]string{"code"}))

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/export/subjects?format=docx", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EXP001")
}

func TestJobsStatus(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/jobs/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var st core.JobLimiterStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, 2, st.MaxConcurrent)
	assert.Equal(t, 2, st.Available)
}

func TestAPIKeyRequired(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) {
		c.Security.RequireAPIKey = true
		c.Security.APIKeys = []string{"secret"}
	})

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/entities", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/entities", nil)
	req.Header.Set("X-API-Key", "secret")
	assert.Equal(t, http.StatusOK, ts.do(req).Code)

	// The index page stays public.
	assert.Equal(t, http.StatusOK, ts.do(httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) {
		c.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, ImportLimit: 1}
	})

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, ts.do(httptest.NewRequest(http.MethodGet, "/api/entities", nil)).Code)
	}
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/entities", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE001")
}

func TestRateLimiterWindow(t *testing.T) {
	s := &Server{}
	rl := s.newRateLimiter(1, time.Minute)
	defer rl.stop()

	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("1.1.1.1"))
	assert.False(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("2.2.2.2"))

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.allow("1.1.1.1"))
}
