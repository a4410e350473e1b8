package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zYagamiBR/hoa-helper/internal/domain/models"
	"github.com/zYagamiBR/hoa-helper/internal/error/code"
	"github.com/zYagamiBR/hoa-helper/internal/infrastructure/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	cfg := &config.Config{
		EnvType:        "LOCAL",
		DBDriver:       "sqlite",
		DBPath:         ":memory:",
		CORSOrigin:     "*",
		ReportsDir:     t.TempDir(),
		CacheTTL:       time.Minute,
		RateLimit:      1000,
		RateLimitBurst: 1000,
	}
	return SetupRouter(db, cfg, nil, nil)
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func upload(t *testing.T, r http.Handler, path, field, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBillCreationScenario(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/bills", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = do(t, r, http.MethodPost, "/api/bills",
		`{"title":"Electricity","vendor_name":"CEMIG","amount":"450.00","category":"utilities","frequency":"monthly","status":"active","description":"","due_day":null,"auto_pay":false}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]interface{}
	decode(t, w, &created)
	assert.Equal(t, "Electricity", created["title"])
	assert.Equal(t, "CEMIG", created["vendor_name"])
	assert.Equal(t, "utilities", created["category"])
	assert.NotZero(t, created["id"])

	w = do(t, r, http.MethodGet, "/api/bills", "")
	require.Equal(t, http.StatusOK, w.Code)
	var bills []map[string]interface{}
	decode(t, w, &bills)
	require.Len(t, bills, 1)
	assert.Equal(t, "Electricity", bills[0]["title"])
	assert.Equal(t, "monthly", bills[0]["frequency"])
}

func TestBillMetadata(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/bills/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	var categories []string
	decode(t, w, &categories)
	assert.Contains(t, categories, "elevator")
	assert.Equal(t, "other", categories[len(categories)-1])

	w = do(t, r, http.MethodGet, "/api/bills/frequencies", "")
	assert.JSONEq(t, `["monthly","quarterly","semi-annual","yearly"]`, w.Body.String())
}

func TestErrorEnvelope(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/residents/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var failure map[string]interface{}
	decode(t, w, &failure)
	assert.Equal(t, "resident 99 not found", failure["error"])
	assert.Equal(t, float64(code.ErrRecordNotFound), failure["code"])

	w = do(t, r, http.MethodGet, "/api/residents/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/residents", `{"name":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &failure)
	assert.Contains(t, failure["error"], "email is required")

	w = do(t, r, http.MethodPost, "/api/residents", `{"name":"Ana","email":"ana@example.com","building":1,"apartment":101}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(t, r, http.MethodPost, "/api/residents", `{"name":"Ana","email":"ANA@example.com","building":1,"apartment":102}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/payments", `{"resident_id":77,"amount":"10","payment_type":"fine"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &failure)
	assert.Equal(t, float64(code.ErrReferenceNotFound), failure["code"])

	w = do(t, r, http.MethodGet, "/api/parking", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/vendors", `{"name":"CleanCo","services":"cleaning"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var vendor map[string]interface{}
	decode(t, w, &vendor)
	path := fmt.Sprintf("/api/vendors/%v", vendor["id"])

	// warm the cache so the update has something to purge
	do(t, r, http.MethodGet, path, "")

	w = do(t, r, http.MethodPut, path, `{"phone":"31999990000"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, path, "")
	decode(t, w, &vendor)
	assert.Equal(t, "31999990000", vendor["phone"])
	assert.Equal(t, "cleaning", vendor["services"])

	w = do(t, r, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Record deleted successfully"}`, w.Body.String())

	w = do(t, r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportExportRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/import-export/residents/template", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "residents_import_template.csv")
	assert.Equal(t, "name,email,phone,building,apartment\n", w.Body.String())

	csv := "name,email,phone,building,apartment\n" +
		"Ana,ana@example.com,,1,101\n" +
		"Bruno,bruno@example.com,,2,\n"
	w = upload(t, r, "/api/import-export/residents/import", "file", "residents.csv", csv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result struct {
		Success       bool     `json:"success"`
		ImportedCount int      `json:"imported_count"`
		Errors        []string `json:"errors"`
	}
	decode(t, w, &result)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.ImportedCount)
	assert.Equal(t, []string{"Row 3: apartment is required"}, result.Errors)

	w = do(t, r, http.MethodGet, "/api/residents", "")
	var residents []map[string]interface{}
	decode(t, w, &residents)
	assert.Len(t, residents, 1)

	w = do(t, r, http.MethodGet, "/api/import-export/residents/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "residents_export_"+time.Now().Format("2006-01-02")+".csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "1,Ana,ana@example.com,,1,101,"), lines[1])
}

func TestImportRejectsBadUploads(t *testing.T) {
	r := newTestRouter(t)

	w := upload(t, r, "/api/import-export/residents/import", "", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var failure map[string]interface{}
	decode(t, w, &failure)
	assert.Equal(t, float64(code.ErrNoFile), failure["code"])

	w = upload(t, r, "/api/import-export/residents/import", "file", "residents.xlsx", "x")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &failure)
	assert.Equal(t, float64(code.ErrNotCSV), failure["code"])

	w = upload(t, r, "/api/import-export/parking/import", "file", "parking.csv", "a,b\n")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = upload(t, r, "/api/import-export/residents/import", "file", "residents.csv", "name\nAna\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &failure)
	assert.Contains(t, failure["error"], "missing required columns")
}

func TestReports(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/reports/templates", "")
	require.Equal(t, http.StatusOK, w.Code)
	var templates []map[string]interface{}
	decode(t, w, &templates)
	assert.Len(t, templates, 4)

	w = do(t, r, http.MethodPost, "/api/reports/quick-generate", `{"template_name":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodPost, "/api/reports/quick-generate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/reports/quick-generate", `{"template_name":"financial_monthly","year":2024,"month":3}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var generated struct {
		Message     string                 `json:"message"`
		Generation  map[string]interface{} `json:"generation"`
		DownloadURL string                 `json:"download_url"`
	}
	decode(t, w, &generated)
	assert.Equal(t, fmt.Sprintf("/api/reports/download/%v", generated.Generation["id"]), generated.DownloadURL)
	assert.NotContains(t, generated.Generation, "file_path")

	w = do(t, r, http.MethodGet, generated.DownloadURL, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.Positive(t, w.Body.Len())

	w = do(t, r, http.MethodGet, "/api/reports/download/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/reports/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	var dashboard map[string]interface{}
	decode(t, w, &dashboard)
	assert.Equal(t, float64(1), dashboard["total_generations"])
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/health/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]interface{}
	decode(t, w, &status)
	assert.Equal(t, "healthy", status["status"])
	assert.Equal(t, "disabled", status["redis"])

	w = do(t, r, http.MethodGet, "/api/health/cache-stats", "")
	require.Equal(t, http.StatusOK, w.Code)
}
