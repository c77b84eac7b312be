package v1

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"tallyboard/internal/importer"
	"tallyboard/internal/store"
)

const coffeeCSV = `transaction_id,transaction_date,transaction_time,product_detail,product_category,transaction_qty,unit_price
1,2023-01-01,07:06:11,Ethiopia Rg,Coffee,2,3.00
2,2023-01-01,07:08:56,Spicy Eye Opener Chai Lg,Tea,1,3.10
`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "tallyboard.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(st, importer.NewCoordinator(st, importer.Options{}))
	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))
	return router
}

func uploadRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func TestUploadAndDatasetLifecycle(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := serve(router, uploadRequest(t, "coffee_sales.csv", coffeeCSV, map[string]string{"stream": "false"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status got=%d body=%s", rec.Code, rec.Body.String())
	}
	var result importer.ImportResult
	decode(t, rec, &result)
	if result.DatasetID == "" || result.RowCount != 2 {
		t.Fatalf("upload result got=%+v", result)
	}
	if got := result.Mapping["product_detail"]; got != "product_detail" {
		t.Fatalf("product_detail mapping got=%q", got)
	}

	base := "/api/datasets/" + result.DatasetID

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/datasets", nil))
	var list struct {
		Datasets []struct {
			ID       string `json:"id"`
			RowCount int    `json:"rowCount"`
		} `json:"datasets"`
	}
	decode(t, rec, &list)
	if len(list.Datasets) != 1 || list.Datasets[0].ID != result.DatasetID || list.Datasets[0].RowCount != 2 {
		t.Fatalf("list got=%+v", list)
	}

	rec = serve(router, httptest.NewRequest(http.MethodGet, base+"/columns", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("columns status got=%d body=%s", rec.Code, rec.Body.String())
	}
	var cols importer.ColumnsResult
	decode(t, rec, &cols)
	if cols.Product != "product_detail" {
		t.Fatalf("columns product got=%q", cols.Product)
	}

	rec = serve(router, httptest.NewRequest(http.MethodGet, base+"/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status got=%d", rec.Code)
	}

	rec = serve(router, jsonRequest(http.MethodPut, base+"/mapping",
		`{"mappedColumns":{"product":"product_detail","revenue":"product_detail"}}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-injective mapping status got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
	rec = serve(router, jsonRequest(http.MethodPut, base+"/mapping",
		`{"mappedColumns":{"product":"product_detail","revenue":"unit_price"}}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("mapping status got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = serve(router, httptest.NewRequest(http.MethodPost, base+"/clean", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("clean status got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = serve(router, httptest.NewRequest(http.MethodDelete, base, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status got=%d", rec.Code)
	}
	rec = serve(router, httptest.NewRequest(http.MethodGet, base, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status got=%d want=%d", rec.Code, http.StatusNotFound)
	}
}

func TestUploadStreamsProgress(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := serve(router, uploadRequest(t, "coffee_sales.csv", coffeeCSV, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status got=%d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type got=%q", ct)
	}

	var types []string
	for _, line := range strings.Split(rec.Body.String(), "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var evt importer.ProgressEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &evt); err != nil {
			t.Fatalf("decode event %q: %v", line, err)
		}
		types = append(types, evt.Type)
	}
	if len(types) == 0 || types[0] != importer.EventStart || types[len(types)-1] != importer.EventDone {
		t.Fatalf("event types got=%v", types)
	}
}

func TestUploadErrors(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	if rec := serve(router, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing file status got=%d", rec.Code)
	}

	rec := serve(router, uploadRequest(t, "notes.txt", "a,b\n1,2\n", map[string]string{"stream": "false"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unsupported file status got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = serve(router, uploadRequest(t, "dup.csv", "a,a\n1,2\n", map[string]string{"stream": "false"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate header status got=%d", rec.Code)
	}

	rec = serve(router, uploadRequest(t, "sales.csv", coffeeCSV, map[string]string{"stream": "false", "businessType": "bakery"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown business type status got=%d", rec.Code)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := serve(router, jsonRequest(http.MethodPost, "/api/parse-date", `{"date":"15-03-2024","time":"14:30"}`))
	var got struct {
		Valid    bool   `json:"valid"`
		Datetime string `json:"datetime"`
		Date     string `json:"date"`
	}
	decode(t, rec, &got)
	if !got.Valid || got.Date != "2024-03-15" || got.Datetime != "2024-03-15T14:30:00Z" {
		t.Fatalf("parse got=%+v", got)
	}

	rec = serve(router, jsonRequest(http.MethodPost, "/api/parse-date", `{"date":"not a date"}`))
	got.Valid = true
	decode(t, rec, &got)
	if got.Valid {
		t.Fatalf("invalid date reported valid")
	}

	rec = serve(router, jsonRequest(http.MethodPost, "/api/parse-date", `{"date":"2024-03-15","zone":"Mars/Olympus"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown zone status got=%d", rec.Code)
	}
}

func TestCandidatesAndStatus(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := serve(router, jsonRequest(http.MethodPut, "/api/candidates", `{"product":["artikel"]}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("put candidates status got=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/candidates", nil))
	var cands struct {
		Overrides struct {
			Product []string `json:"product"`
		} `json:"overrides"`
	}
	decode(t, rec, &cands)
	if len(cands.Overrides.Product) != 1 || cands.Overrides.Product[0] != "artikel" {
		t.Fatalf("overrides got=%+v", cands.Overrides)
	}

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	var status StatusResponse
	decode(t, rec, &status)
	if !status.Healthy || status.DatasetCount != 0 || status.ConfidenceThreshold != 0.7 {
		t.Fatalf("status got=%+v", status)
	}
}
