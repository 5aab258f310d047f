package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roaringfork/irondash/internal/api"
	"github.com/roaringfork/irondash/internal/dashboard"
	"github.com/roaringfork/irondash/internal/feedback"
	"github.com/roaringfork/irondash/internal/pipeline"
)

type stubFetcher struct {
	doc pipeline.RawDocument
	err error
}

func (f *stubFetcher) FetchTimeseries(context.Context, pipeline.RequestDescriptor) (pipeline.RawDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

type stubCreator struct {
	err error
}

func (c *stubCreator) CreateIssue(context.Context, feedback.Issue) error {
	return c.err
}

func newTestRouter(t *testing.T, fetcher pipeline.Fetcher, creator feedback.IssueCreator) http.Handler {
	t.Helper()
	svc := dashboard.NewService(dashboard.ServiceConfig{
		Registry: dashboard.NewRegistry(dashboard.RegistryConfig{
			Builder:      pipeline.NewBuilder("https://api.example.com", "tok"),
			Fetcher:      fetcher,
			IssueCreator: creator,
			Logger:       zerolog.Nop(),
			Clock:        clockwork.NewFakeClock(),
		}),
		Logger: zerolog.Nop(),
	})

	return api.NewRouter(api.RouterConfig{
		Version:          "test",
		BuildTime:        "now",
		Logger:           zerolog.Nop(),
		DashboardService: svc,
	})
}

func observationFetcher(t *testing.T) *stubFetcher {
	t.Helper()
	var doc pipeline.RawDocument
	require.NoError(t, json.Unmarshal([]byte(`{
		"STATION": [{
			"OBSERVATIONS": {
				"date_time": ["2024-01-01T00:00:00Z"],
				"air_temp_set_1": [1.5]
			}
		}]
	}`), &doc))
	return &stubFetcher{doc: doc}
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, observationFetcher(t), &stubCreator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "test", body["version"])
}

func TestRouter_Enums(t *testing.T) {
	router := newTestRouter(t, observationFetcher(t), &stubCreator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/metadata/enums", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stations  []string `json:"stations"`
		Variables []string `json:"variables"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Stations, "RFBRC")
	assert.Contains(t, body.Variables, "air_temp")
}

func TestRouter_UpdateParams_MintsSession(t *testing.T) {
	router := newTestRouter(t, observationFetcher(t), &stubCreator{})

	payload := `{"station": "RFBRC", "variables": ["air_temp"], "start": "2024-01-01", "end": "2024-01-07"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/dashboard/params", bytes.NewBufferString(payload)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Session-Id"))
}

func TestRouter_UpdateParams_SessionRoundTrip(t *testing.T) {
	router := newTestRouter(t, observationFetcher(t), &stubCreator{})

	payload := `{"station": "RFBRC", "variables": "air_temp", "start": "2024-01-01", "end": "2024-01-07"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/dashboard/params", bytes.NewBufferString(payload)))
	require.Equal(t, http.StatusOK, rec.Code)
	sessionID := rec.Header().Get("X-Session-Id")

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/table", nil)
	req.Header.Set("X-Session-Id", sessionID)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sessionID, rec.Header().Get("X-Session-Id"))

	var table struct {
		Columns    []string `json:"columns"`
		Diagnostic string   `json:"diagnostic"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	assert.Empty(t, table.Diagnostic)
	assert.Equal(t, []string{"Time", "air_temp"}, table.Columns)
}

func TestRouter_UpdateParams_InvalidBody(t *testing.T) {
	router := newTestRouter(t, observationFetcher(t), &stubCreator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/dashboard/params", bytes.NewBufferString(`{not json`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_UpdateParams_InvalidDate(t *testing.T) {
	router := newTestRouter(t, observationFetcher(t), &stubCreator{})

	payload := `{"station": "RFBRC", "start": "last tuesday", "end": "2024-01-07"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/dashboard/params", bytes.NewBufferString(payload)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Table_DiagnosticWithoutSelection(t *testing.T) {
	router := newTestRouter(t, observationFetcher(t), &stubCreator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard/table", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var table struct {
		Columns    []string `json:"columns"`
		Diagnostic string   `json:"diagnostic"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	assert.Equal(t, []string{"Error"}, table.Columns)
	assert.NotEmpty(t, table.Diagnostic)
}

func TestRouter_Chart(t *testing.T) {
	router := newTestRouter(t, observationFetcher(t), &stubCreator{})

	payload := `{"station": "RFBRC", "variables": ["air_temp"], "start": "2024-01-01", "end": "2024-01-07"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/dashboard/params", bytes.NewBufferString(payload)))
	sessionID := rec.Header().Get("X-Session-Id")

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/chart", nil)
	req.Header.Set("X-Session-Id", sessionID)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var chart struct {
		Plan struct {
			Primary string `json:"Primary"`
		} `json:"plan"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chart))
	assert.Empty(t, chart.Message)
	assert.Equal(t, "air_temp", chart.Plan.Primary)
}

func TestRouter_Feedback_Submit(t *testing.T) {
	creator := &stubCreator{}
	router := newTestRouter(t, observationFetcher(t), creator)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/feedback/", bytes.NewBufferString(`{"text": "love the dashboard"}`)))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SUCCEEDED", body.Status)
}

func TestRouter_Feedback_SubmitEmpty(t *testing.T) {
	router := newTestRouter(t, observationFetcher(t), &stubCreator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/feedback/", bytes.NewBufferString(`{"text": "   "}`)))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "EMPTY", body.Status)
	assert.Contains(t, body.Message, "empty")
}

func TestRouter_Feedback_Status(t *testing.T) {
	router := newTestRouter(t, observationFetcher(t), &stubCreator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/feedback/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "IDLE", body.Status)
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t, observationFetcher(t), &stubCreator{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
