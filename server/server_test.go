package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y00281951/fst-time-nlu/extractor"
	"github.com/y00281951/fst-time-nlu/internal/profile"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ext, err := extractor.New(extractor.English)
	require.NoError(t, err)
	prof := &profile.Profile{Mode: "dev", Language: "english", Version: "test"}
	return New(prof, ext)
}

func postExtract(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestExtractEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := postExtract(t, s, `{"text":"the day after tomorrow 5pm","base_time":"2025-01-21T08:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results  []any  `json:"results"`
		QueryTag string `json:"query_tag"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "relative", resp.QueryTag)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "2025-01-23T17:00:00Z", resp.Results[0])
}

func TestExtractEndpointEmptyResult(t *testing.T) {
	s := newTestServer(t)
	rec := postExtract(t, s, `{"text":"nothing to see here","base_time":"2025-01-21T08:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results  []any  `json:"results"`
		QueryTag string `json:"query_tag"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "none", resp.QueryTag)
	assert.Empty(t, resp.Results)
}

func TestExtractEndpointInvalidBase(t *testing.T) {
	s := newTestServer(t)
	rec := postExtract(t, s, `{"text":"tomorrow","base_time":"garbage"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractEndpointMalformedBody(t *testing.T) {
	s := newTestServer(t)
	rec := postExtract(t, s, `{"text": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractBatchEndpoint(t *testing.T) {
	s := newTestServer(t)
	body := `{"text":"the day after tomorrow 5pm","base_time":"2025-01-21T08:00:00Z"}
not json at all
{"text":"tomorrow","base_time":"garbage"}
{"text":"in 3 days","base_time":"2025-01-21T08:00:00Z"}
`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract/batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-ndjson")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))

	// malformed and invalid-base lines are skipped, good lines come back in order
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)

	var first struct {
		Text     string `json:"text"`
		Results  []any  `json:"results"`
		QueryTag string `json:"query_tag"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "the day after tomorrow 5pm", first.Text)
	assert.Equal(t, "relative", first.QueryTag)
	require.Len(t, first.Results, 1)
	assert.Equal(t, "2025-01-23T17:00:00Z", first.Results[0])

	var second struct {
		Text     string `json:"text"`
		QueryTag string `json:"query_tag"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "in 3 days", second.Text)
	assert.Equal(t, "relative", second.QueryTag)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "english")
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "fixed-id")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-Id"))
}
