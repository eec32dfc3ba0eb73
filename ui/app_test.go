package ui

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agora/app"
	"agora/domain/opinion"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	return NewApp(Config{DefaultParams: opinion.DefaultParams()})
}

func intp(v int) *int { return &v }

// polarizedRequest builds two opposed voting blocs over four statements.
func polarizedRequest(params *opinion.AnalysisParams) AnalyzeRequest {
	agreeRow := []*int{intp(1), intp(1), intp(-1), intp(-1)}
	disagreeRow := []*int{intp(-1), intp(-1), intp(1), intp(1)}

	rows := make([][]*int, 0, 8)
	for i := 0; i < 4; i++ {
		rows = append(rows, agreeRow)
	}
	for i := 0; i < 4; i++ {
		rows = append(rows, disagreeRow)
	}
	return AnalyzeRequest{
		Votes:        rows,
		StatementIDs: []string{"s0", "s1", "s2", "s3"},
		Params:       params,
	}
}

func postJSON(t *testing.T, a *App, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestAnalyzeEndpoint_PolarizedBlocs(t *testing.T) {
	a := newTestApp(t)

	rec := postJSON(t, a, "/api/analyze", polarizedRequest(&opinion.AnalysisParams{K: 2, MinVotes: 4}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result opinion.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, 8, result.Participants)
	assert.Equal(t, 4, result.Statements)
	require.Len(t, result.Groups, 2)

	seen := make(map[int]bool)
	for _, g := range result.Groups {
		for _, m := range g.Members {
			assert.False(t, seen[m], "participant %d assigned twice", m)
			seen[m] = true
		}
	}
	assert.Len(t, seen, 8)
	assert.NotEmpty(t, result.RunID)
}

func TestAnalyzeEndpoint_RejectsBadVoteValue(t *testing.T) {
	a := newTestApp(t)

	req := polarizedRequest(nil)
	req.Votes[0][0] = intp(7)

	rec := postJSON(t, a, "/api/analyze", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_INPUT", resp.Code)
}

func TestAnalyzeEndpoint_RejectsMalformedBody(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendKEndpoint(t *testing.T) {
	a := newTestApp(t)

	rec := postJSON(t, a, "/api/recommend-k", polarizedRequest(nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var sweep app.SweepResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sweep))

	assert.Equal(t, 2, sweep.OptimalPCAK)
	assert.NotEmpty(t, sweep.PCAScores)
}

func TestReportEndpoint_RendersHTML(t *testing.T) {
	a := newTestApp(t)

	rec := postJSON(t, a, "/api/report", polarizedRequest(&opinion.AnalysisParams{K: 2}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "<h1")
	assert.Contains(t, body, "Opinion Groups")
	assert.Contains(t, body, "<table")
}

func TestBuildMarkdownReport_CoversSections(t *testing.T) {
	service := app.NewAnalysisService(opinion.AnalysisParams{K: 2, MinVotes: 4})
	matrix, _, err := newTestApp(t).decodeAnalyzeRequest(
		httptest.NewRequest(http.MethodPost, "/api/analyze", jsonBody(t, polarizedRequest(nil))),
	)
	require.NoError(t, err)

	md := BuildMarkdownReport(service.Analyze(matrix))

	assert.Contains(t, md, "# Opinion Analysis Report")
	assert.Contains(t, md, "## Opinion Groups")
	assert.Contains(t, md, "## Consensus")
	assert.Contains(t, md, "## Representative Statements")
}

func jsonBody(t *testing.T, body any) *bytes.Reader {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(payload)
}
