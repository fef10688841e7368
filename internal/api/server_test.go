package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
	"github.com/youngfessy/seo-keyword-analysis-tool/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, model.AnalysisRun) {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	opps := []model.Opportunity{{
		Record:           model.Record{Query: "best tutor", Position: 2, Impressions: 200, Clicks: 10, CTR: 0.05},
		Intent:           model.IntentCommercial,
		AnswerIntent:     model.AnswerIntentFactual,
		SerpFeatures:     []model.SerpFeature{model.SerpStandardResults},
		SearchVolume:     1000,
		Difficulty:       70,
		DataSource:       model.SourceEstimated,
		OpportunityScore: 72.5,
		OpportunityType:  model.TypeCtrOptimization,
		Priority:         model.PriorityHigh,
	}}
	run := model.AnalysisRun{
		ID:        uuid.New().String(),
		Domain:    "sc-domain:example.com",
		StartDate: time.Now().UTC().AddDate(0, 0, -90),
		EndDate:   time.Now().UTC(),
		Fetched:   5,
		Summary:   model.Summarize(opps),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.SaveRun(context.Background(), run, opps))

	srv := httptest.NewServer(NewServer(st).Router())
	t.Cleanup(srv.Close)
	return srv, run
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	status := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_ListRuns(t *testing.T) {
	srv, run := newTestServer(t)

	var body struct {
		Runs []model.AnalysisRun `json:"runs"`
	}
	status := getJSON(t, srv.URL+"/runs", &body)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Runs, 1)
	assert.Equal(t, run.ID, body.Runs[0].ID)

	status = getJSON(t, srv.URL+"/runs?domain=sc-domain:other.com", &body)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body.Runs)
}

func TestServer_GetRun(t *testing.T) {
	srv, run := newTestServer(t)

	var got model.AnalysisRun
	status := getJSON(t, srv.URL+"/runs/"+run.ID, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, run.Domain, got.Domain)
	assert.Equal(t, run.Summary.TotalKeywords, got.Summary.TotalKeywords)
}

func TestServer_GetRun_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	status := getJSON(t, srv.URL+"/runs/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestServer_GetOpportunities(t *testing.T) {
	srv, run := newTestServer(t)

	var body struct {
		Opportunities []model.Opportunity `json:"opportunities"`
	}
	status := getJSON(t, srv.URL+"/runs/"+run.ID+"/opportunities", &body)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Opportunities, 1)
	assert.Equal(t, "best tutor", body.Opportunities[0].Query)
	assert.Equal(t, model.TypeCtrOptimization, body.Opportunities[0].OpportunityType)
}
