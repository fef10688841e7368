package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleRun() (model.AnalysisRun, []model.Opportunity) {
	now := time.Now().UTC().Truncate(time.Second)
	opps := []model.Opportunity{
		{
			Record:           model.Record{Query: "best tutor", Position: 2, Impressions: 200, Clicks: 10, CTR: 0.05},
			Intent:           model.IntentCommercial,
			AnswerIntent:     model.AnswerIntentFactual,
			SerpFeatures:     []model.SerpFeature{model.SerpStandardResults},
			SearchVolume:     1000,
			Difficulty:       70,
			CostPerClick:     2.5,
			DataSource:       model.SourceEstimated,
			CTRGap:           0.19,
			TrafficPotential: 38,
			OpportunityScore: 72.5,
			AnswerPotential:  41.0,
			OpportunityType:  model.TypeCtrOptimization,
			Priority:         model.PriorityHigh,
		},
		{
			Record:           model.Record{Query: "how to teach math", Position: 4.2, Impressions: 500, Clicks: 40, CTR: 0.08},
			Intent:           model.IntentInformational,
			AnswerIntent:     model.AnswerIntentQuestion,
			SerpFeatures:     []model.SerpFeature{model.SerpFeaturedSnippet, model.SerpHowTo},
			SearchVolume:     2500,
			Difficulty:       30,
			DataSource:       model.SourceEstimated,
			CTRGap:           0.04,
			TrafficPotential: 20,
			OpportunityScore: 65.0,
			AnswerPotential:  80.0,
			OpportunityType:  model.TypeTop3Push,
			Priority:         model.PriorityMedium,
		},
	}
	run := model.AnalysisRun{
		ID:        uuid.New().String(),
		Domain:    "sc-domain:example.com",
		StartDate: now.AddDate(0, 0, -90),
		EndDate:   now,
		Fetched:   10,
		Dropped:   1,
		Excluded:  2,
		Summary:   model.Summarize(opps),
		CreatedAt: now,
	}
	return run, opps
}

func TestSQLiteStore_SaveAndGetRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, opps := sampleRun()
	require.NoError(t, s.SaveRun(ctx, run, opps))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Domain, got.Domain)
	assert.Equal(t, run.Fetched, got.Fetched)
	assert.Equal(t, run.Dropped, got.Dropped)
	assert.Equal(t, run.Excluded, got.Excluded)
	assert.Equal(t, run.Summary.TotalKeywords, got.Summary.TotalKeywords)
	assert.Equal(t, run.Summary.ByPriority, got.Summary.ByPriority)
}

func TestSQLiteStore_GetOpportunitiesPreservesOrder(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, opps := sampleRun()
	require.NoError(t, s.SaveRun(ctx, run, opps))

	got, err := s.GetOpportunities(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "best tutor", got[0].Query)
	assert.Equal(t, "how to teach math", got[1].Query)
	assert.Equal(t, opps[0].SerpFeatures, got[0].SerpFeatures)
	assert.Equal(t, opps[1].OpportunityType, got[1].OpportunityType)
	assert.Equal(t, opps[1].AnswerPotential, got[1].AnswerPotential)
}

func TestSQLiteStore_GetRun_NotFound(t *testing.T) {
	s := newTestSQLite(t)
	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first, opps := sampleRun()
	require.NoError(t, s.SaveRun(ctx, first, opps))

	second, opps := sampleRun()
	second.Domain = "sc-domain:other.com"
	second.CreatedAt = second.CreatedAt.Add(time.Minute)
	require.NoError(t, s.SaveRun(ctx, second, opps))

	runs, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// newest first
	assert.Equal(t, second.ID, runs[0].ID)

	runs, err = s.ListRuns(ctx, RunFilter{Domain: "sc-domain:other.com"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, second.ID, runs[0].ID)

	runs, err = s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLiteStore_SaveRunEmptyOpportunities(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, _ := sampleRun()
	require.NoError(t, s.SaveRun(ctx, run, nil))

	opps, err := s.GetOpportunities(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, opps)
}
