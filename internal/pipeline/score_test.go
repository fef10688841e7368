package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

func TestScoreOpportunity_Bounds(t *testing.T) {
	w := DefaultWeights()

	// best possible inputs stay within 100
	best := model.Record{Query: "q", Position: 1, Impressions: 1_000_000_000, Clicks: 0, CTR: 0}
	m := model.KeywordMetrics{SearchVolume: 1_000_000_000, Difficulty: 0}
	score := ScoreOpportunity(best, m, 1_000_000, w)
	assert.LessOrEqual(t, score, 100.0)
	assert.Greater(t, score, 90.0)

	// worst possible inputs stay at or above 0
	worst := model.Record{Query: "q", Position: 1000, Impressions: 0, Clicks: 0, CTR: 0}
	m = model.KeywordMetrics{SearchVolume: 0, Difficulty: 100}
	score = ScoreOpportunity(worst, m, 0, w)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.Less(t, score, 10.0)
}

func TestScoreOpportunity_PositionDominates(t *testing.T) {
	w := DefaultWeights()
	m := model.KeywordMetrics{SearchVolume: 1000, Difficulty: 50}

	top := ScoreOpportunity(model.Record{Position: 2, Impressions: 100}, m, 10, w)
	deep := ScoreOpportunity(model.Record{Position: 80, Impressions: 100}, m, 10, w)
	assert.Greater(t, top, deep)
}

func TestOpportunityTypeFor_Ladder(t *testing.T) {
	tests := []struct {
		name string
		rec  model.Record
		want model.OpportunityType
	}{
		{"top3 underclicked", model.Record{Position: 2, CTR: 0.05, Impressions: 10}, model.TypeCtrOptimization},
		{"top3 healthy ctr falls through", model.Record{Position: 2, CTR: 0.25, Impressions: 10}, model.TypeLongTermTarget},
		{"page one push", model.Record{Position: 4.2, Impressions: 500, CTR: 0.08}, model.TypeTop3Push},
		{"page one but thin traffic", model.Record{Position: 5, Impressions: 99, CTR: 0.2}, model.TypeLongTermTarget},
		{"page two push", model.Record{Position: 15, Impressions: 50}, model.TypeTop10Push},
		{"page three push", model.Record{Position: 25, Impressions: 30}, model.TypeFirstPagePush},
		{"deep position", model.Record{Position: 50, Impressions: 5}, model.TypeLongTermTarget},
		{"boundary position ten", model.Record{Position: 10, Impressions: 100}, model.TypeTop3Push},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OpportunityTypeFor(tt.rec))
		})
	}
}

func TestPriorityFor_Thresholds(t *testing.T) {
	assert.Equal(t, model.PriorityHigh, PriorityFor(70))
	assert.Equal(t, model.PriorityHigh, PriorityFor(95))
	assert.Equal(t, model.PriorityMedium, PriorityFor(69.9))
	assert.Equal(t, model.PriorityMedium, PriorityFor(40))
	assert.Equal(t, model.PriorityLow, PriorityFor(39.9))
	assert.Equal(t, model.PriorityLow, PriorityFor(0))
}
