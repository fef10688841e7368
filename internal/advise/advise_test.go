package advise

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
	"github.com/youngfessy/seo-keyword-analysis-tool/pkg/anthropic"
)

type fakeClient struct {
	lastReq  anthropic.MessageRequest
	response string
	err      error
}

func (f *fakeClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.response}},
	}, nil
}

func sampleOpportunities() []model.Opportunity {
	return []model.Opportunity{
		{
			Record:           model.Record{Query: "best tutor", Position: 2, Impressions: 200, CTR: 0.05},
			OpportunityType:  model.TypeCtrOptimization,
			Priority:         model.PriorityHigh,
			OpportunityScore: 75,
			Intent:           model.IntentCommercial,
		},
		{
			Record:           model.Record{Query: "how to teach math", Position: 4.2, Impressions: 500, CTR: 0.08},
			OpportunityType:  model.TypeTop3Push,
			Priority:         model.PriorityMedium,
			OpportunityScore: 62,
			Intent:           model.IntentInformational,
		},
	}
}

func TestAdvisor_Recommend(t *testing.T) {
	fake := &fakeClient{response: `Here you go:
{"recommendations":[
  {"query":"Best Tutor","action":"Rewrite the title tag to include pricing."},
  {"query":"how to teach math","action":"Add a step-by-step section with schema markup."}
]}`}

	recs, err := New(fake, "claude-sonnet-4-5-20250929").Recommend(context.Background(), sampleOpportunities(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// matching is case-folded
	assert.Equal(t, "best tutor", recs[0].Query)
	assert.Equal(t, "Rewrite the title tag to include pricing.", recs[0].Action)
	assert.Equal(t, model.TypeCtrOptimization, recs[0].OpportunityType)
	assert.Equal(t, "Add a step-by-step section with schema markup.", recs[1].Action)

	assert.Contains(t, fake.lastReq.Messages[0].Content, "best tutor")
	assert.NotEmpty(t, fake.lastReq.System)
}

func TestAdvisor_Recommend_TopNLimits(t *testing.T) {
	fake := &fakeClient{response: `{"recommendations":[]}`}

	recs, err := New(fake, "m").Recommend(context.Background(), sampleOpportunities(), 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "best tutor", recs[0].Query)
	assert.Empty(t, recs[0].Action)
}

func TestAdvisor_Recommend_EmptyInput(t *testing.T) {
	fake := &fakeClient{response: `{}`}
	recs, err := New(fake, "m").Recommend(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Nil(t, recs)
}

func TestAdvisor_Recommend_NoJSON(t *testing.T) {
	fake := &fakeClient{response: "I cannot help with that."}
	_, err := New(fake, "m").Recommend(context.Background(), sampleOpportunities(), 5)
	assert.Error(t, err)
}

func TestAdvisor_Recommend_ClientError(t *testing.T) {
	fake := &fakeClient{err: assert.AnError}
	_, err := New(fake, "m").Recommend(context.Background(), sampleOpportunities(), 5)
	assert.Error(t, err)
}
