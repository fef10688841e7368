// Package advise generates action recommendations for top opportunities
// via Claude.
package advise

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
	"github.com/youngfessy/seo-keyword-analysis-tool/pkg/anthropic"
)

const systemPrompt = `You are an SEO strategist. You are given a list of keyword
opportunities from search-performance data, each with its ranking position,
impressions, CTR, opportunity type, and scores.

For each keyword, produce one concrete, specific next action (content change,
on-page optimization, internal linking, new page, or structured data) that
would most improve its standing. Keep each action under 40 words.

Respond with only a JSON object of the form:
{"recommendations": [{"query": "...", "action": "..."}]}`

// Recommendation is one suggested action for a keyword.
type Recommendation struct {
	Query           string                `json:"query"`
	OpportunityType model.OpportunityType `json:"opportunity_type"`
	Priority        model.Priority        `json:"priority"`
	Action          string                `json:"action"`
}

// Advisor asks Claude for per-keyword recommendations.
type Advisor struct {
	ai    anthropic.Client
	model string
	log   *zap.Logger
}

func New(ai anthropic.Client, model string) *Advisor {
	return &Advisor{
		ai:    ai,
		model: model,
		log:   zap.L().With(zap.String("component", "advise")),
	}
}

// Recommend generates actions for up to topN opportunities, taken in score
// order. Keywords Claude does not answer for are returned without an
// action rather than dropped.
func (a *Advisor) Recommend(ctx context.Context, opps []model.Opportunity, topN int) ([]Recommendation, error) {
	if topN <= 0 || topN > len(opps) {
		topN = len(opps)
	}
	top := opps[:topN]
	if len(top) == 0 {
		return nil, nil
	}

	resp, err := a.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: 4096,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(top)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "advise: claude request")
	}

	actions, err := parseActions(resp.Text())
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(top))
	matched := 0
	for _, o := range top {
		rec := Recommendation{
			Query:           o.Query,
			OpportunityType: o.OpportunityType,
			Priority:        o.Priority,
		}
		if action, ok := actions[model.FoldKey(o.Query)]; ok {
			rec.Action = action
			matched++
		}
		recs = append(recs, rec)
	}

	a.log.Info("recommendations generated",
		zap.Int("requested", len(top)),
		zap.Int("matched", matched),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)
	return recs, nil
}

func buildPrompt(opps []model.Opportunity) string {
	var b strings.Builder
	b.WriteString("Keyword opportunities:\n\n")
	for i, o := range opps {
		fmt.Fprintf(&b,
			"%d. %q position=%.1f impressions=%d ctr=%.3f type=%s score=%.1f priority=%s intent=%s\n",
			i+1, o.Query, o.Position, o.Impressions, o.CTR,
			o.OpportunityType, o.OpportunityScore, o.Priority, o.Intent,
		)
	}
	return b.String()
}

type actionsResponse struct {
	Recommendations []struct {
		Query  string `json:"query"`
		Action string `json:"action"`
	} `json:"recommendations"`
}

// parseActions extracts the JSON object from the response text, which may
// carry surrounding prose or code fences, and keys actions by folded query.
func parseActions(text string) (map[string]string, error) {
	jsonStart := strings.Index(text, "{")
	jsonEnd := strings.LastIndex(text, "}")
	if jsonStart < 0 || jsonEnd <= jsonStart {
		return nil, eris.Errorf("advise: no JSON in response: %s", text)
	}

	var parsed actionsResponse
	if err := json.Unmarshal([]byte(text[jsonStart:jsonEnd+1]), &parsed); err != nil {
		return nil, eris.Wrap(err, "advise: parse response JSON")
	}

	actions := make(map[string]string, len(parsed.Recommendations))
	for _, r := range parsed.Recommendations {
		if r.Action != "" {
			actions[model.FoldKey(r.Query)] = r.Action
		}
	}
	return actions, nil
}
