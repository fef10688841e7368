package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

func TestEstimateSerpFeatures(t *testing.T) {
	tests := []struct {
		keyword string
		want    []model.SerpFeature
	}{
		{"what is kubernetes", []model.SerpFeature{model.SerpFeaturedSnippet, model.SerpKnowledgePanel}},
		{"how to bake bread", []model.SerpFeature{model.SerpFeaturedSnippet, model.SerpHowTo}},
		{"frequently asked questions shipping", []model.SerpFeature{model.SerpFAQ}},
		{"bread baking guide", []model.SerpFeature{model.SerpHowTo}},
		{"red running shoes", []model.SerpFeature{model.SerpStandardResults}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EstimateSerpFeatures(tt.keyword), "keyword %q", tt.keyword)
	}
}

func TestEstimateSerpFeatures_StandardIsExclusive(t *testing.T) {
	features := EstimateSerpFeatures("blue suede shoes")
	assert.Equal(t, []model.SerpFeature{model.SerpStandardResults}, features)
}
