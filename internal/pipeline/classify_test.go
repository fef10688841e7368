package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

func TestClassifier_Intent(t *testing.T) {
	c := NewClassifier([]string{"Acme"})

	tests := []struct {
		keyword string
		want    model.Intent
	}{
		{"acme pricing page", model.IntentNavigational}, // brand wins over everything
		{"customer portal login", model.IntentNavigational},
		{"buy running shoes", model.IntentTransactional},
		{"running shoes price", model.IntentTransactional},
		{"best running shoes", model.IntentCommercial},
		{"nike vs adidas", model.IntentCommercial},
		{"how to tie shoes", model.IntentInformational},
		{"shoe size guide", model.IntentInformational},
		{"red shoes", model.IntentInformational}, // default
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Intent(tt.keyword), "keyword %q", tt.keyword)
	}
}

func TestClassifier_Intent_PriorityOrder(t *testing.T) {
	c := NewClassifier(nil)

	// navigational beats transactional when both match
	assert.Equal(t, model.IntentNavigational, c.Intent("account sign up cost"))
	// transactional beats commercial
	assert.Equal(t, model.IntentTransactional, c.Intent("best price laptops"))
	// commercial beats informational
	assert.Equal(t, model.IntentCommercial, c.Intent("best guide to hiking"))
}

func TestClassifier_Intent_WholeWordMatching(t *testing.T) {
	c := NewClassifier(nil)

	// "vs" must not match inside "canvas"
	assert.Equal(t, model.IntentInformational, c.Intent("canvas painting ideas"))
	// case folding
	assert.Equal(t, model.IntentCommercial, c.Intent("BEST Laptops"))
}

func TestClassifier_AnswerIntent(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		keyword string
		want    model.AnswerIntent
	}{
		{"how to make bread", model.AnswerIntentQuestion}, // question beats how-to
		{"what is seo", model.AnswerIntentQuestion},
		{"definition of sourdough", model.AnswerIntentDefinition},
		{"kubernetes vs docker", model.AnswerIntentComparison},
		{"bread baking tutorial", model.AnswerIntentHowTo},
		{"types of flour", model.AnswerIntentList},
		{"sourdough hydration", model.AnswerIntentFactual},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.AnswerIntent(tt.keyword), "keyword %q", tt.keyword)
	}
}

func TestIsQuestionQuery_ExcludesWhich(t *testing.T) {
	// "which" classifies as question intent but earns no question bonus
	c := NewClassifier(nil)
	assert.Equal(t, model.AnswerIntentQuestion, c.AnswerIntent("which laptop to buy"))
	assert.False(t, isQuestionQuery(foldQuery("which laptop to buy")))
	assert.True(t, isQuestionQuery(foldQuery("how to choose a laptop")))
}
