package pipeline

import "github.com/youngfessy/seo-keyword-analysis-tool/internal/model"

var (
	snippetStarters     = []string{"how", "what", "why", "when", "where"}
	faqTerms            = []string{"faq", "questions", "common", "frequently"}
	howToFeatureTerms   = []string{"how to", "tutorial", "guide"}
	knowledgePanelTerms = []string{"what is", "define", "definition"}
)

// EstimateSerpFeatures maps a keyword to its candidate SERP features. The
// four predicates are independent, so a keyword can carry several features;
// a keyword matching none yields standard results only.
func EstimateSerpFeatures(keyword string) []model.SerpFeature {
	q := foldQuery(keyword)

	var features []model.SerpFeature
	if q.matchesAny(snippetStarters) {
		features = append(features, model.SerpFeaturedSnippet)
	}
	if q.matchesAny(faqTerms) {
		features = append(features, model.SerpFAQ)
	}
	if q.matchesAny(howToFeatureTerms) {
		features = append(features, model.SerpHowTo)
	}
	if q.matchesAny(knowledgePanelTerms) {
		features = append(features, model.SerpKnowledgePanel)
	}

	if len(features) == 0 {
		return []model.SerpFeature{model.SerpStandardResults}
	}
	return features
}
