package pipeline

import (
	"strings"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

// Term lists for intent classification. Single words are matched against
// the query's word set; terms containing a space are matched as substrings.
// Each classifier evaluates its rules in a fixed priority order and the
// first match wins; the ordering matters because the categories are not
// mutually exclusive by substring alone.
var (
	navigationalTerms  = []string{"login", "sign in", "account", "dashboard", "portal"}
	transactionalTerms = []string{"buy", "purchase", "price", "cost", "hire", "sign up", "subscribe"}
	commercialTerms    = []string{"best", "top", "review", "compare", "vs", "versus", "alternative"}
	informationalTerms = []string{
		"how", "what", "why", "when", "where", "who",
		"learn", "guide", "tutorial", "definition", "meaning", "explained",
	}

	questionStarters = []string{"how", "what", "why", "when", "where", "who", "which"}
	definitionTerms  = []string{"define", "definition", "meaning", "what is", "what does"}
	comparisonTerms  = []string{"vs", "versus", "compare", "difference", "better"}
	howToTerms       = []string{"how to", "tutorial", "guide", "step by step"}
	listTerms        = []string{"list", "examples", "types of", "kinds of"}
)

// foldedQuery is a pre-tokenized, case-folded view of a keyword, shared by
// the classifiers and the SERP estimator so the query is only split once.
type foldedQuery struct {
	text  string
	words map[string]bool
}

func foldQuery(keyword string) foldedQuery {
	text := model.FoldKey(keyword)
	words := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		words[w] = true
	}
	return foldedQuery{text: text, words: words}
}

// matchesAny reports whether the query contains any of the terms. Terms
// with a space are substring-matched; single words must appear as a whole
// word, which keeps "vs" from matching inside "canvas".
func (q foldedQuery) matchesAny(terms []string) bool {
	for _, term := range terms {
		if strings.Contains(term, " ") {
			if strings.Contains(q.text, term) {
				return true
			}
		} else if q.words[term] {
			return true
		}
	}
	return false
}

// Classifier assigns intent categories from static ordered rule tables.
// Brand terms are supplied by configuration and participate in the
// navigational rule.
type Classifier struct {
	brandTerms []string
}

// NewClassifier builds a classifier with the given brand terms (case-folded).
func NewClassifier(brandTerms []string) *Classifier {
	folded := make([]string, 0, len(brandTerms))
	for _, b := range brandTerms {
		if k := model.FoldKey(b); k != "" {
			folded = append(folded, k)
		}
	}
	return &Classifier{brandTerms: folded}
}

// Intent classifies a keyword into a classic search-intent category.
// Priority order: navigational (brand or site-navigation terms), then
// transactional, then commercial, then informational; informational is
// also the default.
func (c *Classifier) Intent(keyword string) model.Intent {
	q := foldQuery(keyword)

	for _, brand := range c.brandTerms {
		if strings.Contains(q.text, brand) {
			return model.IntentNavigational
		}
	}
	switch {
	case q.matchesAny(navigationalTerms):
		return model.IntentNavigational
	case q.matchesAny(transactionalTerms):
		return model.IntentTransactional
	case q.matchesAny(commercialTerms):
		return model.IntentCommercial
	case q.matchesAny(informationalTerms):
		return model.IntentInformational
	default:
		return model.IntentInformational
	}
}

// AnswerIntent classifies a keyword for answer-engine optimization.
// Priority order: question-based, definition, comparison, how-to,
// list-based; factual is the default.
func (c *Classifier) AnswerIntent(keyword string) model.AnswerIntent {
	q := foldQuery(keyword)

	switch {
	case q.matchesAny(questionStarters):
		return model.AnswerIntentQuestion
	case q.matchesAny(definitionTerms):
		return model.AnswerIntentDefinition
	case q.matchesAny(comparisonTerms):
		return model.AnswerIntentComparison
	case q.matchesAny(howToTerms):
		return model.AnswerIntentHowTo
	case q.matchesAny(listTerms):
		return model.AnswerIntentList
	default:
		return model.AnswerIntentFactual
	}
}

// isQuestionQuery reports whether the keyword contains a question starter.
func isQuestionQuery(q foldedQuery) bool {
	return q.matchesAny(questionStarters[:6]) // which is excluded from the bonus
}
