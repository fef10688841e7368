// Package metrics provides the keyword-metrics lookup table and its
// heuristic fallback estimates.
package metrics

import (
	"slices"
	"strings"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

// estimation term lists for keywords without authoritative data.
var commercialDifficultyTerms = []string{"best", "top", "review", "compare"}

// Snapshot is an immutable keyword-metrics table keyed by case-folded,
// trimmed keyword text. It is built once before a pipeline run and only
// read afterwards, so concurrent lookups need no locking.
type Snapshot struct {
	entries    map[string]model.KeywordMetrics
	brandTerms []string
}

// NewSnapshot builds a snapshot from pre-parsed entries. Keys are folded;
// on duplicate keys the first entry wins. Brand terms feed the difficulty
// heuristic for keywords with no authoritative entry.
func NewSnapshot(entries map[string]model.KeywordMetrics, brandTerms []string) *Snapshot {
	s := &Snapshot{entries: make(map[string]model.KeywordMetrics, len(entries))}
	for k, v := range entries {
		key := model.FoldKey(k)
		if _, exists := s.entries[key]; !exists {
			v.Authoritative = true
			s.entries[key] = v
		}
	}
	for _, b := range brandTerms {
		if k := model.FoldKey(b); k != "" {
			s.brandTerms = append(s.brandTerms, k)
		}
	}
	return s
}

// Len returns the number of keywords with authoritative data.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Has reports whether authoritative data exists for the keyword.
func (s *Snapshot) Has(keyword string) bool {
	if s == nil {
		return false
	}
	_, ok := s.entries[model.FoldKey(keyword)]
	return ok
}

// Lookup returns metrics for a keyword. On a hit the stored entry is
// returned with its volume floored at the observed impressions, since a
// keyword cannot generate more impressions than total searches. On a miss
// (the expected case, not an
// error) heuristic estimates are synthesized from the record itself.
func (s *Snapshot) Lookup(keyword string, impressions int64) model.KeywordMetrics {
	if s != nil {
		if m, ok := s.entries[model.FoldKey(keyword)]; ok {
			if m.SearchVolume < impressions {
				m.SearchVolume = impressions
			}
			return m
		}
	}

	return model.KeywordMetrics{
		SearchVolume:  estimateVolume(impressions),
		Difficulty:    s.estimateDifficulty(keyword),
		CostPerClick:  0,
		Authoritative: false,
	}
}

// estimateVolume projects total search volume from observed impressions
// with a conservative 5x multiplier, never below the impressions themselves.
func estimateVolume(impressions int64) int64 {
	v := impressions * 5
	if v < impressions {
		v = impressions
	}
	return v
}

// estimateDifficulty guesses ranking difficulty from keyword shape:
// long-tail queries are easy, brand terms easier still, head terms with
// commercial modifiers are hard, everything else is middling.
func (s *Snapshot) estimateDifficulty(keyword string) int {
	folded := model.FoldKey(keyword)
	words := strings.Fields(folded)

	if len(words) >= 4 {
		return 30
	}
	if s != nil {
		for _, brand := range s.brandTerms {
			if strings.Contains(folded, brand) {
				return 20
			}
		}
	}
	for _, term := range commercialDifficultyTerms {
		if slices.Contains(words, term) {
			return 70
		}
	}
	return 50
}
