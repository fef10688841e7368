// Package model defines the core domain types for keyword opportunity analysis.
package model

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
)

// Record is one row of search-performance telemetry for a single query.
// Position is the average ranking position (1.0 = top result). CTR is a
// fraction in [0,1], normally clicks/impressions.
type Record struct {
	Query       string  `json:"query"`
	Position    float64 `json:"position"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
}

// Validate checks the record invariants. It returns an error for records
// that must be dropped: empty query, non-finite position, negative counts,
// or clicks exceeding impressions.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return eris.New("record: empty query")
	}
	if math.IsNaN(r.Position) || math.IsInf(r.Position, 0) {
		return eris.Errorf("record %q: non-finite position", r.Query)
	}
	if r.Impressions < 0 {
		return eris.Errorf("record %q: negative impressions %d", r.Query, r.Impressions)
	}
	if r.Clicks < 0 {
		return eris.Errorf("record %q: negative clicks %d", r.Query, r.Clicks)
	}
	if r.Clicks > r.Impressions {
		return eris.Errorf("record %q: clicks %d exceed impressions %d", r.Query, r.Clicks, r.Impressions)
	}
	return nil
}

// Normalize validates the record and coerces soft fields into canonical
// shape: the query is trimmed (case preserved for display) and the CTR is
// clamped into [0,1]. Hard invariant violations are returned as errors.
func (r *Record) Normalize() error {
	r.Query = strings.TrimSpace(r.Query)
	if err := r.Validate(); err != nil {
		return err
	}
	if r.CTR < 0 {
		r.CTR = 0
	}
	if r.CTR > 1 {
		r.CTR = 1
	}
	return nil
}

// WordCount returns the number of whitespace-separated words in the query.
func (r Record) WordCount() int {
	return len(strings.Fields(r.Query))
}

var foldCaser = cases.Fold()

// FoldKey returns the trimmed, case-folded form of a keyword, used as the
// canonical matching key for metrics lookups and exclusion checks.
func FoldKey(keyword string) string {
	return foldCaser.String(strings.TrimSpace(keyword))
}
