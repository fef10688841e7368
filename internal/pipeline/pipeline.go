// Package pipeline implements the keyword opportunity analysis pipeline:
// normalization, exclusion, intent classification, metric enrichment, and
// opportunity scoring.
package pipeline

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/exclusion"
	"github.com/youngfessy/seo-keyword-analysis-tool/internal/metrics"
	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

// Filters drops low-signal records before classification and scoring.
// Zero values disable the corresponding filter.
type Filters struct {
	MaxPosition    float64 `yaml:"max_position" mapstructure:"max_position"`
	MinImpressions int64   `yaml:"min_impressions" mapstructure:"min_impressions"`
	MinQueryLength int     `yaml:"min_query_length" mapstructure:"min_query_length"`
}

// DefaultFilters returns the standard report filters: positions past page
// ten, single-digit impression counts, and one or two character queries
// are all noise.
func DefaultFilters() Filters {
	return Filters{
		MaxPosition:    100,
		MinImpressions: 10,
		MinQueryLength: 3,
	}
}

func (f Filters) keeps(rec model.Record) bool {
	if f.MaxPosition > 0 && rec.Position > f.MaxPosition {
		return false
	}
	if f.MinImpressions > 0 && rec.Impressions < f.MinImpressions {
		return false
	}
	if f.MinQueryLength > 0 && len(rec.Query) < f.MinQueryLength {
		return false
	}
	return true
}

// Pipeline wires the analysis stages together. Build one per run with
// New, then call Run.
type Pipeline struct {
	classifier *Classifier
	snapshot   *metrics.Snapshot
	exclusions *exclusion.Set
	filters    Filters
	rules      Rules
	workers    int

	log *zap.Logger
}

// Options configures a pipeline run. Snapshot and Exclusions may be nil.
type Options struct {
	Snapshot   *metrics.Snapshot
	Exclusions *exclusion.Set
	BrandTerms []string
	Filters    Filters
	Rules      Rules
	Workers    int
}

func New(opts Options) (*Pipeline, error) {
	if err := opts.Rules.Validate(); err != nil {
		return nil, eris.Wrap(err, "pipeline: invalid rules")
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	excl := opts.Exclusions
	if excl == nil {
		excl = exclusion.NewSet(nil)
	}
	// Brand terms and persisted deletions form a single filter predicate.
	for _, term := range opts.BrandTerms {
		excl.Add(term)
	}
	return &Pipeline{
		classifier: NewClassifier(opts.BrandTerms),
		snapshot:   opts.Snapshot,
		exclusions: excl,
		filters:    opts.Filters,
		rules:      opts.Rules,
		workers:    opts.Workers,
		log:        zap.L().With(zap.String("component", "pipeline")),
	}, nil
}

// Result is the outcome of one pipeline run.
type Result struct {
	Opportunities []model.Opportunity `json:"opportunities"`
	Dropped       int                 `json:"dropped"`
	Excluded      int                 `json:"excluded"`
	Filtered      int                 `json:"filtered"`
	Summary       model.Summary       `json:"summary"`
}

// Run analyzes the input records and returns scored opportunities sorted
// by opportunity score descending, with impressions, position, and query
// text as tiebreakers. Malformed records are dropped individually and
// never abort the run.
func (p *Pipeline) Run(ctx context.Context, records []model.Record) (*Result, error) {
	res := &Result{}

	kept := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if err := rec.Normalize(); err != nil {
			res.Dropped++
			p.log.Debug("dropping malformed record", zap.Error(err))
			continue
		}
		if p.exclusions.Excludes(rec.Query) {
			res.Excluded++
			continue
		}
		if !p.filters.keeps(rec) {
			res.Filtered++
			continue
		}
		kept = append(kept, rec)
	}

	opps := make([]model.Opportunity, len(kept))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, rec := range kept {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			opps[i] = p.analyze(rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: run aborted")
	}

	sortOpportunities(opps)
	res.Opportunities = opps
	res.Summary = model.Summarize(opps)

	p.log.Info("analysis complete",
		zap.Int("input", len(records)),
		zap.Int("scored", len(opps)),
		zap.Int("dropped", res.Dropped),
		zap.Int("excluded", res.Excluded),
		zap.Int("filtered", res.Filtered),
	)
	return res, nil
}

// analyze derives every per-keyword field. It is a pure function of the
// record and the metrics snapshot, which makes the worker fan-out safe.
func (p *Pipeline) analyze(rec model.Record) model.Opportunity {
	m := p.snapshot.Lookup(rec.Query, rec.Impressions)

	source := model.SourceEstimated
	if m.Authoritative {
		source = model.SourceAuthoritative
	}

	ctrGap := CTRGap(rec.Position, rec.CTR)
	traffic := TrafficPotential(rec.Impressions, ctrGap)
	score := ScoreOpportunity(rec, m, traffic, p.rules.Weights)

	return model.Opportunity{
		Record:           rec,
		Intent:           p.classifier.Intent(rec.Query),
		AnswerIntent:     p.classifier.AnswerIntent(rec.Query),
		SerpFeatures:     EstimateSerpFeatures(rec.Query),
		SearchVolume:     m.SearchVolume,
		Difficulty:       m.Difficulty,
		CostPerClick:     m.CostPerClick,
		DataSource:       source,
		CTRGap:           ctrGap,
		TrafficPotential: traffic,
		OpportunityScore: score,
		AnswerPotential:  ScoreAnswerPotential(rec, p.rules.AnswerWeights),
		OpportunityType:  OpportunityTypeFor(rec),
		Priority:         PriorityFor(score),
	}
}

func sortOpportunities(opps []model.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		a, b := opps[i], opps[j]
		if a.OpportunityScore != b.OpportunityScore {
			return a.OpportunityScore > b.OpportunityScore
		}
		if a.Impressions != b.Impressions {
			return a.Impressions > b.Impressions
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Query < b.Query
	})
}
