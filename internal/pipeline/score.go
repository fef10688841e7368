package pipeline

import (
	"math"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

// Weights holds the component weights for the opportunity score. They are
// expressed as percentages and should sum to 100.
type Weights struct {
	Position   float64 `yaml:"position" mapstructure:"position"`
	Volume     float64 `yaml:"volume" mapstructure:"volume"`
	Difficulty float64 `yaml:"difficulty" mapstructure:"difficulty"`
	Traffic    float64 `yaml:"traffic" mapstructure:"traffic"`

	// VolumeLogDivisor controls the logarithmic compression of search
	// volume; volume 10^divisor saturates the sub-score.
	VolumeLogDivisor float64 `yaml:"volume_log_divisor" mapstructure:"volume_log_divisor"`
}

// DefaultWeights returns the canonical opportunity scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Position:         40,
		Volume:           30,
		Difficulty:       20,
		Traffic:          10,
		VolumeLogDivisor: 5.5,
	}
}

// ScoreOpportunity combines position, enriched volume, difficulty, and
// traffic potential into a single 0-100 score. The four sub-scores are
// each normalized to [0,100] before weighting:
//
//	position:   (101 - p) / 100, floored at 0, so position 1 scores 100
//	volume:     log10(volume) / divisor, capped at 1
//	difficulty: (100 - d) / 100, lower difficulty scores higher
//	traffic:    traffic potential / 100 clicks, capped at 1
func ScoreOpportunity(rec model.Record, metrics model.KeywordMetrics, trafficPotential int64, w Weights) float64 {
	positionScore := math.Max(0, (101-rec.Position)/100) * 100
	volumeScore := math.Min(math.Log10(math.Max(1, float64(metrics.SearchVolume)))/w.VolumeLogDivisor, 1) * 100
	difficultyScore := math.Max(0, float64(100-metrics.Difficulty)/100) * 100
	trafficScore := math.Min(float64(trafficPotential)/100, 1) * 100

	score := positionScore*w.Position/100 +
		volumeScore*w.Volume/100 +
		difficultyScore*w.Difficulty/100 +
		trafficScore*w.Traffic/100

	return clampScore(score)
}

// OpportunityTypeFor derives the optimization label from position,
// observed CTR, and impression volume. The ladder is evaluated top-down
// and the first match wins:
//
//  1. ranking in the top 3 but under-clicked (CTR < 15%) is a snippet or
//     title problem, not a ranking problem
//  2. positions 4-10 with real traffic are a push into the top 3
//  3. positions 11-20 with some traffic are a push into the top 10
//  4. positions 21-30 with a trickle are a push onto the first page
//  5. everything else is a long-term target
func OpportunityTypeFor(rec model.Record) model.OpportunityType {
	switch {
	case rec.Position <= 3 && rec.CTR < 0.15:
		return model.TypeCtrOptimization
	case rec.Position >= 4 && rec.Position <= 10 && rec.Impressions >= 100:
		return model.TypeTop3Push
	case rec.Position >= 11 && rec.Position <= 20 && rec.Impressions >= 50:
		return model.TypeTop10Push
	case rec.Position >= 21 && rec.Position <= 30 && rec.Impressions >= 25:
		return model.TypeFirstPagePush
	default:
		return model.TypeLongTermTarget
	}
}

// PriorityFor maps an opportunity score to a triage tier.
func PriorityFor(score float64) model.Priority {
	switch {
	case score >= 70:
		return model.PriorityHigh
	case score >= 40:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

func clampScore(score float64) float64 {
	return math.Min(100, math.Max(0, score))
}
