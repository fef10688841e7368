package pipeline

import (
	"math"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

// AnswerWeights holds the component weights for the answer-potential
// score. This scorer is deliberately independent of the SEO opportunity
// weights: answer-engine eligibility concentrates near the top 10, so it
// uses a steeper position curve and raw impressions as its volume proxy.
type AnswerWeights struct {
	Position float64 `yaml:"position" mapstructure:"position"`
	Volume   float64 `yaml:"volume" mapstructure:"volume"`
	Question float64 `yaml:"question" mapstructure:"question"`
	Length   float64 `yaml:"length" mapstructure:"length"`

	VolumeLogDivisor float64 `yaml:"volume_log_divisor" mapstructure:"volume_log_divisor"`
}

// DefaultAnswerWeights returns the canonical answer-potential weights.
func DefaultAnswerWeights() AnswerWeights {
	return AnswerWeights{
		Position:         40,
		Volume:           30,
		Question:         20,
		Length:           10,
		VolumeLogDivisor: 4,
	}
}

// ScoreAnswerPotential rates a query's suitability for featured snippets
// and AI-generated answers on a 0-100 scale. Position saturates at 20
// (nothing beyond position 20 has answer-engine traction), volume uses
// log-compressed impressions, question-format queries get a full bonus,
// and longer queries score higher because they map to specific answers.
func ScoreAnswerPotential(rec model.Record, w AnswerWeights) float64 {
	positionScore := math.Max(0, (21-math.Min(20, rec.Position))/20) * 100
	volumeScore := math.Min(math.Log10(math.Max(1, float64(rec.Impressions)))/w.VolumeLogDivisor, 1) * 100

	questionScore := 50.0
	if isQuestionQuery(foldQuery(rec.Query)) {
		questionScore = 100
	}

	var lengthScore float64
	switch {
	case rec.WordCount() >= 4:
		lengthScore = 100
	case rec.WordCount() == 3:
		lengthScore = 70
	default:
		lengthScore = 40
	}

	score := positionScore*w.Position/100 +
		volumeScore*w.Volume/100 +
		questionScore*w.Question/100 +
		lengthScore*w.Length/100

	return clampScore(score)
}
