package pipeline

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Rules is the optional scoring-rules file. Any zero-valued section falls
// back to the canonical defaults, so a rules file only needs to name the
// knobs it changes.
type Rules struct {
	Weights       Weights       `yaml:"weights"`
	AnswerWeights AnswerWeights `yaml:"answer_weights"`
}

// DefaultRules returns the canonical scoring configuration.
func DefaultRules() Rules {
	return Rules{
		Weights:       DefaultWeights(),
		AnswerWeights: DefaultAnswerWeights(),
	}
}

// LoadRules reads a scoring-rules YAML file and merges it over the
// defaults. An empty path returns the defaults unchanged.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, eris.Wrapf(err, "rules: read %s", path)
	}

	var loaded Rules
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return rules, eris.Wrapf(err, "rules: parse %s", path)
	}

	if loaded.Weights.weightSum() > 0 {
		rules.Weights = loaded.Weights
	}
	if rules.Weights.VolumeLogDivisor <= 0 {
		rules.Weights.VolumeLogDivisor = DefaultWeights().VolumeLogDivisor
	}
	if loaded.AnswerWeights.weightSum() > 0 {
		rules.AnswerWeights = loaded.AnswerWeights
	}
	if rules.AnswerWeights.VolumeLogDivisor <= 0 {
		rules.AnswerWeights.VolumeLogDivisor = DefaultAnswerWeights().VolumeLogDivisor
	}

	return rules, nil
}

// Validate checks that each weight set sums to a positive total and has no
// negative components.
func (r Rules) Validate() error {
	for name, ws := range map[string][]float64{
		"weights":        {r.Weights.Position, r.Weights.Volume, r.Weights.Difficulty, r.Weights.Traffic},
		"answer_weights": {r.AnswerWeights.Position, r.AnswerWeights.Volume, r.AnswerWeights.Question, r.AnswerWeights.Length},
	} {
		var sum float64
		for _, w := range ws {
			if w < 0 {
				return eris.Errorf("rules: %s has a negative component", name)
			}
			sum += w
		}
		if sum <= 0 {
			return eris.Errorf("rules: %s must sum to a positive total", name)
		}
	}
	return nil
}

func (w Weights) weightSum() float64 {
	return w.Position + w.Volume + w.Difficulty + w.Traffic
}

func (w AnswerWeights) weightSum() float64 {
	return w.Position + w.Volume + w.Question + w.Length
}
