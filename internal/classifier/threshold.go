package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bordersentry/pkg/models"
)

// Band is a closed value interval for one modality.
type Band struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (b Band) valid() bool { return b.Max >= b.Min }

// membership returns 1 inside the band and decays linearly outside it, so
// near misses still contribute a partial match.
func (b Band) membership(v float64) float64 {
	if v >= b.Min && v <= b.Max {
		return 1
	}
	width := b.Max - b.Min
	if width <= 0 {
		width = 1
	}
	var dist float64
	if v < b.Min {
		dist = b.Min - v
	} else {
		dist = v - b.Max
	}
	m := 1 - dist/width
	if m < 0 {
		return 0
	}
	return m
}

// Signature is the trained per-class modality envelope.
type Signature struct {
	Vibration    Band `yaml:"vibration"`
	TemperatureC Band `yaml:"temperature_c"`
	Acoustic     Band `yaml:"acoustic"`
}

// ThresholdModel is the pre-trained classifier artifact: one signature per
// intruder class over the peak modality features. It stands in for a model
// trained and validated offline; the simulation never retrains it.
type ThresholdModel struct {
	classes map[models.Label]Signature
}

type artifactFile struct {
	Schema  []string             `yaml:"schema"`
	Classes map[string]Signature `yaml:"classes"`
}

// intruderOrder fixes the evaluation order so prediction is deterministic.
var intruderOrder = []models.Label{models.LabelHuman, models.LabelAnimal, models.LabelVehicle}

// Default returns the built-in trained model. The envelopes mirror the
// offline training distributions: humans read as body heat with moderate
// vibration, animals as cooler and lighter, vehicles as strong vibration,
// loud acoustics, and engine heat.
func Default() *ThresholdModel {
	return &ThresholdModel{classes: map[models.Label]Signature{
		models.LabelHuman: {
			Vibration:    Band{Min: 0.4, Max: 0.8},
			TemperatureC: Band{Min: 32, Max: 38},
			Acoustic:     Band{Min: 0.5, Max: 0.9},
		},
		models.LabelAnimal: {
			Vibration:    Band{Min: 0.2, Max: 0.5},
			TemperatureC: Band{Min: 25, Max: 35},
			Acoustic:     Band{Min: 0.3, Max: 0.7},
		},
		models.LabelVehicle: {
			Vibration:    Band{Min: 0.8, Max: 1.0},
			TemperatureC: Band{Min: 40, Max: 60},
			Acoustic:     Band{Min: 0.7, Max: 1.0},
		},
	}}
}

// Load reads a trained artifact from a YAML file. The declared schema must
// match the feature schema the aggregation layer emits; a mismatch is a
// fatal configuration error surfaced before any cycle runs.
func Load(path string) (*ThresholdModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifier artifact: %w", err)
	}

	var af artifactFile
	if err := yaml.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("parse classifier artifact %s: %w", path, err)
	}

	if len(af.Schema) != len(models.FeatureSchema) {
		return nil, fmt.Errorf("classifier artifact %s declares %d input features, aggregation emits %d",
			path, len(af.Schema), len(models.FeatureSchema))
	}
	for i, name := range af.Schema {
		if name != models.FeatureSchema[i] {
			return nil, fmt.Errorf("classifier artifact %s schema[%d] = %q, aggregation emits %q",
				path, i, name, models.FeatureSchema[i])
		}
	}

	classes := make(map[models.Label]Signature, len(af.Classes))
	for name, sig := range af.Classes {
		label := models.Label(name)
		if !label.Intrusion() {
			return nil, fmt.Errorf("classifier artifact %s has unknown class %q", path, name)
		}
		if !sig.Vibration.valid() || !sig.TemperatureC.valid() || !sig.Acoustic.valid() {
			return nil, fmt.Errorf("classifier artifact %s has an inverted band for class %q", path, name)
		}
		classes[label] = sig
	}
	for _, label := range intruderOrder {
		if _, ok := classes[label]; !ok {
			return nil, fmt.Errorf("classifier artifact %s is missing class %q", path, label)
		}
	}

	return &ThresholdModel{classes: classes}, nil
}

// Predict scores the peak modality features against each class envelope and
// returns the best match, or Normal when nothing triggered motion or no
// envelope fits well enough.
func (m *ThresholdModel) Predict(fv models.FeatureVector) (models.Label, float64) {
	if fv.IsSentinel() || fv.MotionTotal == 0 {
		return models.LabelNormal, 0.99
	}

	best := models.LabelNormal
	bestScore := 0.0
	for _, label := range intruderOrder {
		sig := m.classes[label]
		score := (sig.Vibration.membership(fv.VibrationMax) +
			sig.TemperatureC.membership(fv.TemperatureMax) +
			sig.Acoustic.membership(fv.AcousticMax)) / 3
		if score > bestScore {
			best = label
			bestScore = score
		}
	}

	if bestScore < 0.5 {
		return models.LabelNormal, 1 - bestScore
	}
	return best, bestScore
}
