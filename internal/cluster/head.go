package cluster

import (
	"gonum.org/v1/gonum/stat"

	"bordersentry/pkg/models"
)

// Head aggregates the readings of a fixed, ordered set of member nodes into
// one feature vector per cycle. Aggregation is deterministic: it holds no
// randomness and never mutates node state.
type Head struct {
	id      string
	members []string

	lastFeatures models.FeatureVector
}

// NewHead creates a cluster head owning the given member node IDs. The
// member order is fixed for the lifetime of the run.
func NewHead(id string, members []string) *Head {
	return &Head{id: id, members: members}
}

// ID returns the cluster head identifier.
func (h *Head) ID() string { return h.id }

// Members returns the owned node IDs in aggregation order.
func (h *Head) Members() []string { return h.members }

// LastFeatures returns the feature vector computed by the most recent
// Aggregate call.
func (h *Head) LastFeatures() models.FeatureVector { return h.lastFeatures }

// Aggregate computes the per-modality mean/max over the active readings
// only. Inactive nodes contribute nothing; they do not skew the averages.
// With zero active readings it returns the all-zero sentinel vector, which
// downstream policy maps to Normal.
func (h *Head) Aggregate(readings []models.Reading) models.FeatureVector {
	var (
		motion    float64
		vibration []float64
		temp      []float64
		acoustic  []float64
		battery   []float64
	)

	for _, r := range readings {
		if !r.Active {
			continue
		}
		motion += float64(r.Motion)
		vibration = append(vibration, r.Vibration)
		temp = append(temp, r.TemperatureC)
		acoustic = append(acoustic, r.Acoustic)
		battery = append(battery, r.Battery)
	}

	if len(vibration) == 0 {
		h.lastFeatures = models.FeatureVector{}
		return h.lastFeatures
	}

	fv := models.FeatureVector{
		MotionTotal:    motion,
		VibrationAvg:   stat.Mean(vibration, nil),
		VibrationMax:   maxOf(vibration),
		TemperatureAvg: stat.Mean(temp, nil),
		TemperatureMax: maxOf(temp),
		AcousticAvg:    stat.Mean(acoustic, nil),
		AcousticMax:    maxOf(acoustic),
		ActiveNodes:    float64(len(vibration)),
		BatteryAvg:     stat.Mean(battery, nil),
	}
	h.lastFeatures = fv
	return fv
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
