package verify

import (
	"math/rand"

	"bordersentry/internal/camera"
	"bordersentry/pkg/models"
)

// Outcome is the result of the secondary confirmation check.
type Outcome struct {
	FinalLabel models.Label
	Verified   bool
}

// Stage models the two-stage IDS design: the cheap sensor trigger has
// already fired, and the cluster camera performs the expensive secondary
// check. A confirmed detection keeps its label; an unconfirmed one is
// downgraded to Normal to suppress false positives.
type Stage struct {
	minConfirm float64
	rng        *rand.Rand
	cameras    map[string]*camera.Camera
}

// NewStage creates a verification stage. Confirmation probability for a
// detection with confidence c is minConfirm + (1-minConfirm)*c, so
// minConfirm of 1 confirms unconditionally and 0 relies on confidence
// alone. All draws come from the seeded verify substream.
func NewStage(minConfirm float64, cameras map[string]*camera.Camera, rng *rand.Rand) *Stage {
	return &Stage{minConfirm: minConfirm, rng: rng, cameras: cameras}
}

// Verify runs the secondary check for one detection. Normal is never
// escalated: verification is skipped and the event stands as verified.
func (s *Stage) Verify(cycle int, clusterID string, label models.Label, confidence float64) Outcome {
	if label == models.LabelNormal {
		return Outcome{FinalLabel: models.LabelNormal, Verified: true}
	}

	cam := s.cameras[clusterID]
	if cam != nil && cam.Status() == camera.StatusFaulty {
		// No footage, no confirmation.
		return Outcome{FinalLabel: models.LabelNormal, Verified: false}
	}

	p := s.minConfirm + (1-s.minConfirm)*confidence
	if s.rng.Float64() < p {
		if cam != nil {
			cam.Record(cycle, label, "sensor_trigger")
		}
		return Outcome{FinalLabel: label, Verified: true}
	}
	return Outcome{FinalLabel: models.LabelNormal, Verified: false}
}
