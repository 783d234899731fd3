package camera

import (
	"math/rand"

	"bordersentry/pkg/models"
)

// Status is the camera state.
type Status string

const (
	StatusIdle      Status = "IDLE"
	StatusRecording Status = "RECORDING"
	StatusFaulty    Status = "FAULTY"
)

// Footage is one recorded confirmation clip.
type Footage struct {
	ClusterID   string       `json:"cluster_id"`
	Cycle       int          `json:"cycle"`
	Trigger     string       `json:"trigger"`
	Label       models.Label `json:"label"`
	DurationSec int          `json:"duration_sec"`
}

// Config controls fault injection.
type Config struct {
	FaultProb    float64
	RecoveryProb float64
}

// Camera simulates the per-cluster confirmation camera used by the
// verification stage. Faults and recoveries are drawn from the seeded
// camera substream once per cycle.
type Camera struct {
	clusterID string
	cfg       Config
	rng       *rand.Rand

	status  Status
	footage []Footage
}

// New creates an idle camera for a cluster.
func New(clusterID string, cfg Config, rng *rand.Rand) *Camera {
	return &Camera{clusterID: clusterID, cfg: cfg, rng: rng, status: StatusIdle}
}

// Status returns the current camera state.
func (c *Camera) Status() Status { return c.status }

// Footage returns all recorded clips.
func (c *Camera) Footage() []Footage { return c.footage }

// Tick advances the fault model by one cycle: a faulty camera may
// auto-recover, a healthy one may fault. Exactly one draw per cycle keeps
// the substream consumption independent of outcomes.
func (c *Camera) Tick() {
	draw := c.rng.Float64()
	if c.status == StatusFaulty {
		if draw < c.cfg.RecoveryProb {
			c.status = StatusIdle
		}
		return
	}
	if draw < c.cfg.FaultProb {
		c.status = StatusFaulty
	}
}

// Record captures a confirmation clip for the given detection. It returns
// false when the camera is faulty and no footage can be produced. Recording
// completes within the cycle; the camera returns to idle afterwards.
func (c *Camera) Record(cycle int, label models.Label, trigger string) (Footage, bool) {
	if c.status == StatusFaulty {
		return Footage{}, false
	}
	c.status = StatusRecording

	duration := 15
	switch label {
	case models.LabelVehicle:
		duration = 30
	case models.LabelHuman:
		duration = 20
	}

	f := Footage{
		ClusterID:   c.clusterID,
		Cycle:       cycle,
		Trigger:     trigger,
		Label:       label,
		DurationSec: duration,
	}
	c.footage = append(c.footage, f)
	c.status = StatusIdle
	return f, true
}
