package sensor

import (
	"math/rand"

	"bordersentry/pkg/models"
)

// Range bounds a sampled modality value.
type Range struct {
	Min float64
	Max float64
}

// Sample draws a uniform value from the range.
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Config controls reading distributions and the energy model of a node.
type Config struct {
	MotionTriggerProb float64
	Vibration         Range
	TemperatureC      Range
	Acoustic          Range
	SignalStrength    Range

	DrainCost             float64
	RechargeRate          float64
	ReactivationThreshold float64
}

// Stimulus biases a node's sampling toward an intruder signature. It is
// supplied by the orchestrator, never derived by the node itself, so ground
// truth stays separate from sensing noise.
type Stimulus struct {
	Vibration    Range
	TemperatureC Range
	Acoustic     Range
}

// Node is a single wireless sensor node. It owns its battery and active
// flag exclusively; nothing else mutates them.
type Node struct {
	id        string
	clusterID string
	position  float64
	cfg       Config
	rng       *rand.Rand

	battery float64
	active  bool
}

// New creates a node at a border position with the given starting battery.
func New(id, clusterID string, position, battery float64, cfg Config, rng *rand.Rand) *Node {
	n := &Node{
		id:        id,
		clusterID: clusterID,
		position:  position,
		cfg:       cfg,
		rng:       rng,
		battery:   clamp(battery),
	}
	n.active = n.battery > 0
	return n
}

// ID returns the node identifier.
func (n *Node) ID() string { return n.id }

// ClusterID returns the owning cluster head identifier.
func (n *Node) ClusterID() string { return n.clusterID }

// Position returns the node's position along the border in meters.
func (n *Node) Position() float64 { return n.position }

// Battery returns the current battery level in [0, 100].
func (n *Node) Battery() float64 { return n.battery }

// Active reports whether the node is currently sensing.
func (n *Node) Active() bool { return n.active }

// Sense produces one reading for the current cycle. An active node samples
// each modality (biased by stim when an intrusion is in range) and pays the
// per-reading drain cost. An inactive node emits a zero reading and consumes
// no randomness and no energy. Sensing never fails.
func (n *Node) Sense(stim *Stimulus) models.Reading {
	if !n.active {
		return models.Reading{NodeID: n.id, Battery: n.battery, Active: false}
	}

	r := models.Reading{
		NodeID:         n.id,
		SignalStrength: n.cfg.SignalStrength.Sample(n.rng),
		Active:         true,
	}

	if stim != nil {
		r.Motion = 1
		r.Vibration = stim.Vibration.Sample(n.rng)
		r.TemperatureC = stim.TemperatureC.Sample(n.rng)
		r.Acoustic = stim.Acoustic.Sample(n.rng)
	} else {
		if n.rng.Float64() < n.cfg.MotionTriggerProb {
			r.Motion = 1
		}
		r.Vibration = n.cfg.Vibration.Sample(n.rng)
		r.TemperatureC = n.cfg.TemperatureC.Sample(n.rng)
		r.Acoustic = n.cfg.Acoustic.Sample(n.rng)
	}

	n.Drain(n.cfg.DrainCost)
	r.Battery = n.battery
	return r
}

// Drain reduces the battery by cost. At zero the node goes inactive.
func (n *Node) Drain(cost float64) {
	n.battery = clamp(n.battery - cost)
	if n.battery == 0 {
		n.active = false
	}
}

// Recharge raises the battery by the configured recharge rate. The node
// reactivates only once the battery crosses the reactivation threshold,
// not on the first joule back.
func (n *Node) Recharge() {
	n.battery = clamp(n.battery + n.cfg.RechargeRate)
	if !n.active && n.battery >= n.cfg.ReactivationThreshold {
		n.active = true
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
