package intrusion

import (
	"math/rand"

	"bordersentry/internal/sensor"
	"bordersentry/pkg/models"
)

// Intrusion is one live ground-truth event along the border.
type Intrusion struct {
	Kind       models.Label
	Position   float64
	StartCycle int
	Duration   int // cycles
}

// Weights are the relative spawn weights per intruder class.
type Weights struct {
	Human   float64
	Animal  float64
	Vehicle float64
}

// Config controls intrusion injection.
type Config struct {
	SpawnProbability float64
	Weights          Weights
	DurationMin      int
	DurationMax      int
	BorderLength     float64
	SensorRange      float64
}

// Injector owns the synthetic ground truth. It decides where and when
// intruders appear; sensor nodes only ever see the stimulus it hands out
// through the orchestrator, never the intrusions themselves.
type Injector struct {
	cfg  Config
	rng  *rand.Rand
	live []Intrusion

	spawned int
}

// New creates an injector drawing from the seeded intrusion substream.
func New(cfg Config, rng *rand.Rand) *Injector {
	return &Injector{cfg: cfg, rng: rng}
}

// Advance expires finished intrusions and possibly spawns one new intruder
// for the given cycle.
func (inj *Injector) Advance(cycle int) {
	keep := inj.live[:0]
	for _, it := range inj.live {
		if cycle-it.StartCycle < it.Duration {
			keep = append(keep, it)
		}
	}
	inj.live = keep

	if inj.rng.Float64() >= inj.cfg.SpawnProbability {
		return
	}

	it := Intrusion{
		Kind:       inj.pickKind(),
		Position:   inj.rng.Float64() * inj.cfg.BorderLength,
		StartCycle: cycle,
		Duration:   inj.cfg.DurationMin,
	}
	if spread := inj.cfg.DurationMax - inj.cfg.DurationMin; spread > 0 {
		it.Duration += inj.rng.Intn(spread + 1)
	}
	inj.live = append(inj.live, it)
	inj.spawned++
}

// Live returns the currently active intrusions.
func (inj *Injector) Live() []Intrusion { return inj.live }

// TotalSpawned returns the number of intrusions injected so far.
func (inj *Injector) TotalSpawned() int { return inj.spawned }

// StimulusAt returns the stimulus profile for a node position, or nil when
// no live intrusion is within sensing range. With several in range the
// earliest-spawned one wins, which keeps the lookup deterministic.
func (inj *Injector) StimulusAt(position float64) *sensor.Stimulus {
	for _, it := range inj.live {
		d := position - it.Position
		if d < 0 {
			d = -d
		}
		if d <= inj.cfg.SensorRange {
			s := Profile(it.Kind)
			return &s
		}
	}
	return nil
}

func (inj *Injector) pickKind() models.Label {
	w := inj.cfg.Weights
	total := w.Human + w.Animal + w.Vehicle
	if total <= 0 {
		return models.LabelHuman
	}
	draw := inj.rng.Float64() * total
	switch {
	case draw < w.Human:
		return models.LabelHuman
	case draw < w.Human+w.Animal:
		return models.LabelAnimal
	default:
		return models.LabelVehicle
	}
}

// Profile returns the sensing signature a given intruder class produces:
// humans read as body heat with moderate ground vibration, animals cooler
// and lighter, vehicles as heavy vibration, engine heat and noise.
func Profile(kind models.Label) sensor.Stimulus {
	switch kind {
	case models.LabelVehicle:
		return sensor.Stimulus{
			Vibration:    sensor.Range{Min: 0.85, Max: 1.0},
			TemperatureC: sensor.Range{Min: 45, Max: 58},
			Acoustic:     sensor.Range{Min: 0.75, Max: 1.0},
		}
	case models.LabelAnimal:
		return sensor.Stimulus{
			Vibration:    sensor.Range{Min: 0.25, Max: 0.45},
			TemperatureC: sensor.Range{Min: 27, Max: 33},
			Acoustic:     sensor.Range{Min: 0.35, Max: 0.65},
		}
	default:
		return sensor.Stimulus{
			Vibration:    sensor.Range{Min: 0.5, Max: 0.8},
			TemperatureC: sensor.Range{Min: 33, Max: 37},
			Acoustic:     sensor.Range{Min: 0.55, Max: 0.85},
		}
	}
}
