package intrusion

import (
	"math/rand"
	"testing"

	"bordersentry/pkg/models"
)

func testConfig() Config {
	return Config{
		SpawnProbability: 1,
		Weights:          Weights{Human: 1, Animal: 1, Vehicle: 1},
		DurationMin:      2,
		DurationMax:      2,
		BorderLength:     1000,
		SensorRange:      50,
	}
}

func TestAdvanceSpawnsAndExpires(t *testing.T) {
	inj := New(testConfig(), rand.New(rand.NewSource(1)))

	inj.Advance(0)
	if len(inj.Live()) != 1 {
		t.Fatalf("expected one live intrusion, got %d", len(inj.Live()))
	}
	first := inj.Live()[0]
	if !first.Kind.Intrusion() {
		t.Fatalf("spawned kind %q is not an intruder class", first.Kind)
	}
	if first.Position < 0 || first.Position > 1000 {
		t.Fatalf("spawn position %v outside the border", first.Position)
	}
	if first.Duration != 2 {
		t.Fatalf("expected fixed duration 2, got %d", first.Duration)
	}

	// Duration 2 starting at cycle 0: alive through cycle 1, gone at 2.
	inj.Advance(1)
	inj.Advance(2)
	inj.Advance(3)
	for _, it := range inj.Live() {
		if it.StartCycle == 0 {
			t.Fatalf("intrusion from cycle 0 should have expired")
		}
	}
	if inj.TotalSpawned() != 4 {
		t.Fatalf("expected 4 spawns with probability 1, got %d", inj.TotalSpawned())
	}
}

func TestZeroSpawnProbabilityNeverInjects(t *testing.T) {
	cfg := testConfig()
	cfg.SpawnProbability = 0
	inj := New(cfg, rand.New(rand.NewSource(2)))

	for cycle := 0; cycle < 100; cycle++ {
		inj.Advance(cycle)
	}
	if inj.TotalSpawned() != 0 || len(inj.Live()) != 0 {
		t.Fatalf("expected no intrusions, got spawned=%d live=%d", inj.TotalSpawned(), len(inj.Live()))
	}
}

func TestStimulusAtRespectsSensorRange(t *testing.T) {
	cfg := testConfig()
	cfg.Weights = Weights{Human: 1}
	inj := New(cfg, rand.New(rand.NewSource(3)))
	inj.Advance(0)

	pos := inj.Live()[0].Position
	if inj.StimulusAt(pos) == nil {
		t.Fatalf("expected stimulus at the intrusion position")
	}
	if inj.StimulusAt(pos+cfg.SensorRange) == nil {
		t.Fatalf("expected stimulus at range boundary")
	}
	if inj.StimulusAt(pos+cfg.SensorRange+1) != nil {
		t.Fatalf("expected no stimulus beyond sensor range")
	}
}

func TestWeightsSelectKind(t *testing.T) {
	cases := []struct {
		weights Weights
		want    models.Label
	}{
		{Weights{Human: 1}, models.LabelHuman},
		{Weights{Animal: 1}, models.LabelAnimal},
		{Weights{Vehicle: 1}, models.LabelVehicle},
	}
	for _, tc := range cases {
		cfg := testConfig()
		cfg.Weights = tc.weights
		inj := New(cfg, rand.New(rand.NewSource(4)))
		for cycle := 0; cycle < 10; cycle++ {
			inj.Advance(cycle)
		}
		for _, it := range inj.Live() {
			if it.Kind != tc.want {
				t.Fatalf("expected only %s spawns, got %s", tc.want, it.Kind)
			}
		}
	}
}

func TestAdvanceIsDeterministicPerSeed(t *testing.T) {
	run := func() []Intrusion {
		cfg := testConfig()
		cfg.SpawnProbability = 0.5
		cfg.DurationMax = 5
		inj := New(cfg, rand.New(rand.NewSource(11)))
		var all []Intrusion
		for cycle := 0; cycle < 40; cycle++ {
			inj.Advance(cycle)
			all = append(all, inj.Live()...)
		}
		return all
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("live histories diverged in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("intrusion %d diverged between identical seeds: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestProfileSignaturesSitInsideTrainedEnvelopes(t *testing.T) {
	// The injected signatures must land inside the classifier's trained
	// bands, otherwise the simulation can never produce a true positive.
	human := Profile(models.LabelHuman)
	if human.Vibration.Min < 0.4 || human.Vibration.Max > 0.8 {
		t.Fatalf("human vibration profile %+v escapes the trained band", human.Vibration)
	}
	if human.TemperatureC.Min < 32 || human.TemperatureC.Max > 38 {
		t.Fatalf("human temperature profile %+v escapes the trained band", human.TemperatureC)
	}

	vehicle := Profile(models.LabelVehicle)
	if vehicle.Vibration.Min < 0.8 || vehicle.Vibration.Max > 1.0 {
		t.Fatalf("vehicle vibration profile %+v escapes the trained band", vehicle.Vibration)
	}

	animal := Profile(models.LabelAnimal)
	if animal.Acoustic.Min < 0.3 || animal.Acoustic.Max > 0.7 {
		t.Fatalf("animal acoustic profile %+v escapes the trained band", animal.Acoustic)
	}
}
