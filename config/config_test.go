package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `bordersentry:
  network:
    sensor_nodes: 32
    cluster_heads: 4
    border_length: 1000
    sensor_range: 50
  sensors:
    motion_trigger_prob: 0.05
    vibration: {min: 0.0, max: 0.2}
    temperature_c: {min: 15, max: 25}
    acoustic: {min: 0.0, max: 0.3}
    signal_strength: {min: 0.6, max: 1.0}
  energy:
    initial_battery_min: 80
    initial_battery_max: 100
    drain_cost: 0.5
    recharge_rate: 2.0
    reactivation_threshold: 20
  intrusion:
    spawn_probability: 0.15
    weights: {human: 0.4, animal: 0.4, vehicle: 0.2}
    duration_min: 2
    duration_max: 5
  classifier:
    schema:
      - motion_total
      - vibration_avg
      - vibration_max
      - temperature_avg
      - temperature_max
      - acoustic_avg
      - acoustic_max
      - active_nodes
      - battery_avg
  verification:
    min_confirm: 0.6
    camera_fault_prob: 0.02
    camera_recovery_prob: 0.5
  simulation:
    cycles: 100
    seed: 42
`

func loadValid(t *testing.T) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bordersentry.yml")
	if err := os.WriteFile(path, []byte(validYAML), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	return cfg
}

func TestLoadConfigParsesAllSections(t *testing.T) {
	cfg := loadValid(t)
	bs := cfg.BorderSentry

	if bs.Network.SensorNodes != 32 || bs.Network.ClusterHeads != 4 {
		t.Fatalf("unexpected network config: %+v", bs.Network)
	}
	if bs.Sensors.Vibration.Max != 0.2 || bs.Sensors.TemperatureC.Min != 15 {
		t.Fatalf("unexpected sensor config: %+v", bs.Sensors)
	}
	if bs.Energy.ReactivationThreshold != 20 {
		t.Fatalf("unexpected energy config: %+v", bs.Energy)
	}
	if bs.Intrusion.Weights.Vehicle != 0.2 {
		t.Fatalf("unexpected intrusion config: %+v", bs.Intrusion)
	}
	if bs.Simulation.Seed != 42 {
		t.Fatalf("unexpected simulation config: %+v", bs.Simulation)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRejectsUnevenPartition(t *testing.T) {
	cfg := loadValid(t)
	cfg.BorderSentry.Network.SensorNodes = 30

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "evenly partition") {
		t.Fatalf("expected partition error, got %v", err)
	}
}

func TestValidateRejectsBatteryOutOfRange(t *testing.T) {
	cfg := loadValid(t)
	cfg.BorderSentry.Energy.InitialBatteryMax = 120

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected battery range error")
	}
}

func TestValidateRejectsProbabilityOutOfRange(t *testing.T) {
	cfg := loadValid(t)
	cfg.BorderSentry.Verification.MinConfirm = 1.5

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected probability range error")
	}
}

func TestValidateRejectsInvalidDurationRange(t *testing.T) {
	cfg := loadValid(t)
	cfg.BorderSentry.Intrusion.DurationMin = 5
	cfg.BorderSentry.Intrusion.DurationMax = 2

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected duration range error")
	}
}

func TestValidateRejectsSchemaMismatch(t *testing.T) {
	cfg := loadValid(t)
	cfg.BorderSentry.Classifier.Schema[0] = "motion_count"

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "schema") {
		t.Fatalf("expected schema mismatch error, got %v", err)
	}
}

func TestValidateRejectsNonPositiveCycles(t *testing.T) {
	cfg := loadValid(t)
	cfg.BorderSentry.Simulation.Cycles = 0

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected cycles error")
	}
}
