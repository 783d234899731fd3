package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"bordersentry/pkg/models"
)

// Config is the root configuration.
type Config struct {
	BorderSentry BorderSentryConfig `yaml:"bordersentry"`
}

// BorderSentryConfig is the project configuration.
type BorderSentryConfig struct {
	Network       NetworkConfig       `yaml:"network"`
	Sensors       SensorConfig        `yaml:"sensors"`
	Energy        EnergyConfig        `yaml:"energy"`
	Intrusion     IntrusionConfig     `yaml:"intrusion"`
	Classifier    ClassifierConfig    `yaml:"classifier"`
	Verification  VerificationConfig  `yaml:"verification"`
	Alerts        AlertsConfig        `yaml:"alerts"`
	Rules         RulesConfig         `yaml:"rules"`
	Events        EventsConfig        `yaml:"events"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Simulation    SimulationConfig    `yaml:"simulation"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// NetworkConfig describes the deployed sensor field.
type NetworkConfig struct {
	SensorNodes  int     `yaml:"sensor_nodes"`
	ClusterHeads int     `yaml:"cluster_heads"`
	BorderLength float64 `yaml:"border_length"`
	SensorRange  float64 `yaml:"sensor_range"`
}

// Range bounds a sampled reading value.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// SensorConfig controls ambient (no-stimulus) reading distributions.
type SensorConfig struct {
	MotionTriggerProb float64 `yaml:"motion_trigger_prob"`
	Vibration         Range   `yaml:"vibration"`
	TemperatureC      Range   `yaml:"temperature_c"`
	Acoustic          Range   `yaml:"acoustic"`
	SignalStrength    Range   `yaml:"signal_strength"`
}

// EnergyConfig controls the node battery model.
type EnergyConfig struct {
	InitialBatteryMin     float64 `yaml:"initial_battery_min"`
	InitialBatteryMax     float64 `yaml:"initial_battery_max"`
	DrainCost             float64 `yaml:"drain_cost"`
	RechargeRate          float64 `yaml:"recharge_rate"`
	ReactivationThreshold float64 `yaml:"reactivation_threshold"`
}

// IntrusionWeights are the relative spawn weights per intruder class.
type IntrusionWeights struct {
	Human   float64 `yaml:"human"`
	Animal  float64 `yaml:"animal"`
	Vehicle float64 `yaml:"vehicle"`
}

// IntrusionConfig controls synthetic ground-truth intrusion injection.
type IntrusionConfig struct {
	SpawnProbability float64          `yaml:"spawn_probability"`
	Weights          IntrusionWeights `yaml:"weights"`
	DurationMin      int              `yaml:"duration_min"`
	DurationMax      int              `yaml:"duration_max"`
}

// ClassifierConfig points at the pre-trained classifier artifact.
type ClassifierConfig struct {
	ModelPath string   `yaml:"model_path"`
	Schema    []string `yaml:"schema"`
}

// VerificationConfig controls the secondary camera confirmation stage.
type VerificationConfig struct {
	MinConfirm         float64 `yaml:"min_confirm"`
	CameraFaultProb    float64 `yaml:"camera_fault_prob"`
	CameraRecoveryProb float64 `yaml:"camera_recovery_prob"`
}

// AlertsConfig controls alert dispatch.
type AlertsConfig struct {
	Enabled             bool              `yaml:"enabled"`
	ConfidenceThreshold float64           `yaml:"confidence_threshold"`
	CooldownCycles      int               `yaml:"cooldown_cycles"`
	Output              AlertOutputConfig `yaml:"output"`
}

// AlertOutputConfig selects the alert sink.
type AlertOutputConfig struct {
	Mode string           `yaml:"mode"` // file|http
	File FileOutputConfig `yaml:"file"`
	HTTP HTTPOutputConfig `yaml:"http"`
}

// RulesConfig controls escalation rules.
type RulesConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// EventsConfig controls the detection event stream sinks.
type EventsConfig struct {
	File  FileOutputConfig  `yaml:"file"`
	Redis RedisOutputConfig `yaml:"redis"`
}

// RedisOutputConfig controls the Redis event publisher.
type RedisOutputConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// NotificationsConfig controls the simulated notification channels.
type NotificationsConfig struct {
	DatalinkEnabled   bool   `yaml:"datalink_enabled"`
	CommandLogEnabled bool   `yaml:"command_log_enabled"`
	Channel           string `yaml:"channel"`
	Recipient         string `yaml:"recipient"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// SimulationConfig controls the cycle loop.
type SimulationConfig struct {
	Cycles int   `yaml:"cycles"`
	Seed   int64 `yaml:"seed"`
}

// FileOutputConfig config for local JSON output.
type FileOutputConfig struct {
	Path string `yaml:"path"`
}

// HTTPOutputConfig config for remote output.
type HTTPOutputConfig struct {
	URL     string            `yaml:"url"`
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers"`
}

// LoggingConfig controls logging output.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the startup invariants. Any error here is fatal: the run
// must abort before the first cycle executes.
func (c *Config) Validate() error {
	bs := &c.BorderSentry

	if bs.Network.SensorNodes <= 0 {
		return fmt.Errorf("network.sensor_nodes must be positive, got %d", bs.Network.SensorNodes)
	}
	if bs.Network.ClusterHeads <= 0 {
		return fmt.Errorf("network.cluster_heads must be positive, got %d", bs.Network.ClusterHeads)
	}
	if bs.Network.SensorNodes%bs.Network.ClusterHeads != 0 {
		return fmt.Errorf("network.cluster_heads (%d) must evenly partition network.sensor_nodes (%d)",
			bs.Network.ClusterHeads, bs.Network.SensorNodes)
	}

	if bs.Energy.InitialBatteryMin < 0 || bs.Energy.InitialBatteryMax > 100 ||
		bs.Energy.InitialBatteryMin > bs.Energy.InitialBatteryMax {
		return fmt.Errorf("energy.initial_battery range [%.1f, %.1f] must lie within [0, 100]",
			bs.Energy.InitialBatteryMin, bs.Energy.InitialBatteryMax)
	}
	if bs.Energy.DrainCost < 0 {
		return fmt.Errorf("energy.drain_cost must not be negative")
	}
	if bs.Energy.RechargeRate <= 0 {
		return fmt.Errorf("energy.recharge_rate must be positive")
	}
	if bs.Energy.ReactivationThreshold <= 0 || bs.Energy.ReactivationThreshold > 100 {
		return fmt.Errorf("energy.reactivation_threshold must lie in (0, 100], got %.1f",
			bs.Energy.ReactivationThreshold)
	}

	for _, p := range []struct {
		name string
		v    float64
	}{
		{"sensors.motion_trigger_prob", bs.Sensors.MotionTriggerProb},
		{"intrusion.spawn_probability", bs.Intrusion.SpawnProbability},
		{"verification.min_confirm", bs.Verification.MinConfirm},
		{"verification.camera_fault_prob", bs.Verification.CameraFaultProb},
		{"verification.camera_recovery_prob", bs.Verification.CameraRecoveryProb},
	} {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("%s must lie in [0, 1], got %v", p.name, p.v)
		}
	}

	if bs.Intrusion.DurationMin <= 0 || bs.Intrusion.DurationMax < bs.Intrusion.DurationMin {
		return fmt.Errorf("intrusion.duration range [%d, %d] is invalid",
			bs.Intrusion.DurationMin, bs.Intrusion.DurationMax)
	}

	if err := validateSchema(bs.Classifier.Schema); err != nil {
		return err
	}

	if bs.Simulation.Cycles <= 0 {
		return fmt.Errorf("simulation.cycles must be positive, got %d", bs.Simulation.Cycles)
	}

	return nil
}

// validateSchema checks the configured feature schema against the schema the
// cluster heads actually emit. A mismatch means the classifier artifact was
// trained against a different contract and has to fail before any cycle runs.
func validateSchema(schema []string) error {
	if len(schema) != len(models.FeatureSchema) {
		return fmt.Errorf("classifier.schema has %d fields, aggregation emits %d",
			len(schema), len(models.FeatureSchema))
	}
	for i, name := range schema {
		if name != models.FeatureSchema[i] {
			return fmt.Errorf("classifier.schema[%d] = %q, aggregation emits %q", i, name, models.FeatureSchema[i])
		}
	}
	return nil
}
