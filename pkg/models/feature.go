package models

// FeatureSchema is the ordered list of feature names a cluster head emits.
// The order is the contract with the classifier: any trained artifact must
// declare exactly this schema or startup fails.
var FeatureSchema = []string{
	"motion_total",
	"vibration_avg",
	"vibration_max",
	"temperature_avg",
	"temperature_max",
	"acoustic_avg",
	"acoustic_max",
	"active_nodes",
	"battery_avg",
}

// FeatureVector is the fixed-schema aggregate a cluster head computes from
// its active members each cycle. The zero value is the sentinel vector for a
// cluster with no active nodes.
type FeatureVector struct {
	MotionTotal    float64 `json:"motion_total"`
	VibrationAvg   float64 `json:"vibration_avg"`
	VibrationMax   float64 `json:"vibration_max"`
	TemperatureAvg float64 `json:"temperature_avg"`
	TemperatureMax float64 `json:"temperature_max"`
	AcousticAvg    float64 `json:"acoustic_avg"`
	AcousticMax    float64 `json:"acoustic_max"`
	ActiveNodes    float64 `json:"active_nodes"`
	BatteryAvg     float64 `json:"battery_avg"`
}

// Values returns the vector in FeatureSchema order.
func (fv FeatureVector) Values() []float64 {
	return []float64{
		fv.MotionTotal,
		fv.VibrationAvg,
		fv.VibrationMax,
		fv.TemperatureAvg,
		fv.TemperatureMax,
		fv.AcousticAvg,
		fv.AcousticMax,
		fv.ActiveNodes,
		fv.BatteryAvg,
	}
}

// IsSentinel reports whether fv is the blind-cluster sentinel. A cluster with
// at least one active node always has ActiveNodes > 0.
func (fv FeatureVector) IsSentinel() bool {
	return fv.ActiveNodes == 0
}
