package models

// DetectionEvent is the finalized outcome for one cluster head in one cycle.
// Exactly one is emitted per cluster per cycle, including explicit Normal
// events, so consumers can distinguish "no detection" from "no data". Events
// are immutable once emitted; they carry no wall-clock time so a seeded run
// reproduces an identical stream.
type DetectionEvent struct {
	Cycle      int           `json:"cycle"`
	ClusterID  string        `json:"cluster_id"`
	Label      Label         `json:"label"`
	Confidence float64       `json:"confidence"`
	Verified   bool          `json:"verified"`
	FinalLabel Label         `json:"final_label"`
	Sentinel   bool          `json:"sentinel,omitempty"`
	Features   FeatureVector `json:"features"`
}
