package models

// Reading is one per-cycle sample from a sensor node. An inactive node
// produces a zero-valued reading with Active=false.
type Reading struct {
	NodeID         string  `json:"node_id"`
	Motion         int     `json:"motion"`
	Vibration      float64 `json:"vibration"`
	TemperatureC   float64 `json:"temperature_c"`
	Acoustic       float64 `json:"acoustic"`
	SignalStrength float64 `json:"signal_strength"`
	Battery        float64 `json:"battery"`
	Active         bool    `json:"active"`
}
