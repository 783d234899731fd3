package models

import "time"

// Severity is the dispatch priority of an alert.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// EscalationTag marks an alert matched by an operator escalation rule.
type EscalationTag struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Severity string `json:"severity,omitempty"`
	Route    string `json:"route,omitempty"`
}

// Alert is a verified intrusion detection handed to notification consumers.
type Alert struct {
	AlertID        string          `json:"alert_id"`
	Cycle          int             `json:"cycle"`
	ClusterID      string          `json:"cluster_id"`
	Label          Label           `json:"label"`
	Confidence     float64         `json:"confidence"`
	Severity       Severity        `json:"severity"`
	EscalationTags []EscalationTag `json:"escalation_tags,omitempty"`
	Evidence       FeatureVector   `json:"evidence"`
	CreatedAt      time.Time       `json:"created_at"`
}
