package alerts

import (
	"time"

	"github.com/google/uuid"

	"bordersentry/pkg/models"
)

// Config controls alert dispatch behavior.
type Config struct {
	ConfidenceThreshold float64
	CooldownCycles      int
}

// Dispatcher turns verified intrusion events into alerts. A per-cluster
// cooldown suppresses repeat alerts while the same intruder keeps tripping
// the same cluster. The cycle loop is single-threaded, so no locking.
type Dispatcher struct {
	cfg       Config
	lastAlert map[string]int

	dispatched []*models.Alert
	suppressed int
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = 0.9
	}
	if cfg.CooldownCycles <= 0 {
		cfg.CooldownCycles = 3
	}
	return &Dispatcher{
		cfg:       cfg,
		lastAlert: make(map[string]int),
	}
}

// Process inspects a finalized event and returns an alert, or nil when the
// event is Normal, unverified, below the confidence threshold, or inside
// the cluster's cooldown window. Escalation tags from matched rules are
// attached and may raise severity.
func (d *Dispatcher) Process(ev *models.DetectionEvent, tags []models.EscalationTag) *models.Alert {
	if ev == nil || !ev.Verified || !ev.FinalLabel.Intrusion() {
		return nil
	}
	if ev.Confidence < d.cfg.ConfidenceThreshold {
		return nil
	}

	if last, ok := d.lastAlert[ev.ClusterID]; ok && ev.Cycle-last < d.cfg.CooldownCycles {
		d.suppressed++
		return nil
	}

	alert := &models.Alert{
		AlertID:        uuid.NewString(),
		Cycle:          ev.Cycle,
		ClusterID:      ev.ClusterID,
		Label:          ev.FinalLabel,
		Confidence:     ev.Confidence,
		Severity:       severityFor(ev.FinalLabel, ev.Confidence),
		EscalationTags: tags,
		Evidence:       ev.Features,
		CreatedAt:      time.Now().UTC(),
	}

	for _, tag := range tags {
		if tag.Severity == "critical" {
			alert.Severity = models.SeverityCritical
			break
		}
	}

	d.lastAlert[ev.ClusterID] = ev.Cycle
	d.dispatched = append(d.dispatched, alert)
	return alert
}

// Dispatched returns all alerts produced so far.
func (d *Dispatcher) Dispatched() []*models.Alert { return d.dispatched }

// Suppressed returns how many alerts the cooldown window swallowed.
func (d *Dispatcher) Suppressed() int { return d.suppressed }

// severityFor grades an intrusion: a confirmed human at high confidence is
// the worst case, a vehicle close behind, anything weakly supported is low.
func severityFor(label models.Label, confidence float64) models.Severity {
	switch {
	case confidence < 0.8:
		return models.SeverityLow
	case label == models.LabelHuman && confidence >= 0.95:
		return models.SeverityCritical
	case label == models.LabelVehicle && confidence >= 0.90:
		return models.SeverityHigh
	default:
		return models.SeverityMedium
	}
}
