package alerts

import (
	"testing"

	"bordersentry/pkg/models"
)

func verifiedEvent(cycle int, cluster string, label models.Label, confidence float64) *models.DetectionEvent {
	return &models.DetectionEvent{
		Cycle:      cycle,
		ClusterID:  cluster,
		Label:      label,
		Confidence: confidence,
		Verified:   true,
		FinalLabel: label,
	}
}

func TestProcessIgnoresNormalAndUnverified(t *testing.T) {
	d := NewDispatcher(Config{})

	if a := d.Process(verifiedEvent(0, "CH1", models.LabelNormal, 0.99), nil); a != nil {
		t.Fatalf("normal event must not alert: %+v", a)
	}

	ev := verifiedEvent(0, "CH1", models.LabelHuman, 0.99)
	ev.Verified = false
	ev.FinalLabel = models.LabelNormal
	if a := d.Process(ev, nil); a != nil {
		t.Fatalf("unverified event must not alert: %+v", a)
	}
}

func TestProcessAppliesConfidenceThreshold(t *testing.T) {
	d := NewDispatcher(Config{ConfidenceThreshold: 0.9})

	if a := d.Process(verifiedEvent(0, "CH1", models.LabelHuman, 0.89), nil); a != nil {
		t.Fatalf("below-threshold event must not alert: %+v", a)
	}
	if a := d.Process(verifiedEvent(0, "CH1", models.LabelHuman, 0.9), nil); a == nil {
		t.Fatalf("at-threshold event must alert")
	}
}

func TestCooldownSuppressesRepeatAlertsPerCluster(t *testing.T) {
	d := NewDispatcher(Config{ConfidenceThreshold: 0.9, CooldownCycles: 3})

	if a := d.Process(verifiedEvent(0, "CH1", models.LabelHuman, 0.95), nil); a == nil {
		t.Fatalf("first alert must dispatch")
	}
	if a := d.Process(verifiedEvent(1, "CH1", models.LabelHuman, 0.95), nil); a != nil {
		t.Fatalf("cycle 1 is inside the cooldown window")
	}
	if a := d.Process(verifiedEvent(2, "CH1", models.LabelHuman, 0.95), nil); a != nil {
		t.Fatalf("cycle 2 is inside the cooldown window")
	}
	// A different cluster has its own window.
	if a := d.Process(verifiedEvent(2, "CH2", models.LabelHuman, 0.95), nil); a == nil {
		t.Fatalf("cooldown must be scoped per cluster")
	}
	if a := d.Process(verifiedEvent(3, "CH1", models.LabelHuman, 0.95), nil); a == nil {
		t.Fatalf("cycle 3 is past the cooldown window")
	}

	if d.Suppressed() != 2 {
		t.Fatalf("expected 2 suppressed alerts, got %d", d.Suppressed())
	}
	if len(d.Dispatched()) != 3 {
		t.Fatalf("expected 3 dispatched alerts, got %d", len(d.Dispatched()))
	}
}

func TestSeverityGrading(t *testing.T) {
	cases := []struct {
		label      models.Label
		confidence float64
		want       models.Severity
	}{
		{models.LabelHuman, 0.79, models.SeverityLow},
		{models.LabelHuman, 0.96, models.SeverityCritical},
		{models.LabelHuman, 0.9, models.SeverityMedium},
		{models.LabelVehicle, 0.92, models.SeverityHigh},
		{models.LabelVehicle, 0.85, models.SeverityMedium},
		{models.LabelAnimal, 0.97, models.SeverityMedium},
	}
	for _, tc := range cases {
		if got := severityFor(tc.label, tc.confidence); got != tc.want {
			t.Fatalf("severityFor(%s, %v) = %s, want %s", tc.label, tc.confidence, got, tc.want)
		}
	}
}

func TestCriticalRuleTagRaisesSeverity(t *testing.T) {
	d := NewDispatcher(Config{ConfidenceThreshold: 0.8})

	tags := []models.EscalationTag{{ID: "r1", Name: "verified vehicle crossing", Severity: "critical"}}
	a := d.Process(verifiedEvent(0, "CH1", models.LabelAnimal, 0.85), tags)
	if a == nil {
		t.Fatalf("expected alert")
	}
	if a.Severity != models.SeverityCritical {
		t.Fatalf("critical rule tag must raise severity, got %s", a.Severity)
	}
	if len(a.EscalationTags) != 1 || a.EscalationTags[0].ID != "r1" {
		t.Fatalf("escalation tags must be attached: %+v", a.EscalationTags)
	}
	if a.AlertID == "" {
		t.Fatalf("alert must carry an id")
	}
}
