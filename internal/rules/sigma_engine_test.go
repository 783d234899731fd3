package rules

import (
	"os"
	"path/filepath"
	"testing"

	"bordersentry/pkg/models"
)

const vehicleRule = `title: Verified Vehicle Crossing
id: test-vehicle-rule
logsource:
  product: bordersentry
  service: detections
detection:
  selection:
    FinalLabel: vehicle
    Verified: "true"
  condition: selection
level: critical
tags:
  - route.quick-reaction-force
`

const sentinelRule = `title: Sentinel Cluster
logsource:
  product: bordersentry
detection:
  selection:
    Sentinel: "true"
  condition: selection
level: high
`

const foreignRule = `title: Windows Process Creation
logsource:
  product: windows
  service: sysmon
detection:
  selection:
    EventID: 1
  condition: selection
`

func writeRules(t *testing.T, rules map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range rules {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write rule %s: %v", name, err)
		}
	}
	return dir
}

func TestSigmaEngineLoadsCompatibleRulesOnly(t *testing.T) {
	dir := writeRules(t, map[string]string{
		"vehicle.yml":  vehicleRule,
		"sentinel.yml": sentinelRule,
		"foreign.yml":  foreignRule,
		"notes.txt":    "not a rule",
	})

	_, stats, err := NewSigmaEngine(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalFiles != 3 {
		t.Fatalf("expected 3 yaml files scanned, got %d", stats.TotalFiles)
	}
	if stats.Loaded != 2 {
		t.Fatalf("expected 2 loaded rules, got %d", stats.Loaded)
	}
	if stats.SkippedDatasource != 1 {
		t.Fatalf("expected 1 datasource skip, got %d", stats.SkippedDatasource)
	}
}

func TestSigmaEngineTagsMatchingEvent(t *testing.T) {
	dir := writeRules(t, map[string]string{"vehicle.yml": vehicleRule})
	engine, _, err := NewSigmaEngine(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev := &models.DetectionEvent{
		Cycle:      12,
		ClusterID:  "CH2",
		Label:      models.LabelVehicle,
		FinalLabel: models.LabelVehicle,
		Confidence: 0.93,
		Verified:   true,
	}
	tags := engine.Apply(ev)
	if len(tags) != 1 {
		t.Fatalf("expected 1 escalation tag, got %d", len(tags))
	}
	tag := tags[0]
	if tag.ID != "test-vehicle-rule" || tag.Name != "Verified Vehicle Crossing" {
		t.Fatalf("unexpected tag identity: %+v", tag)
	}
	if tag.Severity != "critical" {
		t.Fatalf("expected critical severity, got %s", tag.Severity)
	}
	if tag.Route != "quick-reaction-force" {
		t.Fatalf("expected route tag parsed, got %q", tag.Route)
	}
}

func TestSigmaEngineIgnoresNonMatchingEvent(t *testing.T) {
	dir := writeRules(t, map[string]string{"vehicle.yml": vehicleRule})
	engine, _, err := NewSigmaEngine(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev := &models.DetectionEvent{
		Cycle:      3,
		ClusterID:  "CH1",
		Label:      models.LabelVehicle,
		FinalLabel: models.LabelNormal,
		Verified:   false,
	}
	if tags := engine.Apply(ev); tags != nil {
		t.Fatalf("expected no tags for a downgraded event, got %+v", tags)
	}
}

func TestSigmaEngineMatchesSentinelEvents(t *testing.T) {
	dir := writeRules(t, map[string]string{"sentinel.yml": sentinelRule})
	engine, _, err := NewSigmaEngine(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev := &models.DetectionEvent{
		Cycle:      5,
		ClusterID:  "CH3",
		Label:      models.LabelNormal,
		FinalLabel: models.LabelNormal,
		Verified:   true,
		Sentinel:   true,
	}
	tags := engine.Apply(ev)
	if len(tags) != 1 || tags[0].Severity != "high" {
		t.Fatalf("expected the sentinel rule to match, got %+v", tags)
	}
	if tags[0].ID != "Sentinel Cluster" {
		t.Fatalf("rule without an id must fall back to its title, got %q", tags[0].ID)
	}
}
