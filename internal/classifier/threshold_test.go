package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"bordersentry/pkg/models"
)

func TestDefaultPredictsHumanInsideEnvelope(t *testing.T) {
	m := Default()

	label, conf := m.Predict(models.FeatureVector{
		MotionTotal:    5,
		VibrationMax:   0.6,
		TemperatureMax: 35,
		AcousticMax:    0.7,
		ActiveNodes:    8,
	})
	if label != models.LabelHuman {
		t.Fatalf("expected human, got %s (conf=%v)", label, conf)
	}
	if conf != 1 {
		t.Fatalf("expected full-envelope confidence 1, got %v", conf)
	}
}

func TestDefaultPredictsVehicleInsideEnvelope(t *testing.T) {
	m := Default()

	label, conf := m.Predict(models.FeatureVector{
		MotionTotal:    3,
		VibrationMax:   0.9,
		TemperatureMax: 50,
		AcousticMax:    0.85,
		ActiveNodes:    8,
	})
	if label != models.LabelVehicle || conf != 1 {
		t.Fatalf("expected vehicle with confidence 1, got %s %v", label, conf)
	}
}

func TestDefaultPredictsAnimalInsideEnvelope(t *testing.T) {
	m := Default()

	label, conf := m.Predict(models.FeatureVector{
		MotionTotal:    2,
		VibrationMax:   0.3,
		TemperatureMax: 30,
		AcousticMax:    0.5,
		ActiveNodes:    8,
	})
	if label != models.LabelAnimal || conf != 1 {
		t.Fatalf("expected animal with confidence 1, got %s %v", label, conf)
	}
}

func TestPredictNormalWithoutMotion(t *testing.T) {
	m := Default()

	label, conf := m.Predict(models.FeatureVector{
		MotionTotal:    0,
		VibrationMax:   0.9,
		TemperatureMax: 50,
		AcousticMax:    0.9,
		ActiveNodes:    8,
	})
	if label != models.LabelNormal || conf != 0.99 {
		t.Fatalf("expected quiet normal, got %s %v", label, conf)
	}
}

func TestPredictSentinelIsNormal(t *testing.T) {
	m := Default()

	label, conf := m.Predict(models.FeatureVector{})
	if label != models.LabelNormal || conf != 0.99 {
		t.Fatalf("expected sentinel normal, got %s %v", label, conf)
	}
}

func TestPredictWeakMatchFallsBackToNormal(t *testing.T) {
	m := Default()

	label, conf := m.Predict(models.FeatureVector{
		MotionTotal: 1,
		ActiveNodes: 8,
	})
	if label != models.LabelNormal {
		t.Fatalf("expected normal for a weak match, got %s", label)
	}
	if conf <= 0.5 || conf > 1 {
		t.Fatalf("expected normal confidence in (0.5, 1], got %v", conf)
	}
}

const validArtifact = `schema:
  - motion_total
  - vibration_avg
  - vibration_max
  - temperature_avg
  - temperature_max
  - acoustic_avg
  - acoustic_max
  - active_nodes
  - battery_avg
classes:
  human:
    vibration: {min: 0.4, max: 0.8}
    temperature_c: {min: 32, max: 38}
    acoustic: {min: 0.5, max: 0.9}
  animal:
    vibration: {min: 0.2, max: 0.5}
    temperature_c: {min: 25, max: 35}
    acoustic: {min: 0.3, max: 0.7}
  vehicle:
    vibration: {min: 0.8, max: 1.0}
    temperature_c: {min: 40, max: 60}
    acoustic: {min: 0.7, max: 1.0}
`

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write artifact: %v", err)
	}
	return path
}

func TestLoadValidArtifact(t *testing.T) {
	m, err := Load(writeArtifact(t, validArtifact))
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	label, _ := m.Predict(models.FeatureVector{
		MotionTotal:    1,
		VibrationMax:   0.9,
		TemperatureMax: 50,
		AcousticMax:    0.85,
		ActiveNodes:    4,
	})
	if label != models.LabelVehicle {
		t.Fatalf("expected vehicle from loaded artifact, got %s", label)
	}
}

func TestLoadRejectsSchemaMismatch(t *testing.T) {
	bad := `schema:
  - vibration_avg
classes: {}
`
	if _, err := Load(writeArtifact(t, bad)); err == nil {
		t.Fatalf("expected schema mismatch error")
	}
}

func TestLoadRejectsMissingClass(t *testing.T) {
	bad := `schema:
  - motion_total
  - vibration_avg
  - vibration_max
  - temperature_avg
  - temperature_max
  - acoustic_avg
  - acoustic_max
  - active_nodes
  - battery_avg
classes:
  human:
    vibration: {min: 0.4, max: 0.8}
    temperature_c: {min: 32, max: 38}
    acoustic: {min: 0.5, max: 0.9}
`
	if _, err := Load(writeArtifact(t, bad)); err == nil {
		t.Fatalf("expected missing class error")
	}
}

func TestLoadRejectsUnknownClass(t *testing.T) {
	bad := validArtifact + `  drone:
    vibration: {min: 0, max: 0.1}
    temperature_c: {min: 20, max: 30}
    acoustic: {min: 0.8, max: 1.0}
`
	if _, err := Load(writeArtifact(t, bad)); err == nil {
		t.Fatalf("expected unknown class error")
	}
}

func TestBandMembershipDecaysLinearly(t *testing.T) {
	b := Band{Min: 0.4, Max: 0.8}

	if got := b.membership(0.6); got != 1 {
		t.Fatalf("expected membership 1 inside the band, got %v", got)
	}
	if got := b.membership(0.2); got != 0.5 {
		t.Fatalf("expected membership 0.5 half a width below, got %v", got)
	}
	if got := b.membership(2.0); got != 0 {
		t.Fatalf("expected membership 0 far outside, got %v", got)
	}
}
