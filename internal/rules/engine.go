package rules

import "bordersentry/pkg/models"

// Engine applies escalation rules to finalized detection events.
type Engine interface {
	Apply(event *models.DetectionEvent) []models.EscalationTag
}

// NoopEngine returns no tags.
type NoopEngine struct{}

// Apply returns an empty tag list.
func (n *NoopEngine) Apply(event *models.DetectionEvent) []models.EscalationTag {
	return nil
}
