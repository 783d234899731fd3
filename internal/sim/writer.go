package sim

import "bordersentry/pkg/models"

// EventWriter writes detection event outputs.
type EventWriter interface {
	WriteEvents(events []*models.DetectionEvent) error
	Close() error
}

// AlertWriter writes alert outputs.
type AlertWriter interface {
	WriteAlerts(alerts []*models.Alert) error
	Close() error
}
