package notify

import (
	"fmt"
	"time"

	"bordersentry/internal/logger"
	"bordersentry/pkg/models"
)

// Message is one simulated transmission on a notification channel.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Channel   string    `json:"channel"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
}

// Config controls the simulated notification channels.
type Config struct {
	DatalinkEnabled   bool
	CommandLogEnabled bool
	Channel           string
	Recipient         string
}

// Notifier simulates the secure-datalink radio burst and the command-center
// log entry that follow a dispatched alert. Delivery is fire-and-forget:
// nothing in the simulation waits on it or retries it.
type Notifier struct {
	cfg Config

	datalinkLog []Message
	commandLog  []Message
}

// New creates a notifier.
func New(cfg Config) *Notifier {
	if cfg.Channel == "" {
		cfg.Channel = "SECURE-DATALINK-1"
	}
	if cfg.Recipient == "" {
		cfg.Recipient = "command@border-cc.example"
	}
	return &Notifier{cfg: cfg}
}

// Notify records the notifications for one alert.
func (n *Notifier) Notify(alert *models.Alert) {
	if alert == nil {
		return
	}

	body := fmt.Sprintf("intrusion=%s cluster=%s cycle=%d confidence=%.2f severity=%s",
		alert.Label, alert.ClusterID, alert.Cycle, alert.Confidence, alert.Severity)

	if n.cfg.DatalinkEnabled {
		n.datalinkLog = append(n.datalinkLog, Message{
			Timestamp: alert.CreatedAt,
			Channel:   n.cfg.Channel,
			Recipient: n.cfg.Recipient,
			Body:      body,
		})
		logger.Infof("Datalink TX [%s]: %s", n.cfg.Channel, body)
	}

	if n.cfg.CommandLogEnabled {
		n.commandLog = append(n.commandLog, Message{
			Timestamp: alert.CreatedAt,
			Channel:   "command-log",
			Recipient: n.cfg.Recipient,
			Subject:   fmt.Sprintf("%s alert: %s at %s", alert.Severity, alert.Label, alert.ClusterID),
			Body:      body,
		})
		logger.Debugf("Command log entry for alert %s", alert.AlertID)
	}

	for _, tag := range alert.EscalationTags {
		if tag.Route != "" {
			logger.Infof("Alert %s escalated via rule %q to %s", alert.AlertID, tag.Name, tag.Route)
		}
	}
}

// DatalinkLog returns the simulated radio transmissions.
func (n *Notifier) DatalinkLog() []Message { return n.datalinkLog }

// CommandLog returns the simulated command-center log entries.
func (n *Notifier) CommandLog() []Message { return n.commandLog }
