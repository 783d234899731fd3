package sim

import (
	"context"
	"fmt"

	"bordersentry/internal/alerts"
	"bordersentry/internal/camera"
	"bordersentry/internal/classifier"
	"bordersentry/internal/intrusion"
	"bordersentry/internal/logger"
	"bordersentry/internal/metrics"
	"bordersentry/internal/notify"
	"bordersentry/internal/rules"
	"bordersentry/internal/verify"
	"bordersentry/pkg/models"
)

// Params wires the orchestrator's collaborators. Deployment, Injector,
// Classifier and Verifier are required; everything else may be nil (or
// empty) and is skipped.
type Params struct {
	Cycles     int
	Deployment *Deployment
	Injector   *intrusion.Injector
	Classifier classifier.Classifier
	Verifier   *verify.Stage
	Cameras    []*camera.Camera

	Rules        rules.Engine
	Dispatcher   *alerts.Dispatcher
	Notifier     *notify.Notifier
	EventWriters []EventWriter
	AlertWriter  AlertWriter
	Metrics      *metrics.Metrics
}

// Orchestrator drives the discrete simulation: one synchronous pass over
// all cluster heads per cycle, in a fixed deterministic order. It owns the
// global cycle counter and every node and cluster object; no state is
// shared outside the loop.
type Orchestrator struct {
	p   Params
	clf *classifier.Guarded

	cycle  int
	events []*models.DetectionEvent
}

// NewOrchestrator creates an orchestrator. The classifier is wrapped with
// contract enforcement here so no unguarded prediction can reach the event
// stream.
func NewOrchestrator(p Params) *Orchestrator {
	if p.Rules == nil {
		p.Rules = &rules.NoopEngine{}
	}
	return &Orchestrator{p: p, clf: classifier.Guard(p.Classifier)}
}

// Events returns the full emitted event stream so far.
func (o *Orchestrator) Events() []*models.DetectionEvent { return o.events }

// CompletedCycles returns the number of fully completed cycles.
func (o *Orchestrator) CompletedCycles() int { return o.cycle }

// Run executes the configured number of cycles. Cancellation is honored
// only between cycles, so a stop always leaves node and cluster state
// consistent for resumption. A classifier contract violation aborts the run
// with a hard error before the offending cycle emits anything.
func (o *Orchestrator) Run(ctx context.Context) error {
	logger.Infof("Simulation starting: %d cycles, %d clusters, %d nodes",
		o.p.Cycles, len(o.p.Deployment.Heads), len(o.p.Deployment.Nodes))

	for c := 0; c < o.p.Cycles; c++ {
		select {
		case <-ctx.Done():
			logger.Infof("Stop requested, halting before cycle %d", c)
			return ctx.Err()
		default:
		}

		if err := o.runCycle(c); err != nil {
			return err
		}
		o.cycle = c + 1
	}

	logger.Infof("Simulation complete: %d cycles, %d events", o.cycle, len(o.events))
	return nil
}

// Close releases all writers.
func (o *Orchestrator) Close() error {
	var firstErr error
	for _, w := range o.p.EventWriters {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if o.p.AlertWriter != nil {
		if err := o.p.AlertWriter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (o *Orchestrator) runCycle(cycle int) error {
	o.p.Injector.Advance(cycle)
	for _, cam := range o.p.Cameras {
		cam.Tick()
	}

	cycleEvents := make([]*models.DetectionEvent, 0, len(o.p.Deployment.Heads))
	var cycleAlerts []*models.Alert

	for _, head := range o.p.Deployment.Heads {
		nodes := o.p.Deployment.NodesOf(head.ID())
		readings := make([]models.Reading, 0, len(nodes))
		for _, node := range nodes {
			if !node.Active() {
				node.Recharge()
			}
			readings = append(readings, node.Sense(o.p.Injector.StimulusAt(node.Position())))
		}

		fv := head.Aggregate(readings)

		var ev *models.DetectionEvent
		if fv.IsSentinel() {
			// A blind cluster still produces an explicit event; silence
			// would be indistinguishable from lost data downstream.
			logger.Noticef("Cluster %s has no active nodes in cycle %d, emitting sentinel event", head.ID(), cycle)
			if o.p.Metrics != nil {
				o.p.Metrics.SentinelClusters.Inc()
			}
			ev = &models.DetectionEvent{
				Cycle:      cycle,
				ClusterID:  head.ID(),
				Label:      models.LabelNormal,
				Confidence: 1,
				Verified:   true,
				FinalLabel: models.LabelNormal,
				Sentinel:   true,
				Features:   fv,
			}
		} else {
			label, confidence, err := o.clf.Predict(fv)
			if err != nil {
				return fmt.Errorf("cycle %d cluster %s: %w", cycle, head.ID(), err)
			}

			outcome := o.p.Verifier.Verify(cycle, head.ID(), label, confidence)
			if label.Intrusion() && !outcome.Verified && o.p.Metrics != nil {
				o.p.Metrics.Downgrades.Inc()
			}

			ev = &models.DetectionEvent{
				Cycle:      cycle,
				ClusterID:  head.ID(),
				Label:      label,
				Confidence: confidence,
				Verified:   outcome.Verified,
				FinalLabel: outcome.FinalLabel,
				Features:   fv,
			}
		}

		cycleEvents = append(cycleEvents, ev)
		if o.p.Metrics != nil {
			o.p.Metrics.Events.WithLabelValues(string(ev.FinalLabel)).Inc()
		}

		if o.p.Dispatcher != nil {
			tags := o.p.Rules.Apply(ev)
			if alert := o.p.Dispatcher.Process(ev, tags); alert != nil {
				cycleAlerts = append(cycleAlerts, alert)
				if o.p.Notifier != nil {
					o.p.Notifier.Notify(alert)
				}
				if o.p.Metrics != nil {
					o.p.Metrics.Alerts.WithLabelValues(string(alert.Severity)).Inc()
				}
			}
		}
	}

	o.events = append(o.events, cycleEvents...)
	o.flush(cycleEvents, cycleAlerts)

	if o.p.Metrics != nil {
		o.p.Metrics.Cycles.Inc()
		o.p.Metrics.InactiveNodes.Set(float64(o.p.Deployment.InactiveCount()))
	}
	return nil
}

// flush hands the cycle's finalized events and alerts to the sinks.
// Delivery is fire-and-forget: failures are logged, never retried, and
// never fail the cycle.
func (o *Orchestrator) flush(events []*models.DetectionEvent, alerts []*models.Alert) {
	for _, w := range o.p.EventWriters {
		if err := w.WriteEvents(events); err != nil {
			logger.Errorf("Failed to write events: %v", err)
		}
	}
	if o.p.AlertWriter != nil && len(alerts) > 0 {
		if err := o.p.AlertWriter.WriteAlerts(alerts); err != nil {
			logger.Errorf("Failed to write alerts: %v", err)
		}
	}
}
