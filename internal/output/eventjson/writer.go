package eventjson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"bordersentry/internal/logger"
	"bordersentry/pkg/models"
)

// Writer appends detection events to a JSON lines file, one object per
// event in emission order.
type Writer struct {
	file    *os.File
	encoder *json.Encoder
}

// NewWriter creates a JSONL writer for detection events.
func NewWriter(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	logger.Infof("Event JSON writer initialized: %s", path)
	return &Writer{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// WriteEvents writes a batch of events.
func (w *Writer) WriteEvents(events []*models.DetectionEvent) error {
	for _, ev := range events {
		if err := w.encoder.Encode(ev); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

// Close closes the output file.
func (w *Writer) Close() error {
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

// ReadEvents loads a JSONL event stream back, for the report subcommand.
func ReadEvents(path string) ([]*models.DetectionEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event stream: %w", err)
	}
	defer f.Close()

	var events []*models.DetectionEvent
	dec := json.NewDecoder(f)
	for dec.More() {
		var ev models.DetectionEvent
		if err := dec.Decode(&ev); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		events = append(events, &ev)
	}
	return events, nil
}
