package capture

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Exporter serializes documents to JSON and writes them through the sink.
// Unlike recording, exports are synchronous: when SaveJSON returns nil the
// document has been handed to the sink.
type Exporter struct {
	log  *slog.Logger
	sink Sink
}

// NewExporter returns an exporter writing through sink.
func NewExporter(log *slog.Logger, sink Sink) *Exporter {
	return &Exporter{log: log, sink: sink}
}

// SaveJSON serializes v with indentation and writes it under name.
func (e *Exporter) SaveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := e.sink.WriteJSON(name, data); err != nil {
		return fmt.Errorf("export %s: %w", name, err)
	}
	e.log.Debug("json exported", slog.String("name", name), slog.Int("bytes", len(data)))
	return nil
}
