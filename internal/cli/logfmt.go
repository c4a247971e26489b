package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Paintersrp/reap/internal/engine"
)

type logRecord struct {
	Timestamp time.Time `json:"ts"`
	Level     string    `json:"level"`
	Type      string    `json:"type"`
	Message   string    `json:"msg"`
	Processes int       `json:"processes,omitempty"`
	Tracked   int       `json:"tracked,omitempty"`
	Removed   int       `json:"removed,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func newLogRecord(event engine.Event) logRecord {
	level := event.Level
	if level == "" {
		level = "info"
	}
	record := logRecord{
		Timestamp: event.Timestamp,
		Level:     level,
		Type:      string(event.Type),
		Message:   event.Message,
		Processes: event.Processes,
		Tracked:   event.Tracked,
		Removed:   event.Removed,
	}
	if event.Err != nil {
		record.Error = event.Err.Error()
	}
	return record
}

func encodeLogEvent(enc *json.Encoder, stderr io.Writer, event engine.Event) {
	if enc == nil {
		return
	}
	record := newLogRecord(event)
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if err := enc.Encode(&record); err != nil {
		fmt.Fprintf(stderr, "error: encode log: %v\n", err)
	}
}
