package engine

import "time"

// EventType captures lifecycle notifications emitted by the refresher,
// tracker and query paths.
type EventType string

const (
	EventTypeRefreshed  EventType = "refreshed"
	EventTypeReconciled EventType = "reconciled"
	EventTypeQuery      EventType = "query"
	EventTypeError      EventType = "error"
	EventTypeStopped    EventType = "stopped"
)

// Event represents a single lifecycle notification.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Message   string
	Level     string
	Processes int
	Tracked   int
	Removed   int
	Err       error
}

// sendEvent delivers best-effort: a stalled consumer must never stall the
// refresh loop, so events are dropped rather than queued.
func sendEvent(events chan<- Event, t EventType, level, message string, err error) {
	if events == nil {
		return
	}
	evt := Event{
		Timestamp: time.Now(),
		Type:      t,
		Message:   message,
		Level:     level,
		Err:       err,
	}
	select {
	case events <- evt:
	default:
	}
}

func sendEventCounts(events chan<- Event, t EventType, message string, processes, tracked, removed int) {
	if events == nil {
		return
	}
	evt := Event{
		Timestamp: time.Now(),
		Type:      t,
		Message:   message,
		Level:     "info",
		Processes: processes,
		Tracked:   tracked,
		Removed:   removed,
	}
	select {
	case events <- evt:
	default:
	}
}
