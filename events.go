package mapwindow

import (
	"time"
)

// EventKind identifies the type of event emitted by the tool lifecycle.
type EventKind string

const (
	// EventRunStarted is emitted when a tool run begins.
	EventRunStarted EventKind = "run.started"

	// EventRunFinished is emitted when a tool run completes successfully.
	EventRunFinished EventKind = "run.finished"

	// EventRunFailed is emitted when a tool run reports failure.
	EventRunFailed EventKind = "run.failed"

	// EventParamsDiscovered is emitted after the parameter table has been
	// built for a tool (once per controller).
	EventParamsDiscovered EventKind = "params.discovered"

	// EventValidationFailed is emitted when a parameter fails validation.
	EventValidationFailed EventKind = "validation.failed"

	// EventOutputCommitted is emitted when the dispatcher commits an
	// output artifact to disk or the live registry.
	EventOutputCommitted EventKind = "output.committed"

	// EventOutputFailed is emitted when the dispatcher cannot commit an
	// output artifact.
	EventOutputFailed EventKind = "output.failed"
)

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

// Event is a structured record of what happened during a tool's lifecycle.
// Events should be kept small; artifacts are never embedded.
type Event struct {
	// Kind identifies the event type.
	Kind EventKind

	// RunID is the unique identifier of the run (empty for events emitted
	// before a run starts, such as discovery).
	RunID string

	// Tool is the name of the tool that produced the event.
	Tool string

	// Time is when the event occurred.
	Time time.Time

	// Elapsed is the duration since the run started, for run-terminal events.
	Elapsed time.Duration

	// Payload contains event-specific data.
	Payload map[string]any
}

// NewEvent creates a new event with the current timestamp.
func NewEvent(kind EventKind, runID, tool string) Event {
	return Event{
		Kind:    kind,
		RunID:   runID,
		Tool:    tool,
		Time:    time.Now(),
		Payload: make(map[string]any),
	}
}

// WithElapsed sets the elapsed duration on the event.
func (e Event) WithElapsed(elapsed time.Duration) Event {
	e.Elapsed = elapsed
	return e
}

// WithPayload adds a key-value pair to the event payload.
func (e Event) WithPayload(key string, value any) Event {
	if e.Payload == nil {
		e.Payload = make(map[string]any)
	}
	e.Payload[key] = value
	return e
}

// EventHandler is a function type for handling lifecycle events.
// Implementations can log, store, or forward events as needed.
type EventHandler func(Event)

// MultiEventHandler combines multiple handlers into one.
func MultiEventHandler(handlers ...EventHandler) EventHandler {
	return func(e Event) {
		for _, h := range handlers {
			if h != nil {
				h(e)
			}
		}
	}
}
