package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	mapwindow "github.com/Geoany/MapWindow5"
)

// TracingHandler translates lifecycle events into OpenTelemetry spans: one
// span per tool run, with output commits recorded as span events.
type TracingHandler struct {
	tracer trace.Tracer

	mu       sync.RWMutex
	runSpans map[string]trace.Span // runID -> span
}

// NewTracingHandler creates a TracingHandler that uses the given tracer to
// create spans from lifecycle events.
func NewTracingHandler(tracer trace.Tracer) *TracingHandler {
	return &TracingHandler{
		tracer:   tracer,
		runSpans: make(map[string]trace.Span),
	}
}

// Handle processes a lifecycle event and creates or ends spans accordingly.
// It implements mapwindow.EventHandler semantics.
func (h *TracingHandler) Handle(e mapwindow.Event) {
	switch e.Kind {
	case mapwindow.EventRunStarted:
		h.handleRunStarted(e)
	case mapwindow.EventOutputCommitted, mapwindow.EventOutputFailed:
		h.handleOutput(e)
	case mapwindow.EventRunFinished:
		h.handleRunEnded(e, codes.Ok, "")
	case mapwindow.EventRunFailed:
		h.handleRunEnded(e, codes.Error, "tool run failed")
	}
}

// ActiveRunSpanContext returns the span context of the active run span, or
// an invalid span context when the run is unknown.
func (h *TracingHandler) ActiveRunSpanContext(runID string) trace.SpanContext {
	h.mu.RLock()
	defer h.mu.RUnlock()
	span, ok := h.runSpans[runID]
	if !ok {
		return trace.SpanContext{}
	}
	return span.SpanContext()
}

func (h *TracingHandler) handleRunStarted(e mapwindow.Event) {
	_, span := h.tracer.Start(context.Background(), "run:"+e.Tool,
		trace.WithAttributes(
			attribute.String("mapwindow.run_id", e.RunID),
			attribute.String("mapwindow.tool", e.Tool),
		),
		trace.WithTimestamp(e.Time),
	)

	h.mu.Lock()
	h.runSpans[e.RunID] = span
	h.mu.Unlock()
}

func (h *TracingHandler) handleOutput(e mapwindow.Event) {
	h.mu.RLock()
	span, ok := h.runSpans[e.RunID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	attrs := make([]attribute.KeyValue, 0, 3)
	if name, ok := e.Payload["name"].(string); ok {
		attrs = append(attrs, attribute.String("output.name", name))
	}
	if memory, ok := e.Payload["memory"].(bool); ok {
		attrs = append(attrs, attribute.Bool("output.memory", memory))
	}
	if reason, ok := e.Payload["reason"].(string); ok {
		attrs = append(attrs, attribute.String("output.failure_reason", reason))
	}
	span.AddEvent(string(e.Kind), trace.WithAttributes(attrs...), trace.WithTimestamp(e.Time))
}

func (h *TracingHandler) handleRunEnded(e mapwindow.Event, code codes.Code, desc string) {
	h.mu.Lock()
	span, ok := h.runSpans[e.RunID]
	if ok {
		delete(h.runSpans, e.RunID)
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	span.SetStatus(code, desc)
	span.End(trace.WithTimestamp(e.Time))
}
