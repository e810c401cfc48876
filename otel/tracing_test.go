package otel_test

import (
	"testing"
	"time"

	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	mapwindow "github.com/Geoany/MapWindow5"
	mwotel "github.com/Geoany/MapWindow5/otel"
)

// newTestTracer returns a tracer backed by an in-memory span exporter.
func newTestTracer() (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	return exporter, tp
}

func TestTracingHandler_RunSpan(t *testing.T) {
	exporter, tp := newTestTracer()
	h := mwotel.NewTracingHandler(tp.Tracer("test"))

	now := time.Now()

	h.Handle(mapwindow.Event{
		Kind:  mapwindow.EventRunStarted,
		RunID: "run-1",
		Tool:  "random_points",
		Time:  now,
	})

	if !h.ActiveRunSpanContext("run-1").IsValid() {
		t.Fatal("expected valid run span context after run.started")
	}

	h.Handle(mapwindow.Event{
		Kind:    mapwindow.EventRunFinished,
		RunID:   "run-1",
		Tool:    "random_points",
		Time:    now.Add(100 * time.Millisecond),
		Elapsed: 100 * time.Millisecond,
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	span := spans[0]
	if span.Name != "run:random_points" {
		t.Errorf("expected span name 'run:random_points', got %q", span.Name)
	}
	if span.Status.Code != otelcodes.Ok {
		t.Errorf("expected Ok status, got %v", span.Status.Code)
	}

	found := false
	for _, attr := range span.Attributes {
		if string(attr.Key) == "mapwindow.run_id" && attr.Value.AsString() == "run-1" {
			found = true
		}
	}
	if !found {
		t.Error("expected mapwindow.run_id attribute on run span")
	}

	if h.ActiveRunSpanContext("run-1").IsValid() {
		t.Error("expected run span to be released after the run ended")
	}
}

func TestTracingHandler_RunFailedSetsErrorStatus(t *testing.T) {
	exporter, tp := newTestTracer()
	h := mwotel.NewTracingHandler(tp.Tracer("test"))

	now := time.Now()
	h.Handle(mapwindow.Event{Kind: mapwindow.EventRunStarted, RunID: "run-1", Tool: "point_grid", Time: now})
	h.Handle(mapwindow.Event{Kind: mapwindow.EventRunFailed, RunID: "run-1", Tool: "point_grid", Time: now.Add(time.Millisecond)})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != otelcodes.Error {
		t.Errorf("expected Error status, got %v", spans[0].Status.Code)
	}
}

func TestTracingHandler_OutputSpanEvents(t *testing.T) {
	exporter, tp := newTestTracer()
	h := mwotel.NewTracingHandler(tp.Tracer("test"))

	now := time.Now()
	h.Handle(mapwindow.Event{Kind: mapwindow.EventRunStarted, RunID: "run-1", Tool: "random_points", Time: now})
	h.Handle(mapwindow.Event{
		Kind:  mapwindow.EventOutputFailed,
		RunID: "run-1",
		Tool:  "random_points",
		Time:  now.Add(time.Millisecond),
		Payload: map[string]any{
			"name":   "/data/points.csv",
			"memory": false,
			"reason": "overwrite",
		},
	})
	h.Handle(mapwindow.Event{Kind: mapwindow.EventRunFailed, RunID: "run-1", Tool: "random_points", Time: now.Add(2 * time.Millisecond)})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	events := spans[0].Events
	if len(events) != 1 {
		t.Fatalf("expected 1 span event, got %d", len(events))
	}
	if events[0].Name != "output.failed" {
		t.Errorf("expected event 'output.failed', got %q", events[0].Name)
	}

	found := false
	for _, attr := range events[0].Attributes {
		if string(attr.Key) == "output.failure_reason" && attr.Value.AsString() == "overwrite" {
			found = true
		}
	}
	if !found {
		t.Error("expected output.failure_reason attribute")
	}
}

func TestTracingHandler_UnknownRunIsIgnored(t *testing.T) {
	exporter, tp := newTestTracer()
	h := mwotel.NewTracingHandler(tp.Tracer("test"))

	h.Handle(mapwindow.Event{Kind: mapwindow.EventRunFinished, RunID: "ghost", Tool: "t", Time: time.Now()})
	h.Handle(mapwindow.Event{Kind: mapwindow.EventOutputCommitted, RunID: "ghost", Tool: "t", Time: time.Now()})

	if len(exporter.GetSpans()) != 0 {
		t.Error("expected no spans for unknown run")
	}
	if h.ActiveRunSpanContext("ghost").IsValid() {
		t.Error("expected invalid span context for unknown run")
	}
}
