// Package otel translates framework lifecycle events into OpenTelemetry
// metrics and traces.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	mapwindow "github.com/Geoany/MapWindow5"
)

// MetricsHandler translates lifecycle events into OpenTelemetry metrics.
// It records counters and histograms for tool executions, failures, run
// durations, and output commits.
type MetricsHandler struct {
	toolExecutions metric.Int64Counter
	toolFailures   metric.Int64Counter
	runDuration    metric.Float64Histogram
	outputCommits  metric.Int64Counter
	outputFailures metric.Int64Counter
}

// NewMetricsHandler creates a MetricsHandler that uses the given meter to
// create instruments for recording tool lifecycle metrics.
func NewMetricsHandler(meter metric.Meter) (*MetricsHandler, error) {
	toolExec, err := meter.Int64Counter("mapwindow.tool.executions",
		metric.WithDescription("Number of tool executions"),
	)
	if err != nil {
		return nil, err
	}

	toolFail, err := meter.Int64Counter("mapwindow.tool.failures",
		metric.WithDescription("Number of failed tool executions"),
	)
	if err != nil {
		return nil, err
	}

	runDur, err := meter.Float64Histogram("mapwindow.tool.run.duration",
		metric.WithDescription("Duration of tool runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	commits, err := meter.Int64Counter("mapwindow.output.commits",
		metric.WithDescription("Number of committed output artifacts"),
	)
	if err != nil {
		return nil, err
	}

	outputFail, err := meter.Int64Counter("mapwindow.output.failures",
		metric.WithDescription("Number of failed output commits"),
	)
	if err != nil {
		return nil, err
	}

	return &MetricsHandler{
		toolExecutions: toolExec,
		toolFailures:   toolFail,
		runDuration:    runDur,
		outputCommits:  commits,
		outputFailures: outputFail,
	}, nil
}

// Handle processes a lifecycle event and records the appropriate metrics.
// It implements mapwindow.EventHandler semantics.
func (h *MetricsHandler) Handle(e mapwindow.Event) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("tool", e.Tool),
	)

	switch e.Kind {
	case mapwindow.EventRunFinished:
		h.toolExecutions.Add(ctx, 1, attrs)
		h.runDuration.Record(ctx, e.Elapsed.Seconds(), attrs)
	case mapwindow.EventRunFailed:
		h.toolExecutions.Add(ctx, 1, attrs)
		h.toolFailures.Add(ctx, 1, attrs)
		h.runDuration.Record(ctx, e.Elapsed.Seconds(), attrs)
	case mapwindow.EventOutputCommitted:
		h.outputCommits.Add(ctx, 1, attrs)
	case mapwindow.EventOutputFailed:
		reason := ""
		if r, ok := e.Payload["reason"].(string); ok {
			reason = r
		}
		h.outputFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tool", e.Tool),
			attribute.String("reason", reason),
		))
	}
}
