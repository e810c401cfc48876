package mapwindow

import (
	"log/slog"
	"os"

	"github.com/Geoany/MapWindow5/layer"
)

// Dispatcher commits a produced datasource according to an OutputLayerInfo.
// It owns the datasource from the moment HandleOutput is called until the
// handle is either disposed or transferred into the live registry.
//
// All commit failures (overwrite conflicts, persistence errors, lost memory
// artifacts) are reported as boolean outcomes and logged; none of them
// raise.
type Dispatcher struct {
	layers LayerService
	lookup LayerLookup
	logger *slog.Logger
	emit   EventHandler

	runID string
	tool  string
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the dispatcher logger. Defaults to slog.Default().
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithDispatcherEvents emits output.committed / output.failed events through
// the given handler.
func WithDispatcherEvents(emit EventHandler) DispatcherOption {
	return func(d *Dispatcher) { d.emit = emit }
}

// NewDispatcher creates an output dispatcher over the given layer service
// and lookup.
func NewDispatcher(layers LayerService, lookup LayerLookup, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{layers: layers, lookup: lookup}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// forRun returns a copy of the dispatcher scoped to one tool run, so emitted
// events carry the run identity.
func (d *Dispatcher) forRun(runID, tool string) *Dispatcher {
	scoped := *d
	scoped.runID = runID
	scoped.tool = tool
	return &scoped
}

// HandleOutput commits the datasource to the destination the info describes
// and returns whether the artifact ended up where it was supposed to.
func (d *Dispatcher) HandleOutput(ds layer.Datasource, info OutputLayerInfo) bool {
	if ds == nil {
		d.logger.Error("output dispatch called with nil datasource", "name", info.Name)
		return false
	}
	if info.MemoryLayer {
		return d.commitMemory(ds, info)
	}
	return d.commitDisk(ds, info)
}

// commitDisk persists the datasource to the target filename, then disposes
// the in-memory handle and optionally registers the file on the map.
func (d *Dispatcher) commitDisk(ds layer.Datasource, info OutputLayerInfo) bool {
	if fileExists(info.Name) {
		if !info.Overwrite {
			return d.overwriteFailure(info.Name, nil)
		}
		if err := os.Remove(info.Name); err != nil {
			return d.overwriteFailure(info.Name, err)
		}
	}

	if !ds.SaveAs(info.Name) {
		d.logger.Error("saving output datasource failed",
			"path", info.Name, "cause", ds.LastError())
		ds.Dispose()
		d.emitOutput(EventOutputFailed, info, "save_failed")
		return false
	}

	// The bytes are durable now; the source-side handle is done regardless
	// of whether the file also goes on the map.
	ds.Dispose()

	if info.AddToMap {
		ok := d.layers.AddLayersFromFilename(info.Name)
		if ok {
			d.emitOutput(EventOutputCommitted, info, "")
		} else {
			d.emitOutput(EventOutputFailed, info, "add_to_map_failed")
		}
		return ok
	}

	d.emitOutput(EventOutputCommitted, info, "")
	return true
}

// commitMemory registers the datasource directly as a live memory layer.
// A memory artifact that is not added to the map has nowhere to live and is
// reported as lost.
func (d *Dispatcher) commitMemory(ds layer.Datasource, info OutputLayerInfo) bool {
	if !info.AddToMap {
		d.logger.Warn("memory output layer not added to map; datasource discarded",
			"name", info.Name)
		ds.Dispose()
		d.emitOutput(EventOutputFailed, info, "lost_artifact")
		return false
	}

	if !d.layers.AddDatasource(ds) {
		d.logger.Error("registering memory datasource failed",
			"name", info.Name, "cause", ds.LastError())
		ds.Dispose()
		d.emitOutput(EventOutputFailed, info, "register_failed")
		return false
	}

	// Ownership has transferred into the registry; do not dispose.
	if lyr := d.lookup.ItemByHandle(d.layers.LastLayerHandle()); lyr != nil {
		lyr.SetName(info.Name)
	}

	d.emitOutput(EventOutputCommitted, info, "")
	return true
}

// overwriteFailure reports an overwrite conflict. The artifact is left
// untouched; the producing tool still owns it on this path.
func (d *Dispatcher) overwriteFailure(path string, cause error) bool {
	if cause != nil {
		d.logger.Warn("removing existing output failed", "path", path, "cause", cause)
	} else {
		d.logger.Warn("output target exists and overwrite is disabled", "path", path)
	}
	d.emitOutput(EventOutputFailed, OutputLayerInfo{Name: path}, "overwrite")
	return false
}

func (d *Dispatcher) emitOutput(kind EventKind, info OutputLayerInfo, reason string) {
	if d.emit == nil {
		return
	}
	e := NewEvent(kind, d.runID, d.tool).
		WithPayload("name", info.Name).
		WithPayload("memory", info.MemoryLayer)
	if reason != "" {
		e = e.WithPayload("reason", reason)
	}
	d.emit(e)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
