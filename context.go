package mapwindow

import (
	"log/slog"

	"github.com/Geoany/MapWindow5/layer"
)

// MessageService presents non-fatal messages to the user. Validation
// failures are reported through it.
type MessageService interface {
	Info(text string)
}

// MessageFunc adapts a function to the MessageService interface.
type MessageFunc func(text string)

// Info calls the wrapped function.
func (f MessageFunc) Info(text string) { f(text) }

// NopMessages is a MessageService that discards all messages.
var NopMessages MessageService = MessageFunc(func(string) {})

// LayerService registers committed artifacts as live layers. The live
// registry is mutated only through these operations.
type LayerService interface {
	// AddLayersFromFilename opens a persisted dataset and registers it.
	AddLayersFromFilename(path string) bool

	// AddDatasource registers a datasource directly as a memory layer.
	// Ownership transfers into the registry on success.
	AddDatasource(ds layer.Datasource) bool

	// LastLayerHandle returns the handle of the most recently added layer.
	LastLayerHandle() int
}

// LayerLookup resolves live layers by handle.
type LayerLookup interface {
	ItemByHandle(handle int) *layer.Layer
}

// ToolContext aggregates the collaborators a tool needs from its host:
// the live layer collection, the message service, and the layer service.
// It is supplied exactly once, at Initialize time; the controller holds a
// non-owning reference.
type ToolContext struct {
	// Layers is the live layer collection of the hosting map session.
	Layers *layer.Collection

	// Messages presents non-fatal messages to the user.
	Messages MessageService

	// LayerService registers committed artifacts.
	LayerService LayerService

	// Logger is the host's structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Compile-time interface checks.
var (
	_ LayerService = (*layer.Service)(nil)
	_ LayerLookup  = (*layer.Collection)(nil)
)
