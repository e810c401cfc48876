package mapwindow

import (
	"context"
	"log/slog"
)

// PluginIdentity names the plugin a tool originates from.
type PluginIdentity struct {
	Name    string
	Version string
}

// ToolInfo carries a tool's display metadata and origin.
type ToolInfo struct {
	Name        string
	Description string
	Plugin      PluginIdentity
}

// Tool is a unit of geoprocessing with declared parameters and an Execute
// entry point. Implementations declare their parameter slots as a static
// table; the Controller binds values and drives the lifecycle.
type Tool interface {
	// Info returns the tool's identity.
	Info() ToolInfo

	// Parameters returns the declarative parameter table. The table is
	// consumed once per controller; its declaration order becomes the
	// parameter sequence order.
	Parameters() []ParamSpec

	// Execute runs the tool's processing logic against the bound
	// parameters, typically ending by committing its artifact through
	// run.Output. Returns false for ordinary data-processing failures;
	// it never panics for them.
	Execute(ctx context.Context, run *Run) bool
}

// Run is the per-execution context handed to Tool.Execute. It exposes the
// bound parameter slots, the output dispatcher, and the services resolved
// at Initialize time.
type Run struct {
	// ID is the unique identifier of this run.
	ID string

	// Params maps slot identifiers to their bound parameters.
	Params map[string]*Parameter

	// Output commits the produced artifact.
	Output *Dispatcher

	// Layers is the layer service of the hosting map session.
	Layers LayerService

	// Messages presents non-fatal messages to the user.
	Messages MessageService

	// Logger is the run-scoped structured logger.
	Logger *slog.Logger
}

// Param returns the bound parameter for a slot, or nil if the slot was not
// discovered.
func (r *Run) Param(slot string) *Parameter {
	return r.Params[slot]
}
