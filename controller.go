package mapwindow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrNilContext is returned by Initialize when no tool context is supplied.
// A missing context is a host configuration defect, not a data condition.
var ErrNilContext = errors.New("mapwindow: tool context is required")

// ErrNotInitialized is returned by Run when Initialize has not been called.
var ErrNotInitialized = errors.New("mapwindow: tool is not initialized")

// Controller drives a tool through its lifecycle:
// Initialize → Validate → Run. It builds the tool's parameter sequence from
// the declarative table exactly once and caches the instances for the
// controller's lifetime.
//
// A controller is bound to a single tool instance and is not safe for
// concurrent use; the lifecycle is synchronous and cooperative with the
// host's execution thread.
type Controller struct {
	tool   Tool
	logger *slog.Logger
	emit   EventHandler

	tc         *ToolContext
	messages   MessageService
	layerSvc   LayerService
	dispatcher *Dispatcher

	params      []*Parameter
	bySlot      map[string]*Parameter
	discovered  bool
	initialized bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the controller logger. Defaults to the context's logger,
// then slog.Default().
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = logger }
}

// WithEventHandler subscribes a handler to the controller's lifecycle events.
func WithEventHandler(emit EventHandler) ControllerOption {
	return func(c *Controller) { c.emit = emit }
}

// NewController creates an uninitialized controller for the given tool.
func NewController(tool Tool, opts ...ControllerOption) *Controller {
	c := &Controller{tool: tool}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tool returns the wrapped tool.
func (c *Controller) Tool() Tool {
	return c.tool
}

// Parameters returns the tool's parameter sequence in declaration order.
// Discovery runs on first access and is memoized: repeated calls return the
// same instances.
func (c *Controller) Parameters() []*Parameter {
	c.discover()
	return c.params
}

// Parameter returns the bound parameter for a slot, or nil if the slot was
// not discovered. Triggers discovery on first access.
func (c *Controller) Parameter(slot string) *Parameter {
	c.discover()
	return c.bySlot[slot]
}

func (c *Controller) discover() {
	if c.discovered {
		return
	}
	c.params, c.bySlot = BuildParameters(c.tool.Parameters())
	c.discovered = true

	if c.emit != nil {
		c.emit(NewEvent(EventParamsDiscovered, "", c.tool.Info().Name).
			WithPayload("count", len(c.params)))
	}
}

// Initialize binds the tool context: it resolves the message and layer
// services, and attaches the live layer collection to every layer-kind
// parameter so selections can be resolved. Must be called exactly once per
// controller; calling it again re-resolves services and re-binds parameters.
func (c *Controller) Initialize(tc *ToolContext) error {
	if tc == nil {
		return ErrNilContext
	}
	c.tc = tc

	c.messages = tc.Messages
	if c.messages == nil {
		c.messages = NopMessages
	}
	c.layerSvc = tc.LayerService

	if c.logger == nil {
		c.logger = tc.Logger
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	for _, p := range c.Parameters() {
		p.BindLayers(tc.Layers)
	}

	c.dispatcher = NewDispatcher(tc.LayerService, tc.Layers,
		WithDispatcherLogger(c.logger),
		WithDispatcherEvents(c.emit),
	)

	c.initialized = true
	return nil
}

// Validate runs each parameter's own validation in sequence order and stops
// at the first failure, reporting its message to the message service.
// Returns true only if every checked parameter passed. With unchanged
// parameter values, repeated calls yield the same outcome.
func (c *Controller) Validate() bool {
	for _, p := range c.Parameters() {
		ok, msg := p.Validate()
		if ok {
			continue
		}
		if c.messages != nil {
			c.messages.Info(msg)
		}
		if c.emit != nil {
			c.emit(NewEvent(EventValidationFailed, "", c.tool.Info().Name).
				WithPayload("slot", p.Name()).
				WithPayload("message", msg))
		}
		return false
	}
	return true
}

// Run executes the tool. The boolean reports the processing outcome; the
// error is reserved for environmental failures such as running before
// Initialize.
func (c *Controller) Run(ctx context.Context) (bool, error) {
	if !c.initialized {
		return false, ErrNotInitialized
	}

	info := c.tool.Info()
	runID := uuid.NewString()
	start := time.Now()

	if c.emit != nil {
		c.emit(NewEvent(EventRunStarted, runID, info.Name))
	}

	run := &Run{
		ID:       runID,
		Params:   c.bySlot,
		Output:   c.dispatcher.forRun(runID, info.Name),
		Layers:   c.layerSvc,
		Messages: c.messages,
		Logger:   c.logger.With("tool", info.Name, "run_id", runID),
	}

	ok := c.tool.Execute(ctx, run)

	if c.emit != nil {
		kind := EventRunFinished
		if !ok {
			kind = EventRunFailed
		}
		c.emit(NewEvent(kind, runID, info.Name).
			WithElapsed(time.Since(start)).
			WithPayload("success", ok))
	}
	return ok, nil
}
