// Package mapwindow provides the tool lifecycle for MapWindow geoprocessing
// tools: declarative parameter discovery, validation, execution, and output
// dispatch to disk or the live layer registry.
//
// A Tool declares its parameter slots as a static []ParamSpec table. The
// Controller builds Parameter instances from that table exactly once, runs
// the uniform validation pass, and hands the bound slots to the tool's
// Execute method together with an output Dispatcher.
package mapwindow

import (
	"fmt"
	"math"

	"github.com/Geoany/MapWindow5/layer"
)

// ParameterKind identifies the variant of a tool parameter.
// The set of kinds is fixed; validation and range binding dispatch on it
// rather than on dynamic type checks.
type ParameterKind string

const (
	ParameterKindInt         ParameterKind = "int"
	ParameterKindFloat       ParameterKind = "float"
	ParameterKindString      ParameterKind = "string"
	ParameterKindBool        ParameterKind = "bool"
	ParameterKindLayer       ParameterKind = "layer"
	ParameterKindOutputLayer ParameterKind = "output_layer"
)

// String returns the string representation of the ParameterKind.
func (k ParameterKind) String() string {
	return string(k)
}

// Numeric reports whether the kind carries a numeric value payload and can
// accept a range declaration.
func (k ParameterKind) Numeric() bool {
	return k == ParameterKindInt || k == ParameterKindFloat
}

// Known reports whether the kind is one of the declared variants.
// Unknown kinds cannot be instantiated by the discovery builder.
func (k ParameterKind) Known() bool {
	switch k {
	case ParameterKindInt, ParameterKindFloat, ParameterKindString,
		ParameterKindBool, ParameterKindLayer, ParameterKindOutputLayer:
		return true
	}
	return false
}

// Parameter is one named input/output slot of a tool. Name, Index,
// DisplayName and Required are assigned once at discovery time and never
// mutated afterwards; the value payload is written by the host between
// Initialize and Run.
type Parameter struct {
	name        string
	index       int
	displayName string
	required    bool

	// Kind selects which payload fields below are meaningful.
	Kind ParameterKind

	// Numeric payloads. Min/Max are only bound when the declaration carried
	// a range and the kind is numeric; HasRange reports that.
	IntValue   int64
	IntMin     int64
	IntMax     int64
	FloatValue float64
	FloatMin   float64
	FloatMax   float64

	StringValue string
	BoolValue   bool

	// LayerHandle selects a layer from the bound live collection
	// for layer-kind parameters.
	LayerHandle int

	// Output is the destination descriptor for output-layer parameters.
	Output *OutputLayerInfo

	hasRange   bool
	defaultSet bool
	layers     *layer.Collection
}

// Name returns the slot identifier.
func (p *Parameter) Name() string { return p.name }

// Index returns the declared ordering of the slot.
func (p *Parameter) Index() int { return p.index }

// DisplayName returns the label declared for the slot.
func (p *Parameter) DisplayName() string { return p.displayName }

// Required reports whether the declaration marked the slot as required.
func (p *Parameter) Required() bool { return p.required }

// HasRange reports whether numeric bounds were bound at discovery.
func (p *Parameter) HasRange() bool { return p.hasRange }

// HasDefault reports whether a default value was bound at discovery.
func (p *Parameter) HasDefault() bool { return p.defaultSet }

// BindLayers attaches the live layer collection so layer-kind parameters can
// resolve their selection. Called by the controller during Initialize.
func (p *Parameter) BindLayers(c *layer.Collection) {
	if p.Kind == ParameterKindLayer {
		p.layers = c
	}
}

// SelectedLayer resolves the layer-kind parameter's current selection against
// the bound collection. Returns nil for other kinds or when unbound.
func (p *Parameter) SelectedLayer() *layer.Layer {
	if p.Kind != ParameterKindLayer || p.layers == nil {
		return nil
	}
	return p.layers.ItemByHandle(p.LayerHandle)
}

// SetValue assigns the current value from an untyped source, coercing it to
// the parameter's kind. Used by the job loader and hosts that bind values
// from configuration rather than code.
func (p *Parameter) SetValue(v any) error {
	switch p.Kind {
	case ParameterKindInt:
		n, ok := toInt64(v)
		if !ok {
			return fmt.Errorf("parameter %q: cannot use %T as int", p.name, v)
		}
		p.IntValue = n
	case ParameterKindFloat:
		f, ok := toFloat64(v)
		if !ok {
			return fmt.Errorf("parameter %q: cannot use %T as float", p.name, v)
		}
		p.FloatValue = f
	case ParameterKindString:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("parameter %q: cannot use %T as string", p.name, v)
		}
		p.StringValue = s
	case ParameterKindBool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("parameter %q: cannot use %T as bool", p.name, v)
		}
		p.BoolValue = b
	case ParameterKindLayer:
		n, ok := toInt64(v)
		if !ok {
			return fmt.Errorf("parameter %q: cannot use %T as layer handle", p.name, v)
		}
		p.LayerHandle = int(n)
	case ParameterKindOutputLayer:
		info, ok := v.(OutputLayerInfo)
		if !ok {
			return fmt.Errorf("parameter %q: cannot use %T as output layer info", p.name, v)
		}
		p.Output = &info
	default:
		return fmt.Errorf("parameter %q: unknown kind %q", p.name, p.Kind)
	}
	return nil
}

// SetDefault binds a declared default value onto the parameter. The default
// becomes the current value until the host overwrites it.
func (p *Parameter) SetDefault(v any) error {
	if err := p.SetValue(v); err != nil {
		return err
	}
	p.defaultSet = true
	return nil
}

// Validate checks the current value against the variant's constraints and
// returns a boolean outcome with a human-readable message on failure.
//
// Numeric kinds are checked against their bound range; output-layer kinds
// delegate to the destination descriptor. All other kinds are always valid:
// layer selections are resolved by the host, and string/bool values carry no
// constraints of their own.
func (p *Parameter) Validate() (bool, string) {
	switch p.Kind {
	case ParameterKindInt:
		if p.hasRange && (p.IntValue < p.IntMin || p.IntValue > p.IntMax) {
			return false, fmt.Sprintf("%s must be between %d and %d; got %d",
				p.label(), p.IntMin, p.IntMax, p.IntValue)
		}
	case ParameterKindFloat:
		if p.hasRange && (p.FloatValue < p.FloatMin || p.FloatValue > p.FloatMax) {
			return false, fmt.Sprintf("%s must be between %v and %v; got %v",
				p.label(), p.FloatMin, p.FloatMax, p.FloatValue)
		}
	case ParameterKindOutputLayer:
		if p.Output == nil {
			return false, fmt.Sprintf("%s: no output destination is set", p.label())
		}
		return p.Output.Validate()
	}
	return true, ""
}

func (p *Parameter) label() string {
	if p.displayName != "" {
		return p.displayName
	}
	return p.name
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
