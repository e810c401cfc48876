package mapwindow

// RangeSpec declares numeric bounds for a parameter slot. The declared range
// is projected onto the instantiated parameter using its concrete numeric
// subtype: int slots truncate, float slots preserve precision.
type RangeSpec struct {
	Min float64
	Max float64
}

// ParamSpec is one entry of a tool's declarative parameter table. Tools
// return their full table from Parameters(); the builder turns it into
// Parameter instances exactly once per controller.
type ParamSpec struct {
	// Slot is the identifier the tool uses to read the bound parameter
	// back out of the run context.
	Slot string

	// Kind selects the parameter variant to instantiate.
	Kind ParameterKind

	// Index is the declared ordering of the slot.
	Index int

	// DisplayName is the label shown to users.
	DisplayName string

	// Required marks the slot as required rather than merely present.
	Required bool

	// Range declares numeric bounds. Ignored for non-numeric kinds.
	Range *RangeSpec

	// Default is bound onto the parameter via SetDefault. Must be
	// coercible to the slot's kind.
	Default any
}

// BuildParameters instantiates Parameter objects from a declarative table.
// It returns the instances in declaration order (not Index-sorted) together
// with a slot-name lookup map.
//
// A slot that cannot be instantiated (empty slot name, unknown kind, or a
// default value that cannot be coerced) is skipped without producing a
// parameter. That is a tool-authoring defect, not a runtime condition to
// surface to end users.
func BuildParameters(specs []ParamSpec) ([]*Parameter, map[string]*Parameter) {
	params := make([]*Parameter, 0, len(specs))
	bySlot := make(map[string]*Parameter, len(specs))

	for _, spec := range specs {
		p, ok := buildParameter(spec)
		if !ok {
			continue
		}
		params = append(params, p)
		bySlot[p.name] = p
	}
	return params, bySlot
}

func buildParameter(spec ParamSpec) (*Parameter, bool) {
	if spec.Slot == "" || !spec.Kind.Known() {
		return nil, false
	}

	p := &Parameter{
		name:        spec.Slot,
		index:       spec.Index,
		displayName: spec.DisplayName,
		required:    spec.Required,
		Kind:        spec.Kind,
	}

	// Range metadata on a non-numeric kind is silently ignored.
	if spec.Range != nil && spec.Kind.Numeric() {
		switch spec.Kind {
		case ParameterKindInt:
			p.IntMin = int64(spec.Range.Min)
			p.IntMax = int64(spec.Range.Max)
		case ParameterKindFloat:
			p.FloatMin = spec.Range.Min
			p.FloatMax = spec.Range.Max
		}
		p.hasRange = true
	}

	if spec.Default != nil {
		if err := p.SetDefault(spec.Default); err != nil {
			return nil, false
		}
	}
	return p, true
}
