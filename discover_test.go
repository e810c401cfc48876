package mapwindow

import "testing"

func TestBuildParameters(t *testing.T) {
	t.Run("declaration order preserved", func(t *testing.T) {
		params, bySlot := BuildParameters([]ParamSpec{
			{Slot: "b", Kind: ParameterKindInt, Index: 1},
			{Slot: "a", Kind: ParameterKindString, Index: 0},
			{Slot: "c", Kind: ParameterKindBool, Index: 2},
		})
		if len(params) != 3 {
			t.Fatalf("expected 3 parameters, got %d", len(params))
		}
		for i, want := range []string{"b", "a", "c"} {
			if params[i].Name() != want {
				t.Errorf("position %d: expected %q, got %q", i, want, params[i].Name())
			}
		}
		if bySlot["a"] != params[1] {
			t.Error("expected slot map to hold the same instances as the sequence")
		}
	})

	t.Run("metadata carried onto the instance", func(t *testing.T) {
		params, _ := BuildParameters([]ParamSpec{
			{Slot: "count", Kind: ParameterKindInt, Index: 4, DisplayName: "Point count", Required: true},
		})
		p := params[0]
		if p.Index() != 4 {
			t.Errorf("expected index 4, got %d", p.Index())
		}
		if p.DisplayName() != "Point count" {
			t.Errorf("expected display name, got %q", p.DisplayName())
		}
		if !p.Required() {
			t.Error("expected required")
		}
	})

	t.Run("int range truncates declared bounds", func(t *testing.T) {
		params, _ := BuildParameters([]ParamSpec{
			{Slot: "count", Kind: ParameterKindInt, Range: &RangeSpec{Min: 1, Max: 100}},
		})
		p := params[0]
		if !p.HasRange() {
			t.Fatal("expected bound range")
		}
		if p.IntMin != 1 || p.IntMax != 100 {
			t.Errorf("expected [1, 100], got [%d, %d]", p.IntMin, p.IntMax)
		}
	})

	t.Run("int range truncates fractional bounds", func(t *testing.T) {
		params, _ := BuildParameters([]ParamSpec{
			{Slot: "count", Kind: ParameterKindInt, Range: &RangeSpec{Min: 0.9, Max: 99.9}},
		})
		p := params[0]
		if p.IntMin != 0 || p.IntMax != 99 {
			t.Errorf("expected truncation to [0, 99], got [%d, %d]", p.IntMin, p.IntMax)
		}
	})

	t.Run("float range preserves precision", func(t *testing.T) {
		params, _ := BuildParameters([]ParamSpec{
			{Slot: "cell", Kind: ParameterKindFloat, Range: &RangeSpec{Min: 0.001, Max: 2.5}},
		})
		p := params[0]
		if p.FloatMin != 0.001 || p.FloatMax != 2.5 {
			t.Errorf("expected [0.001, 2.5], got [%v, %v]", p.FloatMin, p.FloatMax)
		}
	})

	t.Run("range on non-numeric kind is ignored", func(t *testing.T) {
		params, _ := BuildParameters([]ParamSpec{
			{Slot: "label", Kind: ParameterKindString, Range: &RangeSpec{Min: 1, Max: 5}},
		})
		if params[0].HasRange() {
			t.Error("expected range on a string slot to be dropped")
		}
	})

	t.Run("default becomes the current value", func(t *testing.T) {
		params, _ := BuildParameters([]ParamSpec{
			{Slot: "count", Kind: ParameterKindInt, Default: 100},
		})
		p := params[0]
		if !p.HasDefault() {
			t.Fatal("expected bound default")
		}
		if p.IntValue != 100 {
			t.Errorf("expected 100, got %d", p.IntValue)
		}
	})

	t.Run("unbuildable slots are skipped", func(t *testing.T) {
		params, bySlot := BuildParameters([]ParamSpec{
			{Slot: "", Kind: ParameterKindInt},
			{Slot: "bad_kind", Kind: ParameterKind("geometry")},
			{Slot: "bad_default", Kind: ParameterKindInt, Default: "not a number"},
			{Slot: "ok", Kind: ParameterKindInt},
		})
		if len(params) != 1 {
			t.Fatalf("expected 1 surviving parameter, got %d", len(params))
		}
		if params[0].Name() != "ok" {
			t.Errorf("expected 'ok', got %q", params[0].Name())
		}
		if _, present := bySlot["bad_kind"]; present {
			t.Error("expected skipped slot to be absent from the map")
		}
	})
}
