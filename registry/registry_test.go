package registry

import (
	"testing"

	mapwindow "github.com/Geoany/MapWindow5"
)

func TestGlobal(t *testing.T) {
	t.Run("returns the same instance", func(t *testing.T) {
		if Global() != Global() {
			t.Error("expected singleton")
		}
	})

	t.Run("builtins are registered", func(t *testing.T) {
		r := Global()
		for _, name := range []string{"random_points", "point_grid"} {
			if !r.Has(name) {
				t.Errorf("expected builtin %q to be registered", name)
			}
		}
	})
}

func TestRegistry_Register(t *testing.T) {
	r := newRegistry()
	r.Register(ToolTypeDef{Type: "b", Category: "vector"})
	r.Register(ToolTypeDef{Type: "a", Category: "vector"})

	t.Run("lookup", func(t *testing.T) {
		def, ok := r.Get("a")
		if !ok {
			t.Fatal("expected type 'a'")
		}
		if def.Category != "vector" {
			t.Errorf("expected category vector, got %q", def.Category)
		}
		if _, ok := r.Get("missing"); ok {
			t.Error("expected lookup miss")
		}
	})

	t.Run("registration order", func(t *testing.T) {
		all := r.All()
		if len(all) != 2 {
			t.Fatalf("expected 2 types, got %d", len(all))
		}
		if all[0].Type != "b" || all[1].Type != "a" {
			t.Errorf("expected registration order [b a], got [%s %s]", all[0].Type, all[1].Type)
		}
	})

	t.Run("re-registration overwrites in place", func(t *testing.T) {
		r.Register(ToolTypeDef{Type: "b", Category: "raster"})
		if r.Len() != 2 {
			t.Errorf("expected 2 types, got %d", r.Len())
		}
		def, _ := r.Get("b")
		if def.Category != "raster" {
			t.Errorf("expected overwritten category, got %q", def.Category)
		}
		if all := r.All(); all[0].Type != "b" {
			t.Error("expected overwritten type to keep its position")
		}
	})
}

func TestRegistry_New(t *testing.T) {
	t.Run("fresh instance per call", func(t *testing.T) {
		r := Global()
		first, ok := r.New("random_points")
		if !ok {
			t.Fatal("expected constructor")
		}
		second, _ := r.New("random_points")
		if first == second {
			t.Error("expected distinct instances")
		}
		if first.Info().Name != "random_points" {
			t.Errorf("expected random_points, got %q", first.Info().Name)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, ok := Global().New("missing"); ok {
			t.Error("expected miss for unknown type")
		}
	})

	t.Run("nil constructor", func(t *testing.T) {
		r := newRegistry()
		r.Register(ToolTypeDef{Type: "broken", New: nil})
		if _, ok := r.New("broken"); ok {
			t.Error("expected miss for nil constructor")
		}
	})
}

func TestBuiltinParameterTables(t *testing.T) {
	for _, def := range Global().All() {
		t.Run(def.Type, func(t *testing.T) {
			tool, ok := Global().New(def.Type)
			if !ok {
				t.Fatal("expected constructor")
			}
			params, bySlot := mapwindow.BuildParameters(tool.Parameters())
			if len(params) == 0 {
				t.Fatal("expected declared parameters")
			}
			if len(params) != len(tool.Parameters()) {
				t.Errorf("expected every declared slot to build, got %d of %d",
					len(params), len(tool.Parameters()))
			}
			if _, ok := bySlot["output"]; !ok {
				t.Error("expected an output slot")
			}
		})
	}
}
