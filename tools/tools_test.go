package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mapwindow "github.com/Geoany/MapWindow5"
	"github.com/Geoany/MapWindow5/layer"
)

type session struct {
	collection *layer.Collection
	ctrl       *mapwindow.Controller
}

func newSession(t *testing.T, tool mapwindow.Tool) *session {
	t.Helper()
	collection := layer.NewCollection()
	ctrl := mapwindow.NewController(tool)
	err := ctrl.Initialize(&mapwindow.ToolContext{
		Layers:       collection,
		LayerService: layer.NewService(collection),
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return &session{collection: collection, ctrl: ctrl}
}

func (s *session) set(t *testing.T, slot string, value any) {
	t.Helper()
	p := s.ctrl.Parameter(slot)
	if p == nil {
		t.Fatalf("no parameter %q", slot)
	}
	if err := p.SetValue(value); err != nil {
		t.Fatalf("SetValue(%s): %v", slot, err)
	}
}

func (s *session) run(t *testing.T) bool {
	t.Helper()
	if !s.ctrl.Validate() {
		t.Fatal("expected parameters to validate")
	}
	ok, err := s.ctrl.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return ok
}

func (s *session) lastMemorySource(t *testing.T) *layer.MemoryDatasource {
	t.Helper()
	lyr := s.collection.ItemByHandle(s.collection.LastLayerHandle())
	if lyr == nil {
		t.Fatal("expected a registered layer")
	}
	ds, ok := lyr.Source().(*layer.MemoryDatasource)
	if !ok {
		t.Fatalf("expected memory datasource, got %T", lyr.Source())
	}
	return ds
}

func TestRandomPoints(t *testing.T) {
	t.Run("memory commit", func(t *testing.T) {
		s := newSession(t, NewRandomPoints())
		s.set(t, "count", 50)
		s.set(t, "seed", 42)
		s.set(t, "output", mapwindow.OutputLayerInfo{
			Name: "Random points", MemoryLayer: true, AddToMap: true,
		})

		if !s.run(t) {
			t.Fatal("expected successful run")
		}
		if s.collection.Len() != 1 {
			t.Fatalf("expected 1 layer on the map, got %d", s.collection.Len())
		}
		ds := s.lastMemorySource(t)
		if ds.NumPoints() != 50 {
			t.Errorf("expected 50 points, got %d", ds.NumPoints())
		}
	})

	t.Run("seed makes the cloud reproducible", func(t *testing.T) {
		generate := func() [][2]float64 {
			s := newSession(t, NewRandomPoints())
			s.set(t, "count", 10)
			s.set(t, "seed", 7)
			s.set(t, "extent", 100.0)
			s.set(t, "output", mapwindow.OutputLayerInfo{
				Name: "pts", MemoryLayer: true, AddToMap: true,
			})
			if !s.run(t) {
				t.Fatal("expected successful run")
			}
			return s.lastMemorySource(t).Points()
		}

		first := generate()
		second := generate()
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("point %d differs: %v vs %v", i, first[i], second[i])
			}
		}
	})

	t.Run("points stay within the extent", func(t *testing.T) {
		s := newSession(t, NewRandomPoints())
		s.set(t, "count", 100)
		s.set(t, "seed", 3)
		s.set(t, "extent", 10.0)
		s.set(t, "output", mapwindow.OutputLayerInfo{
			Name: "pts", MemoryLayer: true, AddToMap: true,
		})
		if !s.run(t) {
			t.Fatal("expected successful run")
		}
		for _, pt := range s.lastMemorySource(t).Points() {
			if pt[0] < 0 || pt[0] >= 10 || pt[1] < 0 || pt[1] >= 10 {
				t.Fatalf("point %v outside extent", pt)
			}
		}
	})

	t.Run("count out of range fails validation", func(t *testing.T) {
		s := newSession(t, NewRandomPoints())
		s.set(t, "count", 0)
		s.set(t, "output", mapwindow.OutputLayerInfo{
			Name: "pts", MemoryLayer: true, AddToMap: true,
		})
		if s.ctrl.Validate() {
			t.Error("expected validation failure for count 0")
		}
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		s := newSession(t, NewRandomPoints())
		s.set(t, "output", mapwindow.OutputLayerInfo{
			Name: "pts", MemoryLayer: true, AddToMap: true,
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ok, err := s.ctrl.Run(ctx)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if ok {
			t.Error("expected aborted run")
		}
		if s.collection.Len() != 0 {
			t.Error("expected nothing on the map")
		}
	})
}

func TestPointGrid(t *testing.T) {
	t.Run("grid geometry", func(t *testing.T) {
		s := newSession(t, NewPointGrid())
		s.set(t, "rows", 3)
		s.set(t, "cols", 4)
		s.set(t, "cell_size", 2.5)
		s.set(t, "origin_x", 10.0)
		s.set(t, "origin_y", -5.0)
		s.set(t, "output", mapwindow.OutputLayerInfo{
			Name: "grid", MemoryLayer: true, AddToMap: true,
		})

		if !s.run(t) {
			t.Fatal("expected successful run")
		}
		pts := s.lastMemorySource(t).Points()
		if len(pts) != 12 {
			t.Fatalf("expected 12 points, got %d", len(pts))
		}
		if pts[0] != [2]float64{10, -5} {
			t.Errorf("expected origin point (10,-5), got %v", pts[0])
		}
		// Last point of the first row, then last point overall.
		if pts[3] != [2]float64{17.5, -5} {
			t.Errorf("expected (17.5,-5), got %v", pts[3])
		}
		if pts[11] != [2]float64{17.5, 0} {
			t.Errorf("expected (17.5,0), got %v", pts[11])
		}
	})

	t.Run("disk commit", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "grid.csv")

		s := newSession(t, NewPointGrid())
		s.set(t, "rows", 2)
		s.set(t, "cols", 3)
		s.set(t, "output", mapwindow.OutputLayerInfo{Name: path})

		if !s.run(t) {
			t.Fatal("expected successful run")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected output file: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 6 {
			t.Errorf("expected 6 lines, got %d", len(lines))
		}
		if lines[0] != "0,0" {
			t.Errorf("expected first point '0,0', got %q", lines[0])
		}
		if s.collection.Len() != 0 {
			t.Error("expected no map registration without AddToMap")
		}
	})

	t.Run("disk commit with map registration", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "grid.csv")

		s := newSession(t, NewPointGrid())
		s.set(t, "output", mapwindow.OutputLayerInfo{Name: path, AddToMap: true})

		if !s.run(t) {
			t.Fatal("expected successful run")
		}
		lyr := s.collection.ItemByHandle(s.collection.LastLayerHandle())
		if lyr == nil {
			t.Fatal("expected a registered layer")
		}
		if lyr.Name() != "grid" {
			t.Errorf("expected layer named 'grid', got %q", lyr.Name())
		}
		if lyr.Filename() != path {
			t.Errorf("expected filename %q, got %q", path, lyr.Filename())
		}
	})
}
