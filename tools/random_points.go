// Package tools contains the built-in geoprocessing tools shipped with the
// framework. Each tool declares its parameter slots as a static table and
// commits its artifact through the output dispatcher.
package tools

import (
	"context"
	"math/rand"
	"time"

	mapwindow "github.com/Geoany/MapWindow5"
	"github.com/Geoany/MapWindow5/layer"
)

// corePlugin identifies the built-in tool plugin.
var corePlugin = mapwindow.PluginIdentity{
	Name:    "core-tools",
	Version: "1.0",
}

// RandomPoints generates a random point cloud within a square extent.
type RandomPoints struct{}

// NewRandomPoints creates a random-points tool instance.
func NewRandomPoints() *RandomPoints {
	return &RandomPoints{}
}

// Info returns the tool's identity.
func (t *RandomPoints) Info() mapwindow.ToolInfo {
	return mapwindow.ToolInfo{
		Name:        "random_points",
		Description: "Generate a random point cloud within a square extent",
		Plugin:      corePlugin,
	}
}

// Parameters declares the tool's slots.
func (t *RandomPoints) Parameters() []mapwindow.ParamSpec {
	return []mapwindow.ParamSpec{
		{
			Slot:        "count",
			Kind:        mapwindow.ParameterKindInt,
			Index:       0,
			DisplayName: "Number of points",
			Required:    true,
			Range:       &mapwindow.RangeSpec{Min: 1, Max: 1_000_000},
			Default:     100,
		},
		{
			Slot:        "seed",
			Kind:        mapwindow.ParameterKindInt,
			Index:       1,
			DisplayName: "Random seed (0 = time-based)",
			Default:     0,
		},
		{
			Slot:        "extent",
			Kind:        mapwindow.ParameterKindFloat,
			Index:       2,
			DisplayName: "Extent size",
			Range:       &mapwindow.RangeSpec{Min: 0.001, Max: 1e7},
			Default:     1000.0,
		},
		{
			Slot:        "output",
			Kind:        mapwindow.ParameterKindOutputLayer,
			Index:       3,
			DisplayName: "Output layer",
			Required:    true,
		},
	}
}

// Execute generates the point cloud and commits it.
func (t *RandomPoints) Execute(ctx context.Context, run *mapwindow.Run) bool {
	out := run.Param("output")
	if out == nil || out.Output == nil {
		run.Logger.Error("no output destination bound")
		return false
	}

	count := run.Param("count").IntValue
	extent := run.Param("extent").FloatValue
	seed := run.Param("seed").IntValue
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	ds := layer.NewMemoryDatasource(out.Output.DisplayName())
	for i := int64(0); i < count; i++ {
		if ctx.Err() != nil {
			ds.Dispose()
			return false
		}
		ds.AddPoint(rng.Float64()*extent, rng.Float64()*extent)
	}

	run.Logger.Info("generated random points", "count", count, "extent", extent)
	return run.Output.HandleOutput(ds, *out.Output)
}

// Compile-time interface check.
var _ mapwindow.Tool = (*RandomPoints)(nil)
