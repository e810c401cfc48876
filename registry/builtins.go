package registry

import (
	mapwindow "github.com/Geoany/MapWindow5"
	"github.com/Geoany/MapWindow5/tools"
)

// registerBuiltins registers the built-in geoprocessing tool types.
// Called once by Global() during singleton initialization.
func registerBuiltins(r *Registry) {
	r.Register(ToolTypeDef{
		Type:        "random_points",
		Category:    "vector",
		DisplayName: "Random Points",
		Description: "Generate a random point cloud within a square extent",
		New:         func() mapwindow.Tool { return tools.NewRandomPoints() },
	})

	r.Register(ToolTypeDef{
		Type:        "point_grid",
		Category:    "vector",
		DisplayName: "Point Grid",
		Description: "Generate a regular grid of points with a fixed cell size",
		New:         func() mapwindow.Tool { return tools.NewPointGrid() },
	})
}
