package mapwindow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputLayerInfo describes the destination of a produced data artifact.
// It is treated as immutable once handed to the Dispatcher.
type OutputLayerInfo struct {
	// Name is the target path for disk outputs or the display name for
	// memory layers.
	Name string

	// MemoryLayer selects the in-memory registry path instead of disk.
	MemoryLayer bool

	// Overwrite allows replacing an existing file on the disk path.
	Overwrite bool

	// AddToMap registers the committed artifact with the layer service.
	AddToMap bool
}

// Validate checks that the descriptor names a usable destination.
// For disk outputs the parent directory must exist; memory layers only
// need a non-empty display name.
func (o OutputLayerInfo) Validate() (bool, string) {
	name := strings.TrimSpace(o.Name)
	if name == "" {
		return false, "output name is empty"
	}
	if o.MemoryLayer {
		return true, ""
	}
	dir := filepath.Dir(name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false, fmt.Sprintf("output location %q does not exist", dir)
	}
	return true, ""
}

// DisplayName returns the layer name to apply after registration: the base
// filename without extension for disk outputs, the name as-is for memory
// layers.
func (o OutputLayerInfo) DisplayName() string {
	if o.MemoryLayer {
		return o.Name
	}
	base := filepath.Base(o.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
