package layer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Datasource is an opaque handle to a geographic dataset. It has a single
// owner at all times: the producing tool until handed to the output
// dispatcher, then the dispatcher until it is either disposed or transferred
// into the live registry.
type Datasource interface {
	// Name returns the dataset's display name.
	Name() string

	// SaveAs persists the dataset to the given path. Returns false on
	// failure; LastError carries the diagnostic.
	SaveAs(path string) bool

	// Dispose releases the in-memory resources of the handle. Disposing
	// twice is a no-op.
	Dispose()

	// LastError returns the diagnostic text of the most recent failure.
	LastError() string
}

// MemoryDatasource is a point-set dataset held entirely in memory. It is the
// artifact type produced by the built-in generator tools; persistence writes
// one "x,y" line per point.
type MemoryDatasource struct {
	mu       sync.Mutex
	name     string
	points   [][2]float64
	disposed bool
	lastErr  string
}

// NewMemoryDatasource creates an empty in-memory point dataset.
func NewMemoryDatasource(name string) *MemoryDatasource {
	return &MemoryDatasource{name: name}
}

// Name returns the dataset's display name.
func (d *MemoryDatasource) Name() string { return d.name }

// AddPoint appends a point to the dataset.
func (d *MemoryDatasource) AddPoint(x, y float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.points = append(d.points, [2]float64{x, y})
}

// NumPoints returns the number of points held.
func (d *MemoryDatasource) NumPoints() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.points)
}

// Points returns a copy of the point set.
func (d *MemoryDatasource) Points() [][2]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][2]float64, len(d.points))
	copy(out, d.points)
	return out
}

// Disposed reports whether the handle has been released.
func (d *MemoryDatasource) Disposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disposed
}

// SaveAs writes the point set to path, one comma-separated coordinate pair
// per line.
func (d *MemoryDatasource) SaveAs(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.disposed {
		d.lastErr = "datasource is disposed"
		return false
	}

	f, err := os.Create(path)
	if err != nil {
		d.lastErr = err.Error()
		return false
	}

	w := bufio.NewWriter(f)
	for _, pt := range d.points {
		fmt.Fprintf(w, "%s,%s\n",
			strconv.FormatFloat(pt[0], 'g', -1, 64),
			strconv.FormatFloat(pt[1], 'g', -1, 64))
	}
	if err := w.Flush(); err != nil {
		d.lastErr = err.Error()
		_ = f.Close()
		return false
	}
	if err := f.Close(); err != nil {
		d.lastErr = err.Error()
		return false
	}
	d.lastErr = ""
	return true
}

// Dispose releases the point set. Safe to call more than once.
func (d *MemoryDatasource) Dispose() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.points = nil
	d.disposed = true
}

// LastError returns the diagnostic of the most recent failed operation.
func (d *MemoryDatasource) LastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// FileDatasource is a dataset that lives on disk; the handle only carries
// the path. Used when a persisted artifact is re-opened into the registry.
type FileDatasource struct {
	path    string
	lastErr string
}

// OpenFile opens a file-backed datasource. The file must exist.
func OpenFile(path string) (*FileDatasource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("layer: open datasource %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("layer: open datasource %q: is a directory", path)
	}
	return &FileDatasource{path: path}, nil
}

// Name returns the base filename without extension.
func (d *FileDatasource) Name() string {
	base := filepath.Base(d.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Path returns the on-disk location of the dataset.
func (d *FileDatasource) Path() string { return d.path }

// SaveAs copies the on-disk dataset to a new path.
func (d *FileDatasource) SaveAs(path string) bool {
	data, err := os.ReadFile(d.path)
	if err != nil {
		d.lastErr = err.Error()
		return false
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		d.lastErr = err.Error()
		return false
	}
	d.lastErr = ""
	return true
}

// Dispose is a no-op; the data lives on disk.
func (d *FileDatasource) Dispose() {}

// LastError returns the diagnostic of the most recent failed operation.
func (d *FileDatasource) LastError() string { return d.lastErr }

// Compile-time interface checks.
var (
	_ Datasource = (*MemoryDatasource)(nil)
	_ Datasource = (*FileDatasource)(nil)
)
