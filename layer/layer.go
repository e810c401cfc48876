// Package layer implements the live layer registry backing a map session:
// the layer collection, datasource handles, and the layer service that is
// the single mutation path into the collection.
package layer

import "sync"

// Layer is a named, displayable entry in the live registry, backed by a
// Datasource. The display name is the only mutable field.
type Layer struct {
	mu       sync.RWMutex
	handle   int
	name     string
	filename string
	source   Datasource
}

// Handle returns the registry handle assigned at registration time.
func (l *Layer) Handle() int { return l.handle }

// Name returns the current display name.
func (l *Layer) Name() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.name
}

// SetName updates the display name.
func (l *Layer) SetName(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.name = name
}

// Filename returns the source path for file-backed layers, empty for
// memory layers.
func (l *Layer) Filename() string { return l.filename }

// Source returns the backing datasource. May be nil for file-backed layers
// whose data stays on disk.
func (l *Layer) Source() Datasource { return l.source }

// Collection is the live layer collection of a map session. It is mutated
// only through the Service; readers resolve layers by handle.
type Collection struct {
	mu         sync.RWMutex
	layers     []*Layer
	byHandle   map[int]*Layer
	nextHandle int
	lastHandle int
}

// NewCollection creates an empty layer collection. Handles start at 1;
// 0 is never a valid handle.
func NewCollection() *Collection {
	return &Collection{
		byHandle:   make(map[int]*Layer),
		nextHandle: 1,
	}
}

// ItemByHandle resolves a layer by its handle, or nil if absent.
func (c *Collection) ItemByHandle(handle int) *Layer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byHandle[handle]
}

// LastLayerHandle returns the handle of the most recently added layer,
// or 0 if the collection is empty.
func (c *Collection) LastLayerHandle() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastHandle
}

// Len returns the number of layers in the collection.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.layers)
}

// All returns the layers in registration order.
func (c *Collection) All() []*Layer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Layer, len(c.layers))
	copy(out, c.layers)
	return out
}

func (c *Collection) add(name, filename string, source Datasource) *Layer {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := &Layer{
		handle:   c.nextHandle,
		name:     name,
		filename: filename,
		source:   source,
	}
	c.nextHandle++
	c.lastHandle = l.handle
	c.layers = append(c.layers, l)
	c.byHandle[l.handle] = l
	return l
}
