package layer

import (
	"context"
	"log/slog"
	"time"

	"github.com/Geoany/MapWindow5/catalog"
)

// Service is the single mutation path into a layer collection. It registers
// persisted files and in-memory datasources as live layers and optionally
// records each registration in a catalog store.
//
// Registration outcomes are booleans: a false return means the layer was not
// added; the cause is logged, never raised.
type Service struct {
	collection *Collection
	catalog    catalog.Store
	logger     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCatalog records every successful registration in the given store.
func WithCatalog(store catalog.Store) ServiceOption {
	return func(s *Service) { s.catalog = store }
}

// WithLogger sets the service logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a layer service over the given collection.
func NewService(c *Collection, opts ...ServiceOption) *Service {
	s := &Service{collection: c}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// AddLayersFromFilename opens a persisted dataset and registers it as a live
// layer named after the file.
func (s *Service) AddLayersFromFilename(path string) bool {
	ds, err := OpenFile(path)
	if err != nil {
		s.logger.Error("adding layer from file failed", "path", path, "cause", err)
		return false
	}

	l := s.collection.add(ds.Name(), path, ds)
	s.record(l, path, false)
	return true
}

// AddDatasource registers a datasource directly as a live memory layer.
// Ownership of the datasource transfers into the registry on success.
func (s *Service) AddDatasource(ds Datasource) bool {
	if ds == nil {
		s.logger.Error("adding layer failed: nil datasource")
		return false
	}

	l := s.collection.add(ds.Name(), "", ds)
	s.record(l, "", true)
	return true
}

// LastLayerHandle returns the handle of the most recently added layer.
func (s *Service) LastLayerHandle() int {
	return s.collection.LastLayerHandle()
}

// ItemByHandle resolves a layer by handle from the underlying collection.
func (s *Service) ItemByHandle(handle int) *Layer {
	return s.collection.ItemByHandle(handle)
}

// record appends a catalog record for the registration. Catalog failures are
// logged and do not fail the add; the catalog is an audit trail, not the
// registry of record.
func (s *Service) record(l *Layer, path string, memory bool) {
	if s.catalog == nil {
		return
	}
	rec := catalog.Record{
		Handle:  l.Handle(),
		Name:    l.Name(),
		Path:    path,
		Memory:  memory,
		AddedAt: time.Now().UTC(),
	}
	if err := s.catalog.Append(context.Background(), rec); err != nil {
		s.logger.Warn("recording layer registration failed", "handle", l.Handle(), "cause", err)
	}
}
