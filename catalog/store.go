// Package catalog persists a durable record of layer registrations: every
// layer the service adds to a map session is appended here, so sessions can
// be audited or rebuilt after the fact.
package catalog

import (
	"context"
	"time"
)

// Record describes one layer registration.
type Record struct {
	// Handle is the registry handle the layer received.
	Handle int

	// Name is the layer's display name at registration time.
	Name string

	// Path is the on-disk source for file-backed layers, empty for
	// memory layers.
	Path string

	// Memory marks layers registered without durable persistence.
	Memory bool

	// AddedAt is when the registration happened.
	AddedAt time.Time
}

// Store persists layer registration records.
type Store interface {
	// Append stores one registration record.
	Append(ctx context.Context, rec Record) error

	// List returns all records in insertion order.
	List(ctx context.Context) ([]Record, error)

	// Close releases store resources.
	Close() error
}
