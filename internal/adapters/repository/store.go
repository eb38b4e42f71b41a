// Package repository holds the guard directory: an insertion-ordered,
// concurrency-safe collection of guard profiles with an optional durable
// backend.
package repository

import (
	"context"

	"github.com/protecthire/protecthire/internal/domain/guard"
)

// Directory provides read/write access to guard profiles.
type Directory interface {
	// Add appends a profile. It returns ErrDuplicateID when the id is taken
	// and an error wrapping ErrPersist when the backend rejects the snapshot.
	Add(ctx context.Context, p guard.Profile) error

	// Search returns every profile matching c in insertion order.
	Search(ctx context.Context, c guard.Criteria) []guard.Profile

	// Get returns the profile with id or ErrNotFound.
	Get(ctx context.Context, id string) (guard.Profile, error)

	// Count returns the number of profiles.
	Count(ctx context.Context) int

	// All returns every profile in insertion order.
	All(ctx context.Context) []guard.Profile
}

// Backend persists whole-directory snapshots.
type Backend interface {
	// Load returns the stored profiles in insertion order.
	Load(ctx context.Context) ([]guard.Profile, error)
	// Save stores every profile of the snapshot. Ids already stored are
	// updated in place and keep their position.
	Save(ctx context.Context, profiles []guard.Profile) error
	// Name identifies the backend in logs and metrics.
	Name() string
	Close() error
}
