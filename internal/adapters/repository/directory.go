package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/protecthire/protecthire/internal/domain/guard"
	"github.com/protecthire/protecthire/pkg/logger"
	"github.com/protecthire/protecthire/pkg/metrics"
)

const defaultSaveTimeout = 5 * time.Second

// MemoryDirectory keeps profiles in insertion order behind a RWMutex.
// Readers share the lock; Add holds it exclusively across the backend save
// so a search never observes a profile that failed to persist.
type MemoryDirectory struct {
	mu       sync.RWMutex
	profiles []guard.Profile
	byID     map[string]int

	backend     Backend
	saveTimeout time.Duration
	log         logger.Logger
}

var _ Directory = (*MemoryDirectory)(nil)

// NewMemoryDirectory constructs an empty directory.
func NewMemoryDirectory(opts ...Option) *MemoryDirectory {
	d := &MemoryDirectory{
		byID:        make(map[string]int),
		saveTimeout: defaultSaveTimeout,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load replaces the in-memory contents with the backend snapshot. Profiles
// whose id was already seen are skipped. Without a backend Load is a no-op.
func (d *MemoryDirectory) Load(ctx context.Context) error {
	if d.backend == nil {
		return nil
	}
	loaded, err := d.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load from %s: %w", d.backend.Name(), err)
	}

	profiles := make([]guard.Profile, 0, len(loaded))
	byID := make(map[string]int, len(loaded))
	for _, p := range loaded {
		if _, dup := byID[p.ID]; dup {
			d.log.Warn(ctx, "skipping duplicate stored profile", logger.String("guard_id", p.ID))
			continue
		}
		byID[p.ID] = len(profiles)
		profiles = append(profiles, p)
	}

	d.mu.Lock()
	d.profiles = profiles
	d.byID = byID
	d.mu.Unlock()

	metrics.UpdateDirectorySize(len(profiles))
	d.log.Info(ctx, "directory loaded",
		logger.String("backend", d.backend.Name()),
		logger.Int("profiles", len(profiles)))
	return nil
}

// Add implements Directory.Add.
func (d *MemoryDirectory) Add(ctx context.Context, p guard.Profile) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, dup := d.byID[p.ID]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}

	next := append(d.profiles[:len(d.profiles):len(d.profiles)], p.Clone())
	if d.backend != nil {
		if err := d.save(ctx, next); err != nil {
			return err
		}
	}

	d.profiles = next
	d.byID[p.ID] = len(next) - 1
	metrics.UpdateDirectorySize(len(next))
	return nil
}

func (d *MemoryDirectory) save(ctx context.Context, snapshot []guard.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, d.saveTimeout)
	defer cancel()

	start := time.Now()
	err := d.backend.Save(ctx, snapshot)
	metrics.RecordPersist(d.backend.Name(), float64(time.Since(start).Microseconds())/1000, err)
	if err != nil {
		d.log.Error(ctx, "directory save failed",
			logger.String("backend", d.backend.Name()),
			logger.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Search implements Directory.Search.
func (d *MemoryDirectory) Search(_ context.Context, c guard.Criteria) []guard.Profile {
	start := time.Now()

	d.mu.RLock()
	out := make([]guard.Profile, 0)
	for _, p := range d.profiles {
		if c.Matches(p) {
			out = append(out, p.Clone())
		}
	}
	d.mu.RUnlock()

	metrics.RecordSearch(float64(time.Since(start).Microseconds())/1000, len(out))
	return out
}

// Get implements Directory.Get.
func (d *MemoryDirectory) Get(_ context.Context, id string) (guard.Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i, ok := d.byID[id]
	if !ok {
		return guard.Profile{}, ErrNotFound
	}
	return d.profiles[i].Clone(), nil
}

// Count implements Directory.Count.
func (d *MemoryDirectory) Count(_ context.Context) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.profiles)
}

// All implements Directory.All.
func (d *MemoryDirectory) All(ctx context.Context) []guard.Profile {
	return d.Search(ctx, guard.Criteria{})
}

// Close releases the backend.
func (d *MemoryDirectory) Close() error {
	if d.backend == nil {
		return nil
	}
	return d.backend.Close()
}
