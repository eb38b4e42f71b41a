// Package dedupe tracks idempotency keys so a retried registration returns
// the profile created by the first attempt.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

// Deduper records idempotency keys and the guard id each one produced.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it as
	// pending if not. Returns true if key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	// Bind attaches the id produced for key, completing a pending entry.
	Bind(ctx context.Context, key, id string)

	// Lookup returns the id bound to key. ok is false while the key is
	// unknown or still pending.
	Lookup(ctx context.Context, key string) (id string, ok bool)

	// Unrecord forgets key so a failed attempt can be retried.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

type entry struct {
	key string
	id  string // empty while pending
}

// inMemoryDeduper keeps keys in arrival order and evicts the oldest bound
// key once maxSize is reached. Pending keys are never evicted, so the cache
// may exceed maxSize by the number of requests in flight. maxSize <= 0 means
// unbounded.
type inMemoryDeduper struct {
	mu      sync.Mutex
	byKey   map[string]*list.Element
	order   *list.List // front is oldest
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 10000,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.byKey = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.byKey[key]; ok {
		return true
	}
	d.insert(key, "")
	return false
}

func (d *inMemoryDeduper) Bind(_ context.Context, key, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.byKey[key]; ok {
		el.Value.(*entry).id = id
		return
	}
	// Evicted while pending.
	d.insert(key, id)
}

func (d *inMemoryDeduper) Lookup(_ context.Context, key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	el, ok := d.byKey[key]
	if !ok {
		return "", false
	}
	e := el.Value.(*entry)
	return e.id, e.id != ""
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.byKey[key]; ok {
		d.order.Remove(el)
		delete(d.byKey, key)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.byKey))
}

// insert must be called with d.mu held.
func (d *inMemoryDeduper) insert(key, id string) {
	for d.maxSize > 0 && d.order.Len() >= d.maxSize {
		if !d.evictOldestBound() {
			break
		}
	}
	d.byKey[key] = d.order.PushBack(&entry{key: key, id: id})
}

// evictOldestBound drops the oldest key that has an id. It reports false
// when every key is still pending.
func (d *inMemoryDeduper) evictOldestBound() bool {
	for el := d.order.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry)
		if e.id == "" {
			continue
		}
		d.order.Remove(el)
		delete(d.byKey, e.key)
		return true
	}
	return false
}
