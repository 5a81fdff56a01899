// Package generic provides a bounded, write-behind cache in front of a
// persistent store.
package generic

import (
	"container/list"
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/panectl/internal/logging"
)

// Cache is a RAM-first view of a store. Reads never hit the store except
// through GetOrFetch; writes update memory first and reach the store
// asynchronously, in the order they were made.
type Cache[K comparable, V any] interface {
	// Load bulk-loads entries from storage, up to the capacity.
	Load(ctx context.Context) error

	// Get retrieves a cached value without touching the store.
	Get(key K) (V, bool)

	// GetOrFetch returns the cached value or reads it through the store.
	GetOrFetch(ctx context.Context, key K) (V, bool, error)

	// Set updates memory and persists asynchronously.
	Set(key K, value V) error

	// Delete removes from memory and persists the deletion asynchronously.
	Delete(key K) error

	// List returns the cached values, most recently used first.
	List() []V

	// Flush waits for pending writes.
	Flush() error
}

// Entry is one stored key and value.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// DatabaseOperations is what the cache needs from the store.
type DatabaseOperations[K comparable, V any] interface {
	// LoadAll returns stored entries, most recently used first.
	LoadAll(ctx context.Context) ([]Entry[K, V], error)

	// Fetch reads a single entry. found is false when the store has none.
	Fetch(ctx context.Context, key K) (value V, found bool, err error)

	Persist(ctx context.Context, key K, value V) error
	Delete(ctx context.Context, key K) error
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

type writeOp[K comparable, V any] struct {
	key    K
	value  V
	delete bool
}

// GenericCache implements Cache with least-recently-used eviction.
type GenericCache[K comparable, V any] struct {
	dbOps    DatabaseOperations[K, V]
	capacity int
	log      zerolog.Logger

	mu    sync.Mutex
	items map[K]*list.Element
	order *list.List // front is most recent

	// writes reach the store one at a time, in call order
	writeMu       sync.Mutex
	writes        []writeOp[K, V]
	writing       bool
	pendingWrites sync.WaitGroup
}

// NewGenericCache creates a cache holding at most capacity entries.
// A capacity of zero or less means unbounded. Async write failures are
// logged with the logger carried by ctx.
func NewGenericCache[K comparable, V any](
	ctx context.Context,
	dbOps DatabaseOperations[K, V],
	capacity int,
) *GenericCache[K, V] {
	return &GenericCache[K, V]{
		dbOps:    dbOps,
		capacity: capacity,
		log:      logging.FromContext(ctx).With().Str("component", "cache").Logger(),
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

func (c *GenericCache[K, V]) Load(ctx context.Context) error {
	data, err := c.dbOps.LoadAll(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range data {
		if c.capacity > 0 && c.order.Len() >= c.capacity {
			break
		}
		if _, ok := c.items[e.Key]; ok {
			// memory already holds a newer value
			continue
		}
		c.items[e.Key] = c.order.PushBack(&entry[K, V]{key: e.Key, value: e.Value})
	}
	return nil
}

func (c *GenericCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).value, true
}

func (c *GenericCache[K, V]) GetOrFetch(ctx context.Context, key K) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	v, found, err := c.dbOps.Fetch(ctx, key)
	if err != nil || !found {
		return v, false, err
	}

	c.mu.Lock()
	c.storeLocked(key, v)
	c.mu.Unlock()
	return v, true, nil
}

func (c *GenericCache[K, V]) Set(key K, value V) error {
	c.mu.Lock()
	c.storeLocked(key, value)
	c.mu.Unlock()

	c.enqueue(writeOp[K, V]{key: key, value: value})
	return nil
}

func (c *GenericCache[K, V]) Delete(key K) error {
	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
	c.mu.Unlock()

	c.enqueue(writeOp[K, V]{key: key, delete: true})
	return nil
}

func (c *GenericCache[K, V]) List() []V {
	c.mu.Lock()
	defer c.mu.Unlock()

	values := make([]V, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		values = append(values, el.Value.(*entry[K, V]).value)
	}
	return values
}

// Len returns the number of cached entries.
func (c *GenericCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *GenericCache[K, V]) Flush() error {
	c.pendingWrites.Wait()
	return nil
}

func (c *GenericCache[K, V]) enqueue(op writeOp[K, V]) {
	c.pendingWrites.Add(1)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.writes = append(c.writes, op)
	if !c.writing {
		c.writing = true
		go c.drainWrites()
	}
}

// drainWrites applies queued writes in order until the queue is empty.
func (c *GenericCache[K, V]) drainWrites() {
	for {
		c.writeMu.Lock()
		if len(c.writes) == 0 {
			c.writing = false
			c.writeMu.Unlock()
			return
		}
		op := c.writes[0]
		c.writes = c.writes[1:]
		c.writeMu.Unlock()

		c.apply(op)
		c.pendingWrites.Done()
	}
}

func (c *GenericCache[K, V]) apply(op writeOp[K, V]) {
	ctx := context.Background()
	if op.delete {
		if err := c.dbOps.Delete(ctx, op.key); err != nil {
			c.log.Warn().Err(err).Interface("key", op.key).Msg("async delete failed")
		}
		return
	}
	if err := c.dbOps.Persist(ctx, op.key, op.value); err != nil {
		c.log.Warn().Err(err).Interface("key", op.key).Msg("async persist failed")
	}
}

func (c *GenericCache[K, V]) storeLocked(key K, value V) {
	if el, ok := c.items[key]; ok {
		el.Value.(*entry[K, V]).value = value
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})

	if c.capacity > 0 && c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry[K, V]).key)
	}
}

var _ Cache[string, int] = (*GenericCache[string, int])(nil)
