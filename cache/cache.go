package cache

import (
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/vipmap/inventory-server/util/timeutil"
)

const (
	// DefaultTTL is applied by Set when the caller does not pick a TTL.
	DefaultTTL = 5 * time.Minute

	// DefaultCapacity bounds the number of live entries. When an insert pushes
	// the cache past this bound, the earliest-inserted entry is evicted.
	DefaultCapacity = 100

	// DefaultCleanupInterval is how often the background sweep removes
	// expired entries.
	DefaultCleanupInterval = 5 * time.Minute
)

type entry struct {
	data      interface{}
	createdAt time.Time
	expiresAt time.Time
}

// Status reports entry counts at one point in time.
type Status struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Expired int `json:"expired"`
}

// Cache is an expiring key/value store with a bounded size.
//
// Eviction on overflow is FIFO by insertion order, not LRU: overwriting or
// reading a key does not move it in the eviction queue. A hot key can
// therefore be evicted ahead of colder, younger keys. This mirrors the
// behavior of the system it replaces and is kept deliberately.
//
// All methods are safe for concurrent use. None of them return errors;
// absence is always a typed miss.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]entry
	queue    []string // insertion order, front is oldest
	capacity int
	ttl      time.Duration
	clock    timeutil.Time
}

// New returns a Cache with the default TTL and capacity.
func New() *Cache {
	return NewWithConfig(DefaultTTL, DefaultCapacity, &timeutil.RealTime{})
}

// NewWithConfig returns a Cache with explicit TTL, capacity and clock.
// A non-positive ttl falls back to DefaultTTL and a non-positive capacity
// to DefaultCapacity.
func NewWithConfig(ttl time.Duration, capacity int, clock timeutil.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		entries:  make(map[string]entry),
		queue:    make([]string, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
		clock:    clock,
	}
}

// Set stores data under key with the cache's default TTL.
func (c *Cache) Set(key string, data interface{}) {
	c.SetTTL(key, data, c.ttl)
}

// SetTTL stores data under key, expiring after ttl. If the insert pushes the
// cache past capacity, the earliest-inserted entry is evicted.
func (c *Cache) SetTTL(key string, data interface{}, ttl time.Duration) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, tracked := c.entries[key]; !tracked {
		c.queue = append(c.queue, key)
	}
	c.entries[key] = entry{
		data:      data,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}

	if len(c.queue) > c.capacity {
		oldest := c.queue[0]
		c.queue = c.queue[1:]
		delete(c.entries, oldest)
		glog.Infof("cache: capacity %d exceeded, evicted oldest key %q", c.capacity, oldest)
	}
}

// Get returns the payload stored under key, or a miss. An expired entry is
// removed on the way out and reported as a miss.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Now().After(e.expiresAt) {
		c.remove(key)
		return nil, false
	}
	return e.data, true
}

// Delete removes key, whether or not it is expired. Deleting an absent key is
// a no-op.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
}

// Cleanup removes every currently-expired entry and returns how many were
// removed. Valid entries keep their data and expiry untouched.
func (c *Cache) Cleanup() int {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			c.remove(key)
			removed++
		}
	}
	if removed > 0 {
		glog.Infof("cache: cleanup removed %d expired entries", removed)
	}
	return removed
}

// Status counts total, valid and expired entries without mutating anything.
func (c *Cache) Status() Status {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	valid := 0
	for _, e := range c.entries {
		if !now.After(e.expiresAt) {
			valid++
		}
	}
	return Status{
		Total:   len(c.entries),
		Valid:   valid,
		Expired: len(c.entries) - valid,
	}
}

// Run implements task.Runner so the background sweep can be driven by a
// TickerTask.
func (c *Cache) Run() error {
	c.Cleanup()
	return nil
}

// remove deletes key from the entry map and the insertion-order queue.
// Callers must hold c.mu.
func (c *Cache) remove(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.queue {
		if k == key {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			break
		}
	}
}
