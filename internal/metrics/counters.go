package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Counters is a set of named monotonic counters. Unknown names are created
// on first use.
type Counters struct {
	mu     sync.RWMutex
	values map[string]*atomic.Uint64
}

func NewCounters(names ...string) *Counters {
	c := &Counters{values: make(map[string]*atomic.Uint64, len(names))}
	for _, n := range names {
		c.values[n] = new(atomic.Uint64)
	}
	return c
}

func (c *Counters) counter(name string) *atomic.Uint64 {
	c.mu.RLock()
	v, ok := c.values[name]
	c.mu.RUnlock()
	if ok {
		return v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok = c.values[name]; !ok {
		v = new(atomic.Uint64)
		c.values[name] = v
	}
	return v
}

func (c *Counters) Inc(name string) {
	c.counter(name).Add(1)
}

func (c *Counters) Load(name string) uint64 {
	return c.counter(name).Load()
}

// Snapshot copies the current values.
func (c *Counters) Snapshot() map[string]uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]uint64, len(c.values))
	for k, v := range c.values {
		out[k] = v.Load()
	}
	return out
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
