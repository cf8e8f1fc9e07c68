// Package dedup remembers where structurally identical payloads were placed
// during one rebuild, so each distinct payload is stored once.
//
// Payloads are compared by value with go-cmp, never by identity: they are
// decoded fresh from project files on every rebuild. A Cache lives for one
// rebuild pass; create a new one (or Reset) before each pass so addresses
// from an earlier image are never reused.
//
// Lookup is a linear scan in insertion order. When duplicates exist, the
// first occurrence in the caller's iteration order is the one stored.
package dedup

import (
	"github.com/google/go-cmp/cmp"

	"github.com/joshuapare/romkit/internal/logger"
	"github.com/joshuapare/romkit/rom/addr"
)

type entry[P any] struct {
	payload P
	at      addr.Mapped
}

// Stats counts cache lookups.
type Stats struct {
	Hits   int
	Misses int
}

// Cache maps payloads already placed in this rebuild to their addresses.
type Cache[P any] struct {
	name    string
	opts    []cmp.Option
	entries []entry[P]
	stats   Stats
}

// New returns an empty cache. name labels log lines; opts are passed to
// cmp.Equal, e.g. cmpopts.EquateEmpty or cmp.AllowUnexported for payloads
// with unexported fields.
func New[P any](name string, opts ...cmp.Option) *Cache[P] {
	return &Cache[P]{name: name, opts: opts}
}

// FindOrInsert returns the address of a payload equal to p. On a miss it
// calls place, records the result against p and returns it. place is not
// called on a hit. A failed place records nothing.
func (c *Cache[P]) FindOrInsert(p P, place func() (addr.Mapped, error)) (addr.Mapped, error) {
	if a, ok := c.Lookup(p); ok {
		c.stats.Hits++
		logger.Debug("dedup hit", "cache", c.name, "address", a.String())
		return a, nil
	}
	c.stats.Misses++
	a, err := place()
	if err != nil {
		return 0, err
	}
	c.entries = append(c.entries, entry[P]{payload: p, at: a})
	return a, nil
}

// Lookup returns the address recorded for a payload equal to p.
func (c *Cache[P]) Lookup(p P) (addr.Mapped, bool) {
	for _, e := range c.entries {
		if cmp.Equal(e.payload, p, c.opts...) {
			return e.at, true
		}
	}
	return 0, false
}

// Index returns the insertion index of the payload equal to p, or -1.
// Modules that store payload numbers rather than addresses use it.
func (c *Cache[P]) Index(p P) int {
	for i, e := range c.entries {
		if cmp.Equal(e.payload, p, c.opts...) {
			return i
		}
	}
	return -1
}

// Len returns the number of distinct payloads recorded.
func (c *Cache[P]) Len() int { return len(c.entries) }

// Stats returns hit and miss counts.
func (c *Cache[P]) Stats() Stats { return c.stats }

// Reset empties the cache for a new rebuild.
func (c *Cache[P]) Reset() {
	c.entries = nil
	c.stats = Stats{}
}
