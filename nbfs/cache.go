package nbfs

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

type buildFunc func(path string) (*Projection, error)

// projectionCache holds one Projection per canonical notebook path for the
// life of the mount. Entries are never evicted.
type projectionCache struct {
	build buildFunc

	mu      sync.RWMutex // protects entries
	entries map[string]*Projection
	group   singleflight.Group
}

func newProjectionCache(build buildFunc) *projectionCache {
	return &projectionCache{
		build:   build,
		entries: make(map[string]*Projection),
	}
}

func (c *projectionCache) lookup(key string) (*Projection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.entries[key]
	return p, ok
}

// get returns the cached projection for key, building it on first use.
// Concurrent callers for the same key share a single build and receive the
// same pointer. A failed build is not cached. hit reports whether the
// projection was already present.
func (c *projectionCache) get(key string) (p *Projection, hit bool, err error) {
	if p, ok := c.lookup(key); ok {
		return p, true, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A previous flight may have finished between lookup and Do.
		if p, ok := c.lookup(key); ok {
			return p, nil
		}
		p, err := c.build(key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = p
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Projection), false, nil
}

func (c *projectionCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
