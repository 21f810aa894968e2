package cache

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/emfactor/emfactor/internal/factors"
)

// Common cache errors.
var (
	ErrInvalidTenant = fmt.Errorf("tenant id cannot be empty")
	ErrInvalidTTL    = fmt.Errorf("TTL must be between %s and %s", MinTTL, MaxTTL)
)

// Resolver is the lookup the cache fronts. *factors.Resolver satisfies it.
type Resolver interface {
	Resolve(key factors.Key) (factors.Factor, error)
}

// Stats is a snapshot of cache counters for diagnostics.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// FactorCache is a per-tenant, TTL-bounded cache in front of a Resolver.
// Reads take a shared lock and never block each other; population of a
// missing key goes through a single-flight group so at most one resolver
// call wins per key.
type FactorCache struct {
	resolver Resolver
	ttl      time.Duration

	mu      sync.RWMutex
	entries map[tenantKey]entry

	group singleflight.Group

	statsMu sync.Mutex
	hits    int64
	misses  int64

	// now is swappable for TTL tests.
	now func() time.Time
}

// New creates a FactorCache over the given resolver. A zero ttl selects
// DefaultTTL; out-of-range values are rejected.
func New(resolver Resolver, ttl time.Duration) (*FactorCache, error) {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if ttl < MinTTL || ttl > MaxTTL {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidTTL, ttl)
	}

	return &FactorCache{
		resolver: resolver,
		ttl:      ttl,
		entries:  make(map[tenantKey]entry),
		now:      time.Now,
	}, nil
}

// GetOrResolve returns the cached factor for (tenantID, key), resolving and
// populating on a miss. Resolution failures are returned as-is and never
// cached, so a factor-table refresh can succeed on the next call.
func (c *FactorCache) GetOrResolve(tenantID string, key factors.Key) (factors.Factor, error) {
	if tenantID == "" {
		return factors.Factor{}, ErrInvalidTenant
	}

	tk := tenantKey{tenantID: tenantID, key: key}

	if f, ok := c.lookup(tk); ok {
		c.count(true)
		return f, nil
	}
	c.count(false)

	// Single-flight per composite key: concurrent misses for the same
	// (tenant, key) share one resolver call; other tenants and keys proceed
	// independently.
	v, err, _ := c.group.Do(flightKey(tk), func() (any, error) {
		// Re-check under the group: a concurrent winner may have populated
		// the entry between our lookup and Do.
		if f, ok := c.lookup(tk); ok {
			return f, nil
		}

		f, resolveErr := c.resolver.Resolve(key)
		if resolveErr != nil {
			return factors.Factor{}, resolveErr
		}

		c.store(tk, f)
		return f, nil
	})
	if err != nil {
		return factors.Factor{}, err
	}

	f, ok := v.(factors.Factor)
	if !ok {
		return factors.Factor{}, fmt.Errorf("unexpected cache value type %T", v)
	}
	return f, nil
}

// Invalidate removes the entry for one (tenant, key) pair. Idempotent.
func (c *FactorCache) Invalidate(tenantID string, key factors.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, tenantKey{tenantID: tenantID, key: key})
}

// InvalidateTenant removes every entry belonging to one tenant.
func (c *FactorCache) InvalidateTenant(tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for tk := range c.entries {
		if tk.tenantID == tenantID {
			delete(c.entries, tk)
		}
	}
}

// Sweep removes all expired entries and returns how many were evicted.
// TTL checks on read keep correctness without it; Sweep only bounds memory
// in long-lived processes.
func (c *FactorCache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for tk, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, tk)
			evicted++
		}
	}
	return evicted
}

// Stats returns a snapshot of hit/miss counters and the live entry count.
func (c *FactorCache) Stats() Stats {
	c.statsMu.Lock()
	hits, misses := c.hits, c.misses
	c.statsMu.Unlock()

	c.mu.RLock()
	entries := len(c.entries)
	c.mu.RUnlock()

	return Stats{Hits: hits, Misses: misses, Entries: entries}
}

// TTL returns the configured entry TTL.
func (c *FactorCache) TTL() time.Duration {
	return c.ttl
}

// lookup returns a live entry, treating expired entries as absent. Expired
// entries are left for the populating writer or Sweep to overwrite; reads
// stay lock-shared.
func (c *FactorCache) lookup(tk tenantKey) (factors.Factor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[tk]
	if !ok || e.expired(c.now()) {
		return factors.Factor{}, false
	}
	return e.factor, true
}

func (c *FactorCache) store(tk tenantKey, f factors.Factor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tk] = entry{factor: f, expiresAt: c.now().Add(c.ttl)}
}

func (c *FactorCache) count(hit bool) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

// flightKey builds the single-flight group key. The unit separator keeps
// tenant ids and key fields from colliding.
func flightKey(tk tenantKey) string {
	return tk.tenantID + "\x1f" + tk.key.String()
}
