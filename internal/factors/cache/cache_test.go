package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emfactor/emfactor/internal/factors"
)

// countingResolver counts Resolve calls and optionally blocks until release
// to widen the concurrent-miss window.
type countingResolver struct {
	calls   atomic.Int64
	release chan struct{}
	err     error
}

func (r *countingResolver) Resolve(key factors.Key) (factors.Factor, error) {
	r.calls.Add(1)
	if r.release != nil {
		<-r.release
	}
	if r.err != nil {
		return factors.Factor{}, r.err
	}
	return factors.Factor{
		Dataset:      "DEFRA",
		CountryCode:  key.CountryCode,
		Year:         key.Year,
		Scope:        key.Scope,
		Category:     key.Category,
		ActivityType: key.ActivityType,
		Unit:         "kwh",
		Value:        0.207,
	}, nil
}

func testKey() factors.Key {
	return factors.Key{
		Scope: 2, Category: "electricity", ActivityType: "grid_average",
		CountryCode: "GB", Year: 2024, Dataset: "DEFRA",
	}
}

// TestGetOrResolve_HitAvoidsResolver verifies a cache hit never touches the
// resolver.
func TestGetOrResolve_HitAvoidsResolver(t *testing.T) {
	resolver := &countingResolver{}
	c, err := New(resolver, time.Minute)
	require.NoError(t, err)

	first, err := c.GetOrResolve("tenant-a", testKey())
	require.NoError(t, err)

	second, err := c.GetOrResolve("tenant-a", testKey())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), resolver.calls.Load())

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

// TestGetOrResolve_SingleFlight verifies concurrent misses for one key cost
// exactly one resolver call.
func TestGetOrResolve_SingleFlight(t *testing.T) {
	resolver := &countingResolver{release: make(chan struct{})}
	c, err := New(resolver, time.Minute)
	require.NoError(t, err)

	const goroutines = 16
	var wg sync.WaitGroup
	results := make([]factors.Factor, goroutines)
	errs := make([]error, goroutines)

	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = c.GetOrResolve("tenant-a", testKey())
		}()
	}

	// Let all goroutines pile up on the in-flight resolution, then release.
	time.Sleep(50 * time.Millisecond)
	close(resolver.release)
	wg.Wait()

	for i := range goroutines {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
	assert.Equal(t, int64(1), resolver.calls.Load(), "exactly one resolver call must win")
}

// TestGetOrResolve_TTLExpiry verifies entries expire by TTL, checked on read.
func TestGetOrResolve_TTLExpiry(t *testing.T) {
	resolver := &countingResolver{}
	c, err := New(resolver, time.Minute)
	require.NoError(t, err)

	now := time.Now()
	c.now = func() time.Time { return now }

	_, err = c.GetOrResolve("tenant-a", testKey())
	require.NoError(t, err)
	assert.Equal(t, int64(1), resolver.calls.Load())

	// Within TTL: still a hit.
	now = now.Add(30 * time.Second)
	_, err = c.GetOrResolve("tenant-a", testKey())
	require.NoError(t, err)
	assert.Equal(t, int64(1), resolver.calls.Load())

	// Past TTL: re-resolved.
	now = now.Add(time.Minute)
	_, err = c.GetOrResolve("tenant-a", testKey())
	require.NoError(t, err)
	assert.Equal(t, int64(2), resolver.calls.Load())
}

// TestGetOrResolve_TenantIsolation verifies tenants never share entries and
// invalidation is tenant-scoped.
func TestGetOrResolve_TenantIsolation(t *testing.T) {
	resolver := &countingResolver{}
	c, err := New(resolver, time.Minute)
	require.NoError(t, err)

	_, err = c.GetOrResolve("tenant-a", testKey())
	require.NoError(t, err)
	_, err = c.GetOrResolve("tenant-b", testKey())
	require.NoError(t, err)
	assert.Equal(t, int64(2), resolver.calls.Load(), "tenants must not share cache entries")

	c.InvalidateTenant("tenant-a")

	_, err = c.GetOrResolve("tenant-b", testKey())
	require.NoError(t, err)
	assert.Equal(t, int64(2), resolver.calls.Load(), "tenant-b entry must survive tenant-a invalidation")

	_, err = c.GetOrResolve("tenant-a", testKey())
	require.NoError(t, err)
	assert.Equal(t, int64(3), resolver.calls.Load())
}

// TestGetOrResolve_ErrorsNotCached verifies resolution failures pass through
// without populating the cache.
func TestGetOrResolve_ErrorsNotCached(t *testing.T) {
	key := testKey()
	resolver := &countingResolver{err: &factors.NotFoundError{Key: key}}
	c, err := New(resolver, time.Minute)
	require.NoError(t, err)

	_, err = c.GetOrResolve("tenant-a", key)
	assert.ErrorIs(t, err, factors.ErrFactorNotFound)

	// A later call retries the resolver; a refreshed table could now succeed.
	resolver.err = nil
	_, err = c.GetOrResolve("tenant-a", key)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resolver.calls.Load())
}

// TestGetOrResolve_InvalidTenant verifies the empty tenant precondition.
func TestGetOrResolve_InvalidTenant(t *testing.T) {
	c, err := New(&countingResolver{}, time.Minute)
	require.NoError(t, err)

	_, err = c.GetOrResolve("", testKey())
	assert.ErrorIs(t, err, ErrInvalidTenant)
}

// TestSweep verifies expired entries are evicted and live ones kept.
func TestSweep(t *testing.T) {
	resolver := &countingResolver{}
	c, err := New(resolver, time.Minute)
	require.NoError(t, err)

	now := time.Now()
	c.now = func() time.Time { return now }

	oldKey := testKey()
	_, err = c.GetOrResolve("tenant-a", oldKey)
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	freshKey := testKey()
	freshKey.Year = 2025
	_, err = c.GetOrResolve("tenant-a", freshKey)
	require.NoError(t, err)

	now = now.Add(30 * time.Second) // oldKey expired, freshKey alive
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Stats().Entries)
}

// TestNew_TTLValidation verifies TTL bounds and the default selection.
func TestNew_TTLValidation(t *testing.T) {
	c, err := New(&countingResolver{}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, c.TTL())

	_, err = New(&countingResolver{}, time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidTTL)

	_, err = New(&countingResolver{}, 48*time.Hour)
	assert.ErrorIs(t, err, ErrInvalidTTL)
}
