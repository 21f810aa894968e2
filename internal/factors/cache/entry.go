package cache

import (
	"time"

	"github.com/emfactor/emfactor/internal/factors"
)

// TTL configuration defaults and bounds.
const (
	// DefaultTTL covers one batch import while still picking up factor-table
	// updates between imports.
	DefaultTTL = 15 * time.Minute

	// MinTTL is the minimum allowed TTL.
	MinTTL = time.Second

	// MaxTTL is the maximum allowed TTL.
	MaxTTL = 24 * time.Hour
)

// entry is one cached factor with its expiration timestamp.
type entry struct {
	factor    factors.Factor
	expiresAt time.Time
}

// expired reports whether the entry is past its TTL at the given instant.
func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// tenantKey scopes a lookup key to one tenant. Tenants never share entries.
type tenantKey struct {
	tenantID string
	key      factors.Key
}
