// Package cache provides storage backends for memoized dependency lookups.
//
// Dependency detection is dominated by subprocess calls (pkg-config) and
// filesystem scans, so repeated lookups for the same logical dependency are
// memoized. The cache key is derived from the dependency identity (name,
// version requirements, cross flag, remaining options) so that two lookups
// that can only differ in failure behavior share one entry.
//
// # Backends
//
//   - FileCache: per-user cache directory, suitable for the CLI
//   - MemoryCache: process-local, the resolver's default in-run store
//   - RedisCache: shared cache for build farms running many probes
//   - NullCache: disables caching entirely
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all storage backends.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the different cacheable artifacts.
type Keyer interface {
	// DependencyKey generates a key for a dependency lookup result from its
	// canonical identity string (see deps.Identifier).
	DependencyKey(identity string) string

	// ProgramKey generates a key for an external-program lookup.
	ProgramKey(name, searchDir string) string
}

// DefaultKeyer hashes identities into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DependencyKey generates a key for a dependency lookup result.
func (k *DefaultKeyer) DependencyKey(identity string) string {
	return hashKey("dep", identity)
}

// ProgramKey generates a key for an external-program lookup.
func (k *DefaultKeyer) ProgramKey(name, searchDir string) string {
	return hashKey("prog", name, searchDir)
}

// ScopedKeyer wraps a Keyer with a prefix so that probes for different
// machines (native vs. a cross file) never share entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DependencyKey generates a prefixed dependency key.
func (k *ScopedKeyer) DependencyKey(identity string) string {
	return k.prefix + k.inner.DependencyKey(identity)
}

// ProgramKey generates a prefixed program key.
func (k *ScopedKeyer) ProgramKey(name, searchDir string) string {
	return k.prefix + k.inner.ProgramKey(name, searchDir)
}
