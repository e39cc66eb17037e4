// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about dependency lookups, program searches, and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLookupHooks(&myLookupHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Lookup().OnLookupStart(name, method)
//	// ... probe ...
//	observability.Lookup().OnLookupComplete(name, method, found, duration, err)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Lookup Hooks
// =============================================================================

// LookupHooks receives events from dependency detection.
type LookupHooks interface {
	// OnLookupStart records the start of a dependency lookup.
	OnLookupStart(name, method string)

	// OnLookupComplete records the outcome of a dependency lookup.
	OnLookupComplete(name, method string, found bool, duration time.Duration, err error)
}

// =============================================================================
// Program Hooks
// =============================================================================

// ProgramHooks receives events from external program searches.
type ProgramHooks interface {
	// OnProgramSearch records a program search and whether it succeeded.
	OnProgramSearch(name string, found bool)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLookupHooks is a no-op implementation of LookupHooks.
type NoopLookupHooks struct{}

func (NoopLookupHooks) OnLookupStart(string, string)                                {}
func (NoopLookupHooks) OnLookupComplete(string, string, bool, time.Duration, error) {}

// NoopProgramHooks is a no-op implementation of ProgramHooks.
type NoopProgramHooks struct{}

func (NoopProgramHooks) OnProgramSearch(string, bool) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(string)      {}
func (NoopCacheHooks) OnCacheMiss(string)     {}
func (NoopCacheHooks) OnCacheSet(string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	lookupHooks  LookupHooks  = NoopLookupHooks{}
	programHooks ProgramHooks = NoopProgramHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetLookupHooks registers custom lookup hooks.
// This should be called once at application startup before any lookups.
func SetLookupHooks(h LookupHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		lookupHooks = h
	}
}

// SetProgramHooks registers custom program-search hooks.
// This should be called once at application startup before any searches.
func SetProgramHooks(h ProgramHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		programHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Lookup returns the registered lookup hooks.
func Lookup() LookupHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return lookupHooks
}

// Program returns the registered program-search hooks.
func Program() ProgramHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return programHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	lookupHooks = NoopLookupHooks{}
	programHooks = NoopProgramHooks{}
	cacheHooks = NoopCacheHooks{}
}
