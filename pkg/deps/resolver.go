package deps

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/depprobe/depprobe/pkg/cache"
	"github.com/depprobe/depprobe/pkg/errors"
	"github.com/depprobe/depprobe/pkg/observability"
)

// detectorFunc constructs a specialized detector.
type detectorFunc func(env *Environment, opts Options) (Dependency, error)

// packages dispatches the closed set of specially detected names. Every
// other name goes through the generic pkg-config path.
var packages = map[string]detectorFunc{
	"boost": func(env *Environment, opts Options) (Dependency, error) {
		return NewBoost(env, opts)
	},
	"appleframeworks": func(env *Environment, opts Options) (Dependency, error) {
		return NewAppleFrameworks(env, opts)
	},
	"threads": func(env *Environment, opts Options) (Dependency, error) {
		return NewThreads(env, opts)
	},
	"python3": func(env *Environment, opts Options) (Dependency, error) {
		return NewPython3(env, opts)
	},
}

// Find detects an external dependency by name.
//
// Names in the specialized set (boost, appleframeworks, threads, python3)
// dispatch to their detectors; anything else is probed with pkg-config,
// with a framework-directory fallback on macOS. When the lookup is required
// and nothing is found the error from the pkg-config attempt, if any, is
// surfaced so the user sees the underlying cause rather than a generic
// not-found line.
func Find(env *Environment, name string, opts Options) (Dependency, error) {
	if err := errors.ValidateDependencyName(name); err != nil {
		return nil, err
	}
	logger := env.logger()
	start := time.Now()
	method := string(opts.Method)
	if method == "" {
		method = string(MethodAuto)
	}
	observability.Lookup().OnLookupStart(name, method)

	dep, err := find(env, name, opts, logger)
	var found bool
	if dep != nil {
		found = dep.Found()
	}
	observability.Lookup().OnLookupComplete(name, method, found, time.Since(start), err)
	return dep, err
}

func find(env *Environment, name string, opts Options, logger *log.Logger) (Dependency, error) {
	lname := strings.ToLower(name)
	if ctor, ok := packages[lname]; ok {
		dep, err := ctor(env, opts)
		if err != nil {
			return nil, err
		}
		if opts.Required && !dep.Found() {
			return nil, errors.New(errors.ErrCodeNotFound, "dependency %q not found", name)
		}
		return dep, nil
	}

	pkgdep, pkgErr := NewPkgConfig(env, name, opts)
	if pkgErr == nil && pkgdep.Found() {
		return pkgdep, nil
	}

	if isOSX() {
		fwdep, err := NewExtraFramework(env, name, opts)
		if err != nil {
			return nil, err
		}
		if opts.Required && !fwdep.Found() {
			if pkgErr != nil {
				return nil, errors.Wrap(errors.ErrCodeNotFound, pkgErr,
					"dependency %q not found, tried extra frameworks and pkg-config", name)
			}
			return nil, errors.New(errors.ErrCodeNotFound,
				"dependency %q not found, tried extra frameworks and pkg-config", name)
		}
		return fwdep, nil
	}

	if pkgErr != nil {
		return nil, pkgErr
	}
	if !opts.Silent {
		logger.Info("Dependency not found", "name", name)
	}
	return pkgdep, nil
}

// Resolver adds identity-keyed caching on top of Find. Entries are keyed by
// the canonical identity string, so the Required flag never fragments the
// cache: lookups are performed optionally, cached, and the required policy
// is applied to the cached record afterwards.
type Resolver struct {
	env   *Environment
	store cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// Cache is the storage backend. Nil memoizes within the run only, via
	// an in-memory store; use cache.NewNullCache to disable caching.
	Cache cache.Cache

	// Keyer maps identities to cache keys. Nil uses the default keyer.
	Keyer cache.Keyer

	// TTL bounds the lifetime of cached records. Zero means no expiry.
	TTL time.Duration
}

// NewResolver creates a caching resolver.
func NewResolver(env *Environment, opts ResolverOptions) *Resolver {
	store := opts.Cache
	if store == nil {
		store = cache.NewMemoryCache()
	}
	keyer := opts.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Resolver{env: env, store: store, keyer: keyer, ttl: opts.TTL}
}

// Resolve looks up a dependency, consulting the cache first. Refresh
// bypasses the cached record and overwrites it with a fresh probe.
//
// Fatal errors (invalid options, broken tools) are never cached; absence
// and version mismatches are cached as not-found records, with the
// required policy applied on every return.
func (r *Resolver) Resolve(ctx context.Context, name string, opts Options, refresh bool) (Info, error) {
	if err := errors.ValidateDependencyName(name); err != nil {
		return Info{}, err
	}
	identity := Identifier(name, opts, r.env.WantCross(opts.Native))
	key := r.keyer.DependencyKey(identity)

	if !refresh {
		if data, ok, err := r.store.Get(ctx, key); err == nil && ok {
			var info Info
			if err := json.Unmarshal(data, &info); err == nil {
				observability.Cache().OnCacheHit("dependency")
				r.env.logger().Debug("Dependency cache hit", "name", name)
				return info, r.applyRequired(name, info, opts)
			}
			// Corrupt entry: fall through to a fresh probe.
			_ = r.store.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss("dependency")
	}

	probeOpts := opts
	probeOpts.Required = false
	dep, err := Find(r.env, name, probeOpts)
	if err != nil {
		return Info{}, err
	}
	info := Snapshot(dep)

	if data, err := json.Marshal(info); err == nil {
		if err := r.store.Set(ctx, key, data, r.ttl); err == nil {
			observability.Cache().OnCacheSet("dependency", len(data))
		} else {
			r.env.logger().Debug("Dependency cache write failed", "name", name, "err", err)
		}
	}
	return info, r.applyRequired(name, info, opts)
}

// applyRequired enforces the required policy on a record.
func (r *Resolver) applyRequired(name string, info Info, opts Options) error {
	if opts.Required && !info.Found {
		return errors.New(errors.ErrCodeNotFound, "dependency %q not found", name)
	}
	return nil
}

// Close releases the underlying cache backend.
func (r *Resolver) Close() error {
	return r.store.Close()
}
