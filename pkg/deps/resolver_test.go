package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depprobe/depprobe/pkg/cache"
	"github.com/depprobe/depprobe/pkg/errors"
)

func TestFindDispatchesSpecialNames(t *testing.T) {
	env := &Environment{Logger: quietLogger()}

	// The dispatch is case-insensitive.
	dep, err := Find(env, "THREADS", Options{Silent: true})
	require.NoError(t, err)
	assert.Equal(t, "threads", dep.Name())
	assert.True(t, dep.Found())
}

func TestFindGenericViaPkgConfig(t *testing.T) {
	stubPlatform(t, false, false)
	env := fakeEnv(t, fakePkgConfig(t, ""))

	dep, err := Find(env, "testpkg", Options{Required: true, Silent: true})
	require.NoError(t, err)
	assert.True(t, dep.Found())
	assert.Equal(t, "1.2.3", dep.Version())
}

func TestFindRequiredMissingSurfacesProbeError(t *testing.T) {
	stubPlatform(t, false, false)
	env := fakeEnv(t, fakePkgConfig(t, ""))

	_, err := Find(env, "nosuchpkg", Options{Required: true, Silent: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestFindOptionalMissing(t *testing.T) {
	stubPlatform(t, false, false)
	env := fakeEnv(t, fakePkgConfig(t, ""))

	dep, err := Find(env, "nosuchpkg", Options{Silent: true})
	require.NoError(t, err)
	assert.False(t, dep.Found())
}

func TestFindFrameworkFallbackOnMacOS(t *testing.T) {
	stubPlatform(t, false, true)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "SDL2.framework", "Headers"), 0o755))
	env := fakeEnv(t, "")

	dep, err := Find(env, "sdl2", Options{Required: true, Silent: true, Path: dir})
	require.NoError(t, err)
	assert.True(t, dep.Found())
	assert.Contains(t, dep.LinkArgs(), "-framework")

	// Neither probe succeeds: the combined failure is reported.
	_, err = Find(env, "nosuchpkg", Options{Required: true, Silent: true, Path: dir})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestFindRejectsInvalidName(t *testing.T) {
	env := &Environment{Logger: quietLogger()}

	_, err := Find(env, "../evil", Options{Silent: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidName))
}

func TestResolverCachesRecords(t *testing.T) {
	stubPlatform(t, false, false)
	script := fakePkgConfig(t, "")
	env := fakeEnv(t, script)

	store := cache.NewMemoryCache()
	r := NewResolver(env, ResolverOptions{Cache: store})
	ctx := context.Background()

	info, err := r.Resolve(ctx, "testpkg", Options{Silent: true}, false)
	require.NoError(t, err)
	assert.True(t, info.Found)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, 1, store.Len())

	// Break the tool: a cached record must still answer.
	writeFile(t, script, "#!/bin/sh\nexit 1\n", 0o755)
	info, err = r.Resolve(ctx, "testpkg", Options{Silent: true}, false)
	require.NoError(t, err)
	assert.True(t, info.Found, "second lookup should come from the cache")

	// Refresh bypasses the record and re-probes against the broken tool.
	info, err = r.Resolve(ctx, "testpkg", Options{Silent: true}, true)
	require.NoError(t, err)
	assert.False(t, info.Found)
}

func TestResolverAppliesRequiredToCachedRecords(t *testing.T) {
	stubPlatform(t, false, false)
	env := fakeEnv(t, fakePkgConfig(t, ""))

	store := cache.NewMemoryCache()
	r := NewResolver(env, ResolverOptions{Cache: store})
	ctx := context.Background()

	// Optional miss populates the cache with a not-found record.
	info, err := r.Resolve(ctx, "nosuchpkg", Options{Silent: true}, false)
	require.NoError(t, err)
	assert.False(t, info.Found)
	assert.Equal(t, 1, store.Len())

	// The same identity looked up as required hits the cache and still fails.
	_, err = r.Resolve(ctx, "nosuchpkg", Options{Required: true, Silent: true}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.Equal(t, 1, store.Len(), "required must not fragment the cache")
}

// With no explicit backend the resolver still memoizes within the run.
func TestResolverDefaultsToInRunStore(t *testing.T) {
	stubPlatform(t, false, false)
	script := fakePkgConfig(t, "")
	env := fakeEnv(t, script)

	r := NewResolver(env, ResolverOptions{})
	ctx := context.Background()

	info, err := r.Resolve(ctx, "testpkg", Options{Silent: true}, false)
	require.NoError(t, err)
	assert.True(t, info.Found)

	writeFile(t, script, "#!/bin/sh\nexit 1\n", 0o755)
	info, err = r.Resolve(ctx, "testpkg", Options{Silent: true}, false)
	require.NoError(t, err)
	assert.True(t, info.Found, "default store should memoize within the run")
}

func TestResolverRequiredFragmentFree(t *testing.T) {
	a := Identifier("zlib", Options{Required: true}, false)
	b := Identifier("zlib", Options{}, false)
	assert.Equal(t, a, b)
}
