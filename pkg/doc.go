// Package pkg provides the core libraries for depprobe dependency detection.
//
// # Overview
//
// Depprobe answers whether an external C/C++ library or tool is installed
// and, if so, which compiler and linker flags are needed to use it. The pkg
// directory is organized as follows:
//
//  1. [deps] - Detection logic (pkg-config probe, specialized detectors,
//     program locator, version matcher, caching resolver)
//  2. [cache] - Storage backends for memoized lookups (file, memory, redis)
//  3. [machine] - Cross-compilation machine files
//  4. [toolchain] - The narrow compiler surface detection consults
//  5. [errors] - Structured error codes shared by CLI and library
//  6. [observability] - Optional instrumentation hooks
//
// # Quick Start
//
// Probe a dependency and read its flags:
//
//	import "github.com/depprobe/depprobe/pkg/deps"
//
//	env := &deps.Environment{Compiler: &toolchain.PathCompiler{}}
//	dep, err := deps.Find(env, "zlib", deps.Options{
//	    Required: true,
//	    Version:  []string{">=1.2"},
//	})
//	if err != nil {
//	    // absent, version mismatch, or broken tooling
//	}
//	cflags, libs := dep.CompileArgs(), dep.LinkArgs()
//
// Add identity-keyed caching on top:
//
//	store, _ := cache.NewFileCache(dir)
//	r := deps.NewResolver(env, deps.ResolverOptions{Cache: store})
//	info, err := r.Resolve(ctx, "zlib", deps.Options{Required: true}, false)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...        # All tests
//	go test ./pkg/deps/...   # Detection logic only
//
// [deps]: https://pkg.go.dev/github.com/depprobe/depprobe/pkg/deps
// [cache]: https://pkg.go.dev/github.com/depprobe/depprobe/pkg/cache
// [machine]: https://pkg.go.dev/github.com/depprobe/depprobe/pkg/machine
// [toolchain]: https://pkg.go.dev/github.com/depprobe/depprobe/pkg/toolchain
// [errors]: https://pkg.go.dev/github.com/depprobe/depprobe/pkg/errors
// [observability]: https://pkg.go.dev/github.com/depprobe/depprobe/pkg/observability
package pkg
