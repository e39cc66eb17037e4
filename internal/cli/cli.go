// Package cli implements the depprobe command-line interface.
//
// This package provides commands for probing external C/C++ dependencies,
// locating external programs, and managing the lookup cache. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - find: Probe an external dependency and print its flags
//   - program: Locate an external executable by name
//   - cache: Manage the dependency lookup cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
//
// # Example
//
//	import "github.com/depprobe/depprobe/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/depprobe/depprobe/pkg/buildinfo"
	"github.com/depprobe/depprobe/pkg/cache"
	"github.com/depprobe/depprobe/pkg/deps"
	"github.com/depprobe/depprobe/pkg/errors"
	"github.com/depprobe/depprobe/pkg/machine"
	"github.com/depprobe/depprobe/pkg/toolchain"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "depprobe"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Cache backends selectable via --cache-backend.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "depprobe",
		Short:        "Depprobe detects external C/C++ dependencies",
		Long:         `Depprobe answers whether a third-party library or tool is installed and, if so, which compiler and linker flags are needed to use it. It wraps pkg-config, framework-directory scans and a handful of specialized detectors behind one uniform interface.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.findCommand())
	root.AddCommand(c.programCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Environment & Resolver Factories
// =============================================================================

// newEnvironment assembles the lookup environment: the cross file (when one
// is named) and the ambient compiler.
func (c *CLI) newEnvironment(crossFile string) (*deps.Environment, error) {
	env := &deps.Environment{
		Compiler: &toolchain.PathCompiler{},
		Logger:   c.Logger,
	}
	if crossFile != "" {
		cfg, err := machine.Load(crossFile)
		if err != nil {
			return nil, err
		}
		env.Machine = cfg
	}
	return env, nil
}

// newResolver wires a resolver with the selected cache backend. Cross
// lookups get a scoped keyer so they never share entries with native ones.
func (c *CLI) newResolver(ctx context.Context, env *deps.Environment, backend, redisAddr string) (*deps.Resolver, error) {
	store, err := newCacheBackend(ctx, backend, redisAddr)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if env.IsCrossBuild() {
		keyer = cache.NewScopedKeyer(nil, "cross:")
	}
	return deps.NewResolver(env, deps.ResolverOptions{Cache: store, Keyer: keyer}), nil
}

// newCacheBackend builds the storage backend named by --cache-backend.
func newCacheBackend(ctx context.Context, backend, redisAddr string) (cache.Cache, error) {
	switch backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
	case backendFile:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
	return nil, errors.New(errors.ErrCodeInvalidOption,
		"unknown cache backend %q, allowed backends are file, redis, none", backend)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/depprobe/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
