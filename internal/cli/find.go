package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/depprobe/depprobe/pkg/deps"
	"github.com/depprobe/depprobe/pkg/observability"
)

// findCommand creates the find command for probing a dependency.
func (c *CLI) findCommand() *cobra.Command {
	var (
		versions  []string
		modules   []string
		method    string
		static    bool
		required  bool
		native    bool
		crossFile string
		path      string
		refresh   bool
		asJSON    bool
		backend   string
		redisAddr string
	)

	cmd := &cobra.Command{
		Use:   "find <name>",
		Short: "Probe an external dependency and print its flags",
		Long: `Probe an external dependency and print the compile and link flags
needed to use it.

Generic names are resolved through pkg-config (with a framework-directory
fallback on macOS). The names boost, appleframeworks, threads and python3
dispatch to specialized detectors instead.

Results are cached locally for faster subsequent runs; --refresh forces a
fresh probe and --cache-backend none disables caching entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := deps.Options{
				Required: required,
				Static:   static,
				Method:   deps.Method(method),
				Version:  versions,
				Modules:  modules,
				Path:     path,
				Silent:   asJSON,
			}
			if cmd.Flags().Changed("native") {
				opts.Native = &native
			}
			return c.runFind(cmd.Context(), args[0], opts, findParams{
				crossFile: crossFile,
				refresh:   refresh,
				asJSON:    asJSON,
				backend:   backend,
				redisAddr: redisAddr,
			})
		},
	}

	cmd.Flags().StringArrayVar(&versions, "version", nil, "version requirement such as '>=1.2' (repeatable, all must hold)")
	cmd.Flags().StringSliceVar(&modules, "modules", nil, "sub-modules for modular libraries (boost) or framework names")
	cmd.Flags().StringVar(&method, "method", "auto", "detection method: auto, pkg-config, extraframework, sysconfig, system")
	cmd.Flags().BoolVar(&static, "static", false, "request static link flags")
	cmd.Flags().BoolVar(&required, "required", true, "treat absence and version mismatches as fatal")
	cmd.Flags().BoolVar(&native, "native", false, "probe the build machine instead of the host during a cross build")
	cmd.Flags().StringVar(&crossFile, "cross-file", "", "cross-compilation machine file (TOML)")
	cmd.Flags().StringVar(&path, "path", "", "framework search directory override")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cached record and re-probe")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the lookup record as JSON")
	cmd.Flags().StringVar(&backend, "cache-backend", backendFile, "cache backend: file, redis, none")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis address for --cache-backend redis")

	return cmd
}

// findParams carries the non-lookup knobs of the find command.
type findParams struct {
	crossFile string
	refresh   bool
	asJSON    bool
	backend   string
	redisAddr string
}

// cacheStatusRecorder notes whether the lookup record came from the cache.
type cacheStatusRecorder struct {
	observability.NoopCacheHooks
	hit bool
}

func (r *cacheStatusRecorder) OnCacheHit(string) { r.hit = true }

// runFind probes the dependency and prints the result.
func (c *CLI) runFind(ctx context.Context, name string, opts deps.Options, params findParams) error {
	env, err := c.newEnvironment(params.crossFile)
	if err != nil {
		return err
	}

	status := &cacheStatusRecorder{}
	observability.SetCacheHooks(status)
	defer observability.Reset()
	resolver, err := c.newResolver(ctx, env, params.backend, params.redisAddr)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer resolver.Close()

	var spinner *Spinner
	if !params.asJSON {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Probing %s...", name))
		spinner.Start()
	}

	info, err := resolver.Resolve(ctx, name, opts, params.refresh)
	if err != nil {
		if spinner != nil {
			spinner.StopWithError(fmt.Sprintf("Dependency %s not usable", name))
		}
		return fmt.Errorf("find %s: %w", name, err)
	}
	if spinner != nil {
		spinner.Stop()
	}

	if params.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	printRecord(info)
	printCacheStatus(status.hit)
	return nil
}

// printRecord renders a lookup record for humans.
func printRecord(info deps.Info) {
	if !info.Found {
		printWarning("Dependency %s not found", info.Name)
		return
	}
	printSuccess("Dependency %s found", info.Name)
	printKeyValue("version", info.Version)
	printKeyValue("method", string(info.Method))
	printArgList("compile args", info.CompileArgs)
	printArgList("link args", info.LinkArgs)
	if len(info.Sources) > 0 {
		printArgList("sources", info.Sources)
	}
	if info.NeedThreads {
		printDetail("needs native threading flags")
	}
	if info.Language != "" {
		printKeyValue("language", info.Language)
	}
}
