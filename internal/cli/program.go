package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/depprobe/depprobe/pkg/cache"
	"github.com/depprobe/depprobe/pkg/deps"
	"github.com/depprobe/depprobe/pkg/errors"
	"github.com/depprobe/depprobe/pkg/observability"
)

// programRecord is the serialized shape of a program lookup, used for both
// JSON output and cache entries.
type programRecord struct {
	Name    string   `json:"name"`
	Found   bool     `json:"found"`
	Command []string `json:"command,omitempty"`
	Path    string   `json:"path,omitempty"`
}

// programCommand creates the program command for locating executables.
func (c *CLI) programCommand() *cobra.Command {
	var params programParams
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "program <name>",
		Short: "Locate an external executable by name",
		Long: `Locate an external executable by name and print the argument vector
needed to run it.

The search directory (when given) is probed before the process search path.
Scripts that exist but are not directly executable resolve through their
shebang line, so the printed vector may name an interpreter first.

Results are cached locally; --refresh forces a fresh search and
--cache-backend none disables caching entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.asJSON = asJSON
			return c.runProgram(cmd.Context(), args[0], params)
		},
	}

	cmd.Flags().StringVar(&params.searchDir, "search-dir", "", "directory to probe before the process search path")
	cmd.Flags().BoolVar(&params.required, "required", true, "treat absence as fatal")
	cmd.Flags().BoolVar(&params.refresh, "refresh", false, "bypass the cached record and re-search")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the lookup record as JSON")
	cmd.Flags().StringVar(&params.backend, "cache-backend", backendFile, "cache backend: file, redis, none")
	cmd.Flags().StringVar(&params.redisAddr, "redis-addr", "localhost:6379", "redis address for --cache-backend redis")

	return cmd
}

// programParams carries the knobs of the program command.
type programParams struct {
	searchDir string
	required  bool
	refresh   bool
	asJSON    bool
	backend   string
	redisAddr string
}

// runProgram locates the executable and prints the result.
func (c *CLI) runProgram(ctx context.Context, name string, params programParams) error {
	store, err := newCacheBackend(ctx, params.backend, params.redisAddr)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	rec, err := lookupProgram(ctx, store, cache.NewDefaultKeyer(), name, params.searchDir, params.refresh, c.Logger)
	if err != nil {
		return err
	}

	if params.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return err
		}
	} else if rec.Found {
		printSuccess("Program %s found", name)
		printKeyValue("command", strings.Join(rec.Command, " "))
		printKeyValue("path", rec.Path)
	} else {
		printWarning("Program %s not found", name)
	}

	if params.required && !rec.Found {
		return fmt.Errorf("program %s: %w", name,
			errors.New(errors.ErrCodeProgramNotFound, "program %q not found", name))
	}
	return nil
}

// lookupProgram locates the executable, memoizing the record under its
// program key so repeated lookups skip the search-path walk. Refresh
// bypasses the cached record and overwrites it.
func lookupProgram(ctx context.Context, store cache.Cache, keyer cache.Keyer, name, searchDir string, refresh bool, logger *log.Logger) (programRecord, error) {
	key := keyer.ProgramKey(name, searchDir)

	if !refresh {
		if data, ok, err := store.Get(ctx, key); err == nil && ok {
			var rec programRecord
			if err := json.Unmarshal(data, &rec); err == nil {
				observability.Cache().OnCacheHit("program")
				return rec, nil
			}
			// Corrupt entry: fall through to a fresh search.
			_ = store.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss("program")
	}

	prog := deps.FindProgram(name, deps.ProgramOptions{
		SearchDir: searchDir,
		Silent:    true,
		Logger:    logger,
	})
	rec := programRecord{Name: name, Found: prog.Found()}
	if prog.Found() {
		rec.Command = prog.Command()
		rec.Path = prog.Path()
	}

	if data, err := json.Marshal(rec); err == nil {
		if err := store.Set(ctx, key, data, 0); err == nil {
			observability.Cache().OnCacheSet("program", len(data))
		}
	}
	return rec, nil
}
