package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/depprobe/depprobe/pkg/errors"
)

// pkgConfigRole is the cross-file tool role for the metadata tool.
const pkgConfigRole = "pkgconfig"

// The native pkg-config path is resolved once per process and reused for
// every subsequent native lookup: single writer, first successful
// resolution wins. Cross lookups resolve their own binary from the cross
// file and never touch this.
var (
	nativePkgBinGroup singleflight.Group
	nativePkgBinMu    sync.Mutex
	nativePkgBin      *string // nil: not searched yet; "": searched, absent
)

// resetNativePkgConfig clears the process-wide memoized path. Tests only.
func resetNativePkgConfig() {
	nativePkgBinMu.Lock()
	nativePkgBin = nil
	nativePkgBinMu.Unlock()
}

// checkPkgConfig locates the native pkg-config binary, honoring the
// PKG_CONFIG environment override, and sanity-checks it with --version.
// Returns "" when no working binary exists.
func checkPkgConfig(logger *log.Logger, silent bool) string {
	pkgbin := "pkg-config"
	if evar := strings.TrimSpace(os.Getenv("PKG_CONFIG")); evar != "" {
		pkgbin = evar
	}
	out, err := exec.Command(pkgbin, "--version").Output()
	if err != nil {
		if !silent {
			logger.Info("Found pkg-config: NO")
		}
		return ""
	}
	if !filepath.IsAbs(pkgbin) {
		// Sometimes a path lookup fails where running succeeds, so only
		// take the absolute path when the lookup agrees it exists.
		if abs, lerr := exec.LookPath(pkgbin); lerr == nil {
			pkgbin = abs
		}
	}
	if !silent {
		logger.Info("Found pkg-config", "path", pkgbin, "version", strings.TrimSpace(string(out)))
	}
	return pkgbin
}

// nativePkgConfig returns the memoized native pkg-config path, resolving it
// on first use.
func nativePkgConfig(logger *log.Logger, silent bool) string {
	nativePkgBinMu.Lock()
	if nativePkgBin != nil {
		path := *nativePkgBin
		nativePkgBinMu.Unlock()
		return path
	}
	nativePkgBinMu.Unlock()

	v, _, _ := nativePkgBinGroup.Do(pkgConfigRole, func() (any, error) {
		path := checkPkgConfig(logger, silent)
		nativePkgBinMu.Lock()
		if nativePkgBin == nil {
			nativePkgBin = &path
		} else {
			path = *nativePkgBin
		}
		nativePkgBinMu.Unlock()
		return path, nil
	})
	return v.(string)
}

// PkgConfig resolves a dependency through the pkg-config metadata tool.
type PkgConfig struct {
	name        string
	env         *Environment
	required    bool
	static      bool
	silent      bool
	wantCross   bool
	found       bool
	isLibtool   bool
	version     string
	compileArgs []string
	linkArgs    []string
	unmet       []string
	met         []string
	pkgbin      string
}

// typeString distinguishes native from cross lookups in messages.
func (p *PkgConfig) typeString() string {
	if p.wantCross {
		return "Cross"
	}
	return "Native"
}

// NewPkgConfig probes a dependency with pkg-config.
//
// A required dependency that is absent, fails its version requirements, or
// has no working pkg-config at all produces an error. An optional one
// degrades to a not-found result for those cases. A located tool that fails
// on --cflags or --libs is always an error: at that point existence is
// confirmed, so the failure indicates a broken installation.
func NewPkgConfig(env *Environment, name string, opts Options) (*PkgConfig, error) {
	if _, err := selectMethods(opts.Method, []Method{MethodPkgConfig}); err != nil {
		return nil, err
	}

	p := &PkgConfig{
		name:      name,
		env:       env,
		required:  opts.Required,
		static:    opts.Static,
		silent:    opts.Silent,
		wantCross: env.WantCross(opts.Native),
		version:   "none",
	}
	logger := env.logger()

	if err := p.resolveTool(logger); err != nil {
		return nil, err
	}
	if p.pkgbin == "" {
		if p.required {
			return nil, errors.New(errors.ErrCodeToolNotFound, "pkg-config not found")
		}
		return p, nil
	}

	logger.Debug("Determining dependency with pkg-config", "name", name, "pkgbin", p.pkgbin)

	ret, out := p.callPkgBin("--modversion", name)
	if ret != 0 {
		if p.required {
			return nil, errors.New(errors.ErrCodeNotFound,
				"%s dependency %q not found", p.typeString(), name)
		}
		return p, nil
	}
	p.version = out

	if len(opts.Version) > 0 {
		ok, unmet, met, err := CompareMany(p.version, opts.Version)
		if err != nil {
			return nil, err
		}
		p.unmet, p.met = unmet, met
		if !ok {
			if !p.silent {
				logger.Info("Dependency version mismatch",
					"name", name, "found", p.version,
					"need", strings.Join(unmet, ", "),
					"matched", strings.Join(met, ", "))
			}
			if p.required {
				return nil, errors.New(errors.ErrCodeVersionMismatch,
					"invalid version of dependency %q, need %v found %q",
					name, unmet, p.version)
			}
			return p, nil
		}
	}

	if err := p.setCompileArgs(); err != nil {
		return nil, err
	}
	if err := p.setLinkArgs(); err != nil {
		return nil, err
	}
	p.found = true

	// Logged only at the very end: fetching cflags and libs can still fail
	// when other needed pkg-config files are missing.
	if !p.silent {
		logger.Info("Dependency found", "type", p.typeString(), "name", name, "version", p.version)
	}
	return p, nil
}

// resolveTool determines which pkg-config binary this lookup uses. Cross
// lookups use the binary named in the cross file and are resolved
// independently; native lookups share the process-wide memoized path.
func (p *PkgConfig) resolveTool(logger *log.Logger) error {
	if p.env != nil && p.env.PkgConfig != nil {
		if p.env.PkgConfig.Found() {
			p.pkgbin = p.env.PkgConfig.Command()[0]
		}
		return nil
	}
	if p.wantCross {
		binName, ok := p.env.Machine.Binary(pkgConfigRole)
		if !ok {
			if p.required {
				return errors.New(errors.ErrCodeInvalidConfig,
					"pkg-config binary missing from cross file")
			}
			return nil
		}
		prog := FindProgram(binName, ProgramOptions{Silent: true, Logger: logger})
		if prog.Found() {
			p.pkgbin = prog.Command()[0]
		} else {
			logger.Debug("Cross pkg-config not found", "binary", binName)
		}
		return nil
	}
	p.pkgbin = nativePkgConfig(logger, p.silent)
	return nil
}

// callPkgBin invokes the metadata tool and returns the exit code and
// trimmed stdout.
func (p *PkgConfig) callPkgBin(args ...string) (int, string) {
	cmd := exec.Command(p.pkgbin, args...)
	cmd.Env = os.Environ()
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), strings.TrimSpace(string(out) + string(exitErr.Stderr))
		}
		return -1, err.Error()
	}
	return 0, strings.TrimSpace(string(out))
}

// setCompileArgs fetches the compile flags. Failure here is always fatal:
// existence was already confirmed by --modversion.
func (p *PkgConfig) setCompileArgs() error {
	ret, out := p.callPkgBin("--cflags", p.name)
	if ret != 0 {
		return errors.New(errors.ErrCodeToolFailure,
			"could not generate cflags for %s:\n\n%s", p.name, out)
	}
	p.compileArgs = strings.Fields(out)
	return nil
}

// setLinkArgs fetches the link flags, rewriting libtool archive descriptors
// to the shared libraries they describe.
func (p *PkgConfig) setLinkArgs() error {
	args := []string{p.name, "--libs"}
	if p.static {
		args = append(args, "--static")
	}
	ret, out := p.callPkgBin(args...)
	if ret != 0 {
		return errors.New(errors.ErrCodeToolFailure,
			"could not generate libs for %s:\n\n%s", p.name, out)
	}
	p.linkArgs = nil
	for _, lib := range strings.Fields(out) {
		if strings.HasSuffix(lib, ".la") {
			resolved, err := p.resolveLibtoolArg(lib)
			if err != nil {
				return err
			}
			lib = resolved
			p.isLibtool = true
		}
		p.linkArgs = append(p.linkArgs, lib)
	}
	return nil
}

// resolveLibtoolArg maps a .la descriptor path to the shared library it
// records, trying the conventional hidden .libs subdirectory when the
// direct sibling path does not exist.
func (p *PkgConfig) resolveLibtoolArg(laFile string) (string, error) {
	shlibName := extractLibtoolShlib(laFile)
	if shlibName != "" {
		dir := filepath.Dir(laFile)
		shlib := filepath.Join(dir, shlibName)
		if _, err := os.Stat(shlib); err == nil {
			return shlib, nil
		}
		shlib = filepath.Join(dir, ".libs", shlibName)
		if _, err := os.Stat(shlib); err == nil {
			return shlib, nil
		}
	}
	return "", errors.New(errors.ErrCodeToolFailure,
		"got a libtool dependency %q but could not compute the actual shared library path", laFile)
}

// Variable queries a pkg-config variable such as "prefix". A failing query
// on a located dependency indicates a broken installation, so the error is
// fatal regardless of required.
func (p *PkgConfig) Variable(name string) (string, error) {
	ret, out := p.callPkgBin("--variable="+name, p.name)
	if ret != 0 {
		return "", errors.New(errors.ErrCodeToolFailure,
			"could not query variable %q of %s:\n\n%s", name, p.name, out)
	}
	p.env.logger().Debug("Got pkg-config variable", "variable", name, "value", out)
	return out, nil
}

// Name returns the dependency name.
func (p *PkgConfig) Name() string { return p.name }

// Found reports whether the dependency was located.
func (p *PkgConfig) Found() bool { return p.found }

// Version returns the module version reported by the tool.
func (p *PkgConfig) Version() string { return p.version }

// CompileArgs returns the compile flags.
func (p *PkgConfig) CompileArgs() []string {
	return append([]string(nil), p.compileArgs...)
}

// LinkArgs returns the link flags.
func (p *PkgConfig) LinkArgs() []string {
	return append([]string(nil), p.linkArgs...)
}

// Sources returns nil: pkg-config dependencies carry no extra sources.
func (p *PkgConfig) Sources() []string { return nil }

// NeedThreads reports false for pkg-config dependencies.
func (p *PkgConfig) NeedThreads() bool { return false }

// Methods returns the applicable method subset.
func (p *PkgConfig) Methods() []Method { return []Method{MethodPkgConfig} }

// Language returns "" for plain library dependencies.
func (p *PkgConfig) Language() string { return "" }

// IsLibtool reports whether any link argument came from a libtool
// descriptor.
func (p *PkgConfig) IsLibtool() bool { return p.isLibtool }

// UnmetRequirements returns the version requirements that failed, if any.
func (p *PkgConfig) UnmetRequirements() []string {
	return append([]string(nil), p.unmet...)
}

// MetRequirements returns the version requirements that held, if any.
func (p *PkgConfig) MetRequirements() []string {
	return append([]string(nil), p.met...)
}

// Ensure PkgConfig implements Dependency.
var _ Dependency = (*PkgConfig)(nil)
