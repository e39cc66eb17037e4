package deps

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/depprobe/depprobe/pkg/errors"
)

// defaultFrameworkDir is where user-installed macOS frameworks live.
const defaultFrameworkDir = "/Library/Frameworks"

// AppleFrameworks links against system frameworks shipped with macOS. The
// frameworks are part of the OS, so detection is trivial: the dependency is
// found exactly when running on macOS, and the link line names each
// requested framework.
type AppleFrameworks struct {
	frameworks []string
}

// NewAppleFrameworks builds the system-framework dependency. At least one
// framework module must be requested.
func NewAppleFrameworks(env *Environment, opts Options) (*AppleFrameworks, error) {
	if _, err := selectMethods(opts.Method, []Method{MethodSystem}); err != nil {
		return nil, err
	}
	if len(opts.Modules) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidOption,
			"appleframeworks dependency requires at least one module")
	}
	a := &AppleFrameworks{frameworks: append([]string(nil), opts.Modules...)}
	if !opts.Silent {
		env.logger().Info("Dependency appleframeworks",
			"modules", strings.Join(a.frameworks, ", "), "found", a.Found())
	}
	return a, nil
}

// Name returns "appleframeworks".
func (a *AppleFrameworks) Name() string { return "appleframeworks" }

// Found reports true on macOS.
func (a *AppleFrameworks) Found() bool { return isOSX() }

// Version returns "unknown": system frameworks carry no queryable version.
func (a *AppleFrameworks) Version() string { return "unknown" }

// CompileArgs returns nil: system frameworks need no compile flags.
func (a *AppleFrameworks) CompileArgs() []string { return nil }

// LinkArgs returns a -framework pair per requested module.
func (a *AppleFrameworks) LinkArgs() []string {
	var args []string
	for _, f := range a.frameworks {
		args = append(args, "-framework", f)
	}
	return args
}

// Sources returns nil.
func (a *AppleFrameworks) Sources() []string { return nil }

// NeedThreads reports false.
func (a *AppleFrameworks) NeedThreads() bool { return false }

// Methods returns the applicable method subset.
func (a *AppleFrameworks) Methods() []Method { return []Method{MethodSystem} }

// Language returns "".
func (a *AppleFrameworks) Language() string { return "" }

// ExtraFramework locates a framework bundle outside the system set by
// scanning a frameworks directory for a bundle whose name matches
// case-insensitively. Used both directly and as the macOS fallback when
// pkg-config knows nothing about a dependency.
type ExtraFramework struct {
	name   string // requested name
	dir    string // directory the bundle was found in
	bundle string // on-disk bundle name, e.g. "OpenGL.framework"
}

// NewExtraFramework searches for a framework bundle. An empty search path
// means the conventional /Library/Frameworks.
func NewExtraFramework(env *Environment, name string, opts Options) (*ExtraFramework, error) {
	if _, err := selectMethods(opts.Method, []Method{MethodExtraFramework}); err != nil {
		return nil, err
	}
	e := &ExtraFramework{name: name}
	searchDir := opts.Path
	if searchDir == "" {
		searchDir = defaultFrameworkDir
	}
	e.detect(searchDir)

	if !opts.Silent {
		logger := env.logger()
		if e.Found() {
			logger.Info("Dependency found", "name", name, "path", filepath.Join(e.dir, e.bundle))
		} else {
			logger.Info("Dependency not found", "name", name)
		}
	}
	return e, nil
}

// detect scans the directory for a bundle whose name before the first dot
// matches case-insensitively. Only directories count as bundles.
func (e *ExtraFramework) detect(dir string) {
	lname := strings.ToLower(e.name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		stem, _, _ := strings.Cut(entry.Name(), ".")
		if strings.ToLower(stem) != lname {
			continue
		}
		fi, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil || !fi.IsDir() {
			continue
		}
		e.dir = dir
		e.bundle = entry.Name()
		return
	}
}

// Name returns the requested framework name.
func (e *ExtraFramework) Name() string { return e.name }

// Found reports whether a matching bundle exists.
func (e *ExtraFramework) Found() bool { return e.bundle != "" }

// Version returns "unknown": framework bundles carry no queryable version.
func (e *ExtraFramework) Version() string { return "unknown" }

// CompileArgs points the compiler at the bundle's Headers directory.
func (e *ExtraFramework) CompileArgs() []string {
	if !e.Found() {
		return nil
	}
	return []string{"-I" + filepath.Join(e.dir, e.bundle, "Headers")}
}

// LinkArgs names the search directory and the framework.
func (e *ExtraFramework) LinkArgs() []string {
	if !e.Found() {
		return nil
	}
	stem, _, _ := strings.Cut(e.bundle, ".")
	return []string{"-F" + e.dir, "-framework", stem}
}

// Sources returns nil.
func (e *ExtraFramework) Sources() []string { return nil }

// NeedThreads reports false.
func (e *ExtraFramework) NeedThreads() bool { return false }

// Methods returns the applicable method subset.
func (e *ExtraFramework) Methods() []Method { return []Method{MethodExtraFramework} }

// Language returns "".
func (e *ExtraFramework) Language() string { return "" }

var (
	_ Dependency = (*AppleFrameworks)(nil)
	_ Dependency = (*ExtraFramework)(nil)
)
