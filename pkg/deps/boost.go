package deps

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/depprobe/depprobe/pkg/errors"
)

// boostName2Lib maps boost module names to the library names they link
// against when the two differ.
var boostName2Lib = map[string]string{
	"test": "unit_test_framework",
}

// Boost detects the Boost C++ libraries by scanning the filesystem. Boost
// publishes no pkg-config metadata, so the detector resolves a root
// directory, parses the version macro out of a header, enumerates header
// modules and installed compiled libraries, and synthesizes link flags,
// deferring to the ambient compiler's own library search first.
type Boost struct {
	env      *Environment
	root     string // BOOST_ROOT or platform-conventional root; may be ""
	incDir   string
	boostInc string // <incDir>/boost
	libDir   string // windows only: the discovered lib32*/lib64* directory
	version  string

	srcModules   map[string]bool   // header modules under <incDir>/boost
	libModules   map[string]bool   // plain compiled modules (unix)
	libModulesMT map[string]string // threaded variants; windows maps to filename
	requested    []string
	wantCross    bool
}

// NewBoost constructs the boost detector. Requested modules that are not
// present among the discovered header modules are a fatal error regardless
// of compiled-library availability.
func NewBoost(env *Environment, opts Options) (*Boost, error) {
	if _, err := selectMethods(opts.Method, nil); err != nil {
		return nil, err
	}
	if env == nil || env.Compiler == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"tried to use boost but no C++ compiler is defined")
	}

	b := &Boost{
		env:          env,
		wantCross:    env.WantCross(opts.Native),
		srcModules:   make(map[string]bool),
		libModules:   make(map[string]bool),
		libModulesMT: make(map[string]string),
		requested:    append([]string(nil), opts.Modules...),
	}
	if err := b.resolveRoot(); err != nil {
		return nil, err
	}
	b.boostInc = filepath.Join(b.incDir, "boost")
	env.logger().Debug("Boost library root dir", "root", b.root)

	b.detectVersion()
	if b.version != "" {
		b.detectSrcModules()
		b.detectLibModules()
		if err := b.validateRequested(); err != nil {
			return nil, err
		}
	}

	if !opts.Silent {
		moduleStr := strings.Join(b.requested, ", ")
		if b.version != "" {
			env.logger().Info("Dependency boost found", "modules", moduleStr, "version", b.version)
		} else {
			env.logger().Info("Dependency boost not found", "modules", moduleStr)
		}
	}
	return b, nil
}

// resolveRoot determines the boost root and include directories from the
// environment overrides, the platform convention, or the default include
// path.
func (b *Boost) resolveRoot() error {
	if root := os.Getenv("BOOST_ROOT"); root != "" {
		if !filepath.IsAbs(root) {
			return errors.New(errors.ErrCodeInvalidConfig, "BOOST_ROOT must be an absolute path")
		}
		b.root = root
		if isWindows() {
			b.incDir = b.root
		} else {
			b.incDir = filepath.Join(b.root, "include")
		}
		return nil
	}
	if b.wantCross {
		incDir := os.Getenv("BOOST_INCLUDEDIR")
		if incDir == "" {
			return errors.New(errors.ErrCodeInvalidConfig,
				"BOOST_ROOT or BOOST_INCLUDEDIR is needed while cross-compiling")
		}
		b.incDir = incDir
		return nil
	}
	if isWindows() {
		b.root = detectBoostWinRoot()
		b.incDir = b.root
		return nil
	}
	if incDir := os.Getenv("BOOST_INCLUDEDIR"); incDir != "" {
		b.incDir = incDir
	} else {
		b.incDir = "/usr/include"
	}
	return nil
}

// detectBoostWinRoot guesses the conventional boost install location on
// Windows.
func detectBoostWinRoot() string {
	files, _ := filepath.Glob(`c:\local\boost_*`)
	if len(files) > 0 {
		return files[0]
	}
	return `C:\`
}

// detectVersion parses the BOOST_LIB_VERSION macro from version.hpp.
// Boost encodes the version with underscores ("1_66" means 1.66).
func (b *Boost) detectVersion() {
	f, err := os.Open(filepath.Join(b.boostInc, "version.hpp"))
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "#define") || !strings.Contains(line, "BOOST_LIB_VERSION") {
			continue
		}
		fields := strings.Fields(line)
		ver := fields[len(fields)-1]
		ver = strings.Trim(ver, `"`)
		b.version = strings.ReplaceAll(ver, "_", ".")
		return
	}
}

// detectSrcModules enumerates header modules: every subdirectory of the
// boost include namespace is an available source module.
func (b *Boost) detectSrcModules() {
	entries, err := os.ReadDir(b.boostInc)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			b.srcModules[entry.Name()] = true
		}
	}
}

// detectLibModules enumerates installed compiled libraries.
func (b *Boost) detectLibModules() {
	if isWindows() {
		b.detectLibModulesWin()
		return
	}
	b.detectLibModulesNix()
}

// detectLibModulesWin globs the decorated Windows library filenames and
// records a module-name to filename map.
func (b *Boost) detectLibModulesWin() {
	var glob string
	switch b.env.HostCPUFamily() {
	case "x86":
		glob = "lib32*"
	case "x86_64":
		glob = "lib64*"
	default:
		return
	}
	libDirs, _ := filepath.Glob(filepath.Join(b.root, glob))
	if len(libDirs) == 0 {
		return
	}
	b.libDir = libDirs[0]

	entries, _ := filepath.Glob(filepath.Join(b.libDir, "boost_*-gd-*.lib"))
	for _, entry := range entries {
		fname := filepath.Base(entry)
		_, base, ok := strings.Cut(fname, "_")
		if !ok {
			continue
		}
		modName, _, _ := strings.Cut(base, "-")
		b.libModulesMT[modName] = fname
	}
}

// detectLibModulesNix globs the shared-library naming pattern and derives
// bare module names, tracking "-mt" threading-suffixed builds separately.
// Some distributions ship modules such as thread only as -mt variants.
func (b *Boost) detectLibModulesNix() {
	libSuffix := "so"
	if isOSX() {
		libSuffix = "dylib"
	}
	glob := "libboost_*." + libSuffix

	var libDirs []string
	if dir := os.Getenv("BOOST_LIBRARYDIR"); dir != "" {
		libDirs = []string{dir}
	} else if b.root == "" {
		libDirs = systemLibraryDirs()
	} else {
		libDirs = []string{filepath.Join(b.root, "lib")}
	}

	for _, libDir := range libDirs {
		entries, _ := filepath.Glob(filepath.Join(libDir, glob))
		for _, entry := range entries {
			lib := filepath.Base(entry)
			stem, _, _ := strings.Cut(lib, ".")
			_, name, ok := strings.Cut(stem, "_")
			if !ok {
				continue
			}
			if strings.HasSuffix(entry, "-mt."+libSuffix) {
				b.libModulesMT[name] = ""
			} else {
				b.libModules[name] = true
			}
		}
	}
}

// validateRequested checks every explicitly requested module against the
// discovered header modules.
func (b *Boost) validateRequested() error {
	for _, m := range b.requested {
		if !b.srcModules[m] {
			return errors.New(errors.ErrCodeModuleNotFound,
				"requested boost module %q not found", m)
		}
	}
	return nil
}

// Name returns "boost".
func (b *Boost) Name() string { return "boost" }

// Found reports whether a boost version header was located.
func (b *Boost) Found() bool { return b.version != "" }

// Version returns the parsed boost version.
func (b *Boost) Version() string { return b.version }

// SourceModules returns the discovered header modules. Intended for
// diagnostics.
func (b *Boost) SourceModules() []string {
	var out []string
	for m := range b.srcModules {
		out = append(out, m)
	}
	return sortedCopy(out)
}

// CompileArgs points the compiler at the boost headers. System-include
// arguments are used except for the default include directories, where they
// are both unnecessary and known to break libstdc++ headers on some gcc
// versions.
func (b *Boost) CompileArgs() []string {
	includeDir := b.incDir
	if b.root != "" {
		if isWindows() {
			includeDir = b.root
		} else {
			includeDir = filepath.Join(b.root, "include")
		}
	}
	if includeDir == "/usr/include" || includeDir == "/usr/local/include" {
		return nil
	}
	return b.env.Compiler.IncludeArgs(includeDir, true)
}

// LinkArgs synthesizes the link flags for the requested modules. The
// ambient compiler's own library search is the most reliable signal, so it
// is consulted first; the manually discovered library lists are the
// fallback, preferring a threading-suffixed variant when the bare module
// is absent.
func (b *Boost) LinkArgs() []string {
	if isWindows() {
		return b.winLinkArgs()
	}
	var args []string
	if b.root != "" {
		args = append(args, "-L"+filepath.Join(b.root, "lib"))
	} else if dir := os.Getenv("BOOST_LIBRARYDIR"); dir != "" {
		args = append(args, "-L"+dir)
	}
	for _, module := range b.requested {
		if alias, ok := boostName2Lib[module]; ok {
			module = alias
		}
		libName := "boost_" + module
		if detected := b.env.Compiler.FindLibrary(libName); detected != nil {
			args = append(args, detected...)
			// The unit testing framework additionally needs its companion
			// execution monitor library.
			if module == "unit_testing_framework" {
				args = append(args, b.env.Compiler.FindLibrary("boost_test_exec_monitor")...)
			}
			continue
		}
		switch {
		case b.libModules[module] || b.hasMT(module):
			args = append(args, "-l"+libName)
			if module == "unit_testing_framework" {
				args = append(args, "-lboost_test_exec_monitor")
			}
		case b.hasMT(module + "-mt"):
			args = append(args, "-l"+libName+"-mt")
			if module == "unit_testing_framework" {
				args = append(args, "-lboost_test_exec_monitor-mt")
			}
		}
	}
	return args
}

// hasMT reports whether a threaded variant with the given recorded name
// exists.
func (b *Boost) hasMT(name string) bool {
	_, ok := b.libModulesMT[name]
	return ok
}

// winLinkArgs emits the decorated Windows filenames directly.
func (b *Boost) winLinkArgs() []string {
	var args []string
	if b.root != "" {
		args = append(args, "-L"+b.libDir)
	}
	for _, module := range b.requested {
		if alias, ok := boostName2Lib[module]; ok {
			module = alias
		}
		if fname, ok := b.libModulesMT[module]; ok {
			args = append(args, fname)
		}
	}
	return args
}

// Sources returns nil: boost contributes no extra sources.
func (b *Boost) Sources() []string { return nil }

// NeedThreads reports whether the thread module was requested.
func (b *Boost) NeedThreads() bool {
	for _, m := range b.requested {
		if m == "thread" {
			return true
		}
	}
	return false
}

// Methods returns the applicable method subset.
func (b *Boost) Methods() []Method { return []Method{MethodAuto} }

// Language returns "" — boost is consumed as a C++ library.
func (b *Boost) Language() string { return "" }

// systemLibraryDirs lives behind a variable so tests can point module
// discovery at a scratch directory.
var systemLibraryDirs = func() []string {
	if isOSX() {
		return []string{"/usr/local/lib", "/opt/homebrew/lib", "/usr/lib"}
	}
	return []string{"/usr/lib/x86_64-linux-gnu", "/usr/lib64", "/usr/lib", "/usr/local/lib"}
}

// Ensure Boost implements Dependency.
var _ Dependency = (*Boost)(nil)
