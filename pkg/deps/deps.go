// Package deps implements external dependency detection.
//
// A dependency lookup asks whether a third-party library or tool is
// installed and, if so, which compiler and linker flags are needed to use
// it. Detection abstracts over several discovery strategies: pkg-config
// metadata, macOS framework bundles, the compiler's own library search, and
// Python interpreter introspection. Every strategy yields the same uniform,
// immutable result.
//
// # Detectors
//
// Generic packages go through the pkg-config probe. A small closed set of
// names dispatches to specialized detectors instead: "boost",
// "appleframeworks", "threads" and "python3". Find is the entry point; the
// Resolver type adds identity-keyed caching on top.
//
// # Failure model
//
// Four error classes exist. Invalid options and misbehaving tools are
// always fatal. Absence and version mismatches are fatal only when the
// lookup was marked required; otherwise they produce a not-found result.
// All lookups are synchronous and blocking: each detector performs its
// subprocess and filesystem probes in sequence, exactly once per method.
package deps

import (
	"runtime"
	"sort"
	"strings"

	"github.com/depprobe/depprobe/pkg/errors"
)

// Method identifies one detection mechanism. The set is closed; detectors
// declare which subset applies to them.
type Method string

// The closed set of detection methods.
const (
	// MethodAuto tries every applicable method in priority order.
	MethodAuto Method = "auto"
	// MethodPkgConfig queries the pkg-config metadata tool.
	MethodPkgConfig Method = "pkg-config"
	// MethodQmake queries the qmake build tool.
	MethodQmake Method = "qmake"
	// MethodSystem assumes the operating system provides the library and
	// emits the standard link arguments unconditionally.
	MethodSystem Method = "system"
	// MethodSDLConfig queries the sdl2-config helper script.
	MethodSDLConfig Method = "sdlconfig"
	// MethodExtraFramework searches the macOS frameworks directory by name.
	MethodExtraFramework Method = "extraframework"
	// MethodSysConfig introspects the Python interpreter's sysconfig module.
	MethodSysConfig Method = "sysconfig"
)

// Dependency is the capability set every detector implements. Results are
// immutable once constructed; accessors return copies of slice data.
type Dependency interface {
	// Name returns the logical dependency name.
	Name() string
	// Found reports whether the dependency was located.
	Found() bool
	// Version returns the resolved version, or "unknown" when the detection
	// method cannot determine one.
	Version() string
	// CompileArgs returns the compile flags needed to use the dependency.
	CompileArgs() []string
	// LinkArgs returns the link flags needed to use the dependency.
	LinkArgs() []string
	// Sources returns extra source files that must be compiled into the
	// consumer (for example gtest-all.cc style bundled sources).
	Sources() []string
	// NeedThreads reports whether native threading flags are required
	// downstream.
	NeedThreads() bool
	// Methods returns the applicable method subset for this detector.
	Methods() []Method
	// Language returns the toolchain language tag when the dependency is
	// itself written in another toolchain, or "" for plain C/C++ libraries.
	Language() string
}

// Options configures a dependency lookup.
type Options struct {
	// Required makes absence and version mismatches fatal. The zero value
	// means optional; the CLI defaults its flag to true.
	Required bool

	// Static requests static link flags from the metadata tool.
	Static bool

	// Silent suppresses the found/not-found log lines.
	Silent bool

	// Method restricts detection to a single mechanism. Empty or
	// MethodAuto tries every applicable method.
	Method Method

	// Version holds version requirements such as ">=2.0". All must hold.
	Version []string

	// Modules lists requested sub-modules for modular libraries (boost) or
	// framework names (appleframeworks).
	Modules []string

	// Native selects the build machine instead of the host machine during a
	// cross build. Nil means "follow the build type".
	Native *bool

	// Path overrides the search directory for framework detection.
	Path string
}

// selectMethods validates an explicitly requested method against the
// detector's supported subset. MethodAuto (or empty) expands to the full
// subset. An unsupported request is a configuration error naming the
// allowed methods.
func selectMethods(requested Method, supported []Method) ([]Method, error) {
	if len(supported) == 0 {
		supported = []Method{MethodAuto}
	}
	if requested == "" || requested == MethodAuto {
		return supported, nil
	}
	for _, m := range supported {
		if m == requested {
			return []Method{requested}, nil
		}
	}
	allowed := []string{string(MethodAuto)}
	for _, m := range supported {
		allowed = append(allowed, string(m))
	}
	return nil, errors.New(errors.ErrCodeInvalidMethod,
		"unsupported detection method %q, allowed methods are %s",
		requested, strings.Join(allowed, ", "))
}

// Info is the immutable record of a lookup, suitable for serialization and
// caching. A not-found record always carries empty flag and source lists.
type Info struct {
	Name        string   `json:"name"`
	Found       bool     `json:"found"`
	Version     string   `json:"version,omitempty"`
	Method      Method   `json:"method,omitempty"`
	CompileArgs []string `json:"compile_args,omitempty"`
	LinkArgs    []string `json:"link_args,omitempty"`
	Sources     []string `json:"sources,omitempty"`
	NeedThreads bool     `json:"need_threads,omitempty"`
	Language    string   `json:"language,omitempty"`
}

// Snapshot captures a dependency as an Info record, enforcing the
// found=false invariant (no flags, no sources).
func Snapshot(d Dependency) Info {
	info := Info{
		Name:  d.Name(),
		Found: d.Found(),
	}
	if !d.Found() {
		return info
	}
	info.Version = d.Version()
	if info.Version == "" {
		info.Version = "unknown"
	}
	info.Method = usedMethod(d)
	info.CompileArgs = append([]string(nil), d.CompileArgs()...)
	info.LinkArgs = append([]string(nil), d.LinkArgs()...)
	info.Sources = append([]string(nil), d.Sources()...)
	info.NeedThreads = d.NeedThreads()
	info.Language = d.Language()
	return info
}

// methodRecorder is implemented by detectors that can succeed through more
// than one method and record the one that actually did.
type methodRecorder interface {
	UsedMethod() Method
}

// usedMethod reports the method a found dependency was detected with.
// Multi-method detectors record it at probe time; single-method detectors
// have exactly one non-auto entry in their applicable set.
func usedMethod(d Dependency) Method {
	if r, ok := d.(methodRecorder); ok {
		return r.UsedMethod()
	}
	for _, m := range d.Methods() {
		if m != MethodAuto {
			return m
		}
	}
	return MethodAuto
}

// sortedCopy returns a sorted copy of a string slice.
func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

// Platform checks live behind variables so tests can force a platform.
var (
	isWindows = func() bool { return runtime.GOOS == "windows" }
	isOSX     = func() bool { return runtime.GOOS == "darwin" }
)
