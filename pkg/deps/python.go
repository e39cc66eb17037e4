package deps

import (
	"encoding/json"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// pyIntrospect dumps the sysconfig values the Windows lookup needs, in one
// interpreter invocation.
const pyIntrospect = `import sysconfig, json
print(json.dumps({
    "platform": sysconfig.get_platform(),
    "include": sysconfig.get_path("include"),
    "platinclude": sysconfig.get_path("platinclude"),
    "base": sysconfig.get_config_var("base"),
    "version_nodot": str(sysconfig.get_config_var("py_version_nodot")),
    "version_short": str(sysconfig.get_config_var("py_version_short")),
}))`

// pySysconfig mirrors the introspection output.
type pySysconfig struct {
	Platform     string `json:"platform"`
	Include      string `json:"include"`
	PlatInclude  string `json:"platinclude"`
	Base         string `json:"base"`
	VersionNodot string `json:"version_nodot"`
	VersionShort string `json:"version_short"`
}

// Python3 detects the Python 3 embedding libraries. pkg-config is tried
// first everywhere; Windows falls back to interpreter sysconfig
// introspection and macOS to the framework bundle (which is named plain
// "python", without a version number). A pkg-config failure here is
// swallowed rather than surfaced: the fallbacks are expected to take over
// on the platforms where python3.pc is customarily absent.
type Python3 struct {
	env         *Environment
	found       bool
	used        Method
	version     string
	compileArgs []string
	linkArgs    []string
}

// python3Methods is the platform-dependent applicable method subset.
func python3Methods() []Method {
	if isWindows() {
		return []Method{MethodPkgConfig, MethodSysConfig}
	}
	if isOSX() {
		return []Method{MethodPkgConfig, MethodExtraFramework}
	}
	return []Method{MethodPkgConfig}
}

// NewPython3 probes for the Python 3 embedding libraries.
func NewPython3(env *Environment, opts Options) (*Python3, error) {
	methods, err := selectMethods(opts.Method, python3Methods())
	if err != nil {
		return nil, err
	}
	// Only the major version is certain before a probe succeeds.
	p := &Python3{env: env, version: "3", used: MethodAuto}
	logger := env.logger()

	if methodIn(methods, MethodPkgConfig) {
		pkgOpts := opts
		pkgOpts.Required = false
		pkgOpts.Silent = true
		pkgOpts.Modules = nil
		if pkgdep, err := NewPkgConfig(env, "python3", pkgOpts); err == nil && pkgdep.Found() {
			p.compileArgs = pkgdep.CompileArgs()
			p.linkArgs = pkgdep.LinkArgs()
			p.version = pkgdep.Version()
			p.found = true
			p.used = MethodPkgConfig
		}
	}
	if !p.found {
		switch {
		case isWindows() && methodIn(methods, MethodSysConfig):
			p.findLibpy3Windows(logger)
		case isOSX() && methodIn(methods, MethodExtraFramework):
			fwOpts := opts
			fwOpts.Required = false
			fwOpts.Silent = true
			fw, err := NewExtraFramework(env, "python", fwOpts)
			if err == nil && fw.Found() {
				p.compileArgs = fw.CompileArgs()
				p.linkArgs = fw.LinkArgs()
				p.found = true
				p.used = MethodExtraFramework
			}
		}
	}

	if !opts.Silent {
		if p.found {
			logger.Info("Dependency found", "name", "python3", "version", p.version)
		} else {
			logger.Info("Dependency not found", "name", "python3")
		}
	}
	return p, nil
}

// methodIn reports whether a method is in the selected subset.
func methodIn(methods []Method, m Method) bool {
	for _, candidate := range methods {
		if candidate == m {
			return true
		}
	}
	return false
}

// findLibpy3Windows locates the Python 3 libraries through interpreter
// introspection and verifies that the interpreter's architecture matches the
// host machine, since a 32-bit Python cannot be linked into a 64-bit build.
func (p *Python3) findLibpy3Windows(logger *log.Logger) {
	prog := FindProgram("python", ProgramOptions{Silent: true, Logger: logger})
	if !prog.Found() {
		return
	}
	cfg, err := introspectPython(prog)
	if err != nil {
		return
	}

	var arch string
	switch p.env.HostCPUFamily() {
	case "x86":
		arch = "32"
	case "x86_64":
		arch = "64"
	default:
		logger.Info("Unknown architecture for python3", "arch", p.env.HostCPUFamily())
		return
	}
	// The sysconfig platform string ends in "32" or "64".
	if len(cfg.Platform) < 2 || arch != cfg.Platform[len(cfg.Platform)-2:] {
		logger.Info("Python 3 architecture mismatch",
			"need", arch+"-bit", "found", cfg.Platform)
		return
	}

	p.compileArgs = []string{"-I" + cfg.Include}
	if cfg.Include != cfg.PlatInclude {
		p.compileArgs = append(p.compileArgs, "-I"+cfg.PlatInclude)
	}
	p.linkArgs = []string{
		"-L" + cfg.Base + "/libs",
		"-lpython" + cfg.VersionNodot,
	}
	p.version = cfg.VersionShort
	p.found = true
	p.used = MethodSysConfig
}

// introspectPython runs the located interpreter and decodes its sysconfig
// dump.
func introspectPython(prog *Program) (*pySysconfig, error) {
	args := append(prog.Command()[1:], "-c", pyIntrospect)
	out, err := exec.Command(prog.Command()[0], args...).Output()
	if err != nil {
		return nil, err
	}
	var cfg pySysconfig
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(out))), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Name returns "python3".
func (p *Python3) Name() string { return "python3" }

// Found reports whether the embedding libraries were located.
func (p *Python3) Found() bool { return p.found }

// Version returns the detected version, or "3" when only the major version
// is known.
func (p *Python3) Version() string { return p.version }

// CompileArgs returns the compile flags.
func (p *Python3) CompileArgs() []string {
	return append([]string(nil), p.compileArgs...)
}

// LinkArgs returns the link flags.
func (p *Python3) LinkArgs() []string {
	return append([]string(nil), p.linkArgs...)
}

// Sources returns nil.
func (p *Python3) Sources() []string { return nil }

// NeedThreads reports false.
func (p *Python3) NeedThreads() bool { return false }

// Methods returns the platform-dependent applicable method subset.
func (p *Python3) Methods() []Method { return python3Methods() }

// UsedMethod returns the method that actually produced the result, or
// MethodAuto when nothing was found.
func (p *Python3) UsedMethod() Method { return p.used }

// Language returns "" — the embedding interface is plain C.
func (p *Python3) Language() string { return "" }

var _ Dependency = (*Python3)(nil)
