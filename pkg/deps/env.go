package deps

import (
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/depprobe/depprobe/pkg/machine"
	"github.com/depprobe/depprobe/pkg/toolchain"
)

// Environment carries the external collaborators a lookup consults: the
// cross-compilation machine file (nil for native builds), the ambient
// compiler, and the logger. It holds no lookup state itself.
type Environment struct {
	// Machine is the parsed cross file. Nil means a native build.
	Machine *machine.Config

	// Compiler is the ambient compiler collaborator. Detectors that defer
	// to the compiler's library search (boost) require it; others ignore it.
	Compiler toolchain.Compiler

	// Logger receives detection progress. Nil falls back to log.Default().
	Logger *log.Logger

	// PkgConfig overrides native pkg-config resolution. Intended for tests;
	// when set, the process-wide memoized path is bypassed entirely.
	PkgConfig *Program
}

// IsCrossBuild reports whether a cross file is in effect.
func (e *Environment) IsCrossBuild() bool {
	return e != nil && e.Machine != nil
}

// WantCross decides whether a lookup targets the host machine. During a
// cross build a lookup with native=true explicitly selects the build
// machine; otherwise cross builds probe the host machine.
func (e *Environment) WantCross(native *bool) bool {
	if !e.IsCrossBuild() {
		return false
	}
	if native != nil {
		return !*native
	}
	return true
}

// HostCPUFamily returns the CPU family of the machine the build output
// runs on: the cross file's declaration when cross building, the current
// machine otherwise.
func (e *Environment) HostCPUFamily() string {
	if e.IsCrossBuild() && e.Machine.HostMachine.CPUFamily != "" {
		return e.Machine.HostMachine.CPUFamily
	}
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm64":
		return "aarch64"
	default:
		return runtime.GOARCH
	}
}

// logger returns the configured logger or the process default.
func (e *Environment) logger() *log.Logger {
	if e != nil && e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}
