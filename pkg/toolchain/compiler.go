// Package toolchain exposes the narrow compiler surface dependency
// detection needs. The real compiler abstraction lives in the build system
// proper; detectors only consult it for its own library search and for
// include-argument synthesis.
package toolchain

import (
	"os"
	"path/filepath"
	"runtime"
)

// Compiler is the ambient compiler collaborator.
type Compiler interface {
	// FindLibrary performs the compiler's own library search for the given
	// bare library name (no "lib" prefix, no extension). It returns the link
	// arguments on success or nil when the library cannot be found.
	FindLibrary(name string) []string

	// IncludeArgs returns the arguments that add path as an include
	// directory. When system is true the directory is added as a system
	// include (suppressing warnings from its headers).
	IncludeArgs(path string, system bool) []string
}

// archLibDirs maps GOARCH to multiarch library directory names on Linux.
var archLibDirs = map[string][]string{
	"amd64": {"x86_64-linux-gnu", "lib64"},
	"arm64": {"aarch64-linux-gnu", "lib64"},
	"arm":   {"arm-linux-gnueabihf", "arm-linux-gnueabi"},
	"386":   {"i386-linux-gnu", "i686-linux-gnu", "lib32"},
}

// DefaultLibraryDirs returns the conventional library search directories for
// the current platform, most specific first.
func DefaultLibraryDirs() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/usr/local/lib", "/opt/homebrew/lib", "/usr/lib"}
	case "windows":
		return nil
	default:
		var dirs []string
		if sub, ok := archLibDirs[runtime.GOARCH]; ok {
			for _, d := range sub {
				dirs = append(dirs, filepath.Join("/usr/lib", d))
			}
		}
		return append(dirs, "/usr/lib64", "/usr/lib", "/usr/local/lib")
	}
}

// PathCompiler implements Compiler by scanning library directories for
// shared and static library files. It stands in for a full compiler
// abstraction in the CLI; build systems embedding this package supply their
// own Compiler.
type PathCompiler struct {
	// LibraryDirs overrides the search directories. Empty means
	// DefaultLibraryDirs().
	LibraryDirs []string
}

// sharedSuffix returns the shared-library suffix for the current platform.
func sharedSuffix() string {
	switch runtime.GOOS {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

// FindLibrary scans the library directories for lib<name> with a shared or
// static suffix and returns a "-l" link argument when found.
func (c *PathCompiler) FindLibrary(name string) []string {
	dirs := c.LibraryDirs
	if len(dirs) == 0 {
		dirs = DefaultLibraryDirs()
	}
	candidates := []string{
		"lib" + name + sharedSuffix(),
		"lib" + name + ".a",
	}
	for _, dir := range dirs {
		for _, cand := range candidates {
			if fi, err := os.Stat(filepath.Join(dir, cand)); err == nil && !fi.IsDir() {
				return []string{"-l" + name}
			}
		}
	}
	return nil
}

// IncludeArgs returns -I or -isystem arguments for the directory.
func (c *PathCompiler) IncludeArgs(path string, system bool) []string {
	if path == "" {
		return nil
	}
	if system {
		return []string{"-isystem", path}
	}
	return []string{"-I" + path}
}

// Ensure PathCompiler implements Compiler.
var _ Compiler = (*PathCompiler)(nil)
