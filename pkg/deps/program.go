package deps

import (
	"bufio"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/depprobe/depprobe/pkg/observability"
)

// windowsExts are the filename extensions Windows can execute directly.
var windowsExts = []string{"exe", "msc", "com", "bat"}

// Program is a resolved external executable: the argument vector needed to
// run it. For shebang scripts that cannot be executed directly the vector
// is [interpreter, scriptPath]; otherwise it is [executablePath].
type Program struct {
	name string
	cmd  []string
}

// ProgramOptions configures program resolution.
type ProgramOptions struct {
	// Command is an explicit override used verbatim. The program is found
	// iff its first token is non-empty.
	Command []string

	// SearchDir is checked before the process search path.
	SearchDir string

	// Silent suppresses the found/not-found log line.
	Silent bool

	// Logger receives the found/not-found line. Nil uses log.Default().
	Logger *log.Logger
}

// FindProgram locates an executable by logical name.
//
// With an explicit command override the override is used verbatim.
// Otherwise the search directory is probed first (including shebang
// emulation for scripts that are not directly executable), then the process
// search path. On Windows the recognized executable extensions are tried,
// and extensionless scripts on the search path are located by a manual
// directory walk since a plain path lookup cannot find them.
func FindProgram(name string, opts ProgramOptions) *Program {
	p := &Program{name: name}
	if opts.Command != nil {
		p.cmd = append([]string(nil), opts.Command...)
	} else {
		p.cmd = search(name, opts.SearchDir)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if !opts.Silent {
		if p.Found() {
			logger.Info("Program found", "name", name, "command", strings.Join(p.cmd, " "))
		} else {
			logger.Info("Program not found", "name", name)
		}
	}
	observability.Program().OnProgramSearch(name, p.Found())
	return p
}

// Found reports whether the program was located.
func (p *Program) Found() bool {
	return len(p.cmd) > 0 && p.cmd[0] != ""
}

// Name returns the logical program name.
func (p *Program) Name() string { return p.name }

// Command returns a copy of the argument vector.
func (p *Program) Command() []string {
	return append([]string(nil), p.cmd...)
}

// Path returns the full path to the script or binary being run: the last
// element of the argument vector. Empty when not found.
func (p *Program) Path() string {
	if !p.Found() {
		return ""
	}
	return p.cmd[len(p.cmd)-1]
}

// shebangToCmd derives an interpreter command line from a script's first
// line. Used when the script is not directly executable, or on Windows
// which does not understand shebangs. Returns nil when no usable shebang
// exists.
func shebangToCmd(script string) []string {
	f, err := os.Open(script)
	if err != nil {
		return nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil
	}
	firstLine := strings.TrimSpace(scanner.Text())
	if !strings.HasPrefix(firstLine, "#!") {
		return nil
	}

	// Anything after a secondary comment marker is ignored.
	content := firstLine[2:]
	if idx := strings.Index(content, "#"); idx >= 0 {
		content = content[:idx]
	}
	commands := strings.Fields(content)
	if len(commands) == 0 {
		return nil
	}

	if isWindows() {
		// Windows does not have UNIX paths so remove them,
		// but don't remove Windows paths.
		if strings.HasPrefix(commands[0], "/") {
			parts := strings.Split(commands[0], "/")
			commands[0] = parts[len(parts)-1]
		}
	}
	// "env bash" means the interpreter is bash.
	if commands[0] == "env" {
		commands = commands[1:]
	}
	if len(commands) == 0 {
		return nil
	}
	return append(commands, script)
}

// isExecutable reports whether the path can be run directly on the current
// platform: by extension on Windows, by execute permission elsewhere.
func isExecutable(path string) bool {
	if isWindows() {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		for _, e := range windowsExts {
			if ext == e {
				return true
			}
		}
		return false
	}
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !fi.IsDir() && fi.Mode()&0111 != 0
}

// searchInDir probes a single directory for the named program, applying
// shebang emulation for scripts that exist but cannot run directly and, on
// Windows, trying each recognized executable extension.
func searchInDir(name, dir string) []string {
	if dir == "" {
		return nil
	}
	trial := filepath.Join(dir, name)
	if _, err := os.Stat(trial); err == nil {
		if isExecutable(trial) {
			return []string{trial}
		}
		// Maybe a script that is not chmodded executable, or we are on
		// Windows where scripts cannot be executed directly.
		return shebangToCmd(trial)
	}
	if isWindows() {
		for _, ext := range windowsExts {
			trialExt := trial + "." + ext
			if _, err := os.Stat(trialExt); err == nil {
				return []string{trialExt}
			}
		}
	}
	return nil
}

// search locates the program in the search directory, then on the process
// search path. The returned vector has an empty first element when the
// program cannot be found.
func search(name, searchDir string) []string {
	if cmd := searchInDir(name, searchDir); cmd != nil {
		return cmd
	}

	command, err := exec.LookPath(name)
	if !isWindows() {
		// On UNIX-like platforms a path lookup finds every executable,
		// whether on the search path or given as an absolute path.
		if err != nil {
			return []string{""}
		}
		return []string{command}
	}

	if err == nil {
		// A path hit on Windows may still be a script that needs an
		// explicit interpreter if the file association is not set up.
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(command), "."))
		for _, e := range windowsExts {
			if ext == e {
				return []string{command}
			}
		}
		if cmd := shebangToCmd(command); cmd != nil {
			return cmd
		}
		return []string{""}
	}

	// Maybe the name is an absolute path to a native executable without
	// its extension. Technically wrong, but common in MinGW shells.
	if filepath.IsAbs(name) {
		for _, ext := range windowsExts {
			candidate := name + "." + ext
			if _, err := os.Stat(candidate); err == nil {
				return []string{candidate}
			}
		}
	}

	// Interpreted scripts without an extension cannot be found by a plain
	// path lookup on Windows, so walk each search-path directory applying
	// the shebang logic.
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if cmd := searchInDir(name, dir); cmd != nil {
			return cmd
		}
	}
	return []string{""}
}
