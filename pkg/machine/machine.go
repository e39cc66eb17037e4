// Package machine parses cross-compilation machine files.
//
// A machine file describes the host machine a build targets and the
// binaries that must be used instead of the native ones. Only the parts
// dependency detection needs are modeled: the [binaries] table (tool role to
// binary name) and the [host_machine] identity.
//
// Example file:
//
//	[binaries]
//	pkgconfig = "x86_64-w64-mingw32-pkg-config"
//	python3   = "/opt/cross/bin/python3"
//
//	[host_machine]
//	system     = "windows"
//	cpu_family = "x86_64"
package machine

import (
	"github.com/BurntSushi/toml"

	"github.com/depprobe/depprobe/pkg/errors"
)

// Config is a parsed machine file.
type Config struct {
	// Binaries maps a logical tool role ("pkgconfig", "python3", ...) to the
	// binary name or path to use when targeting this machine.
	Binaries map[string]string `toml:"binaries"`

	// HostMachine identifies the machine the build output will run on.
	HostMachine Host `toml:"host_machine"`
}

// Host identifies a target machine.
type Host struct {
	System    string `toml:"system"`     // "linux", "darwin", "windows"
	CPUFamily string `toml:"cpu_family"` // "x86", "x86_64", "arm", "aarch64"
}

// Load parses a machine file from disk.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse machine file %s", path)
	}
	if cfg.Binaries == nil {
		cfg.Binaries = make(map[string]string)
	}
	return &cfg, nil
}

// Binary returns the configured binary for a tool role.
// The second return value reports whether the role is declared at all; an
// absent role is a meaningful state (the caller decides whether that is
// fatal, depending on whether the tool is required).
func (c *Config) Binary(role string) (string, bool) {
	if c == nil {
		return "", false
	}
	name, ok := c.Binaries[role]
	return name, ok
}
