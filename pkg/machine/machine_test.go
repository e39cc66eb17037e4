package machine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/depprobe/depprobe/pkg/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cross.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
[binaries]
pkgconfig = "x86_64-w64-mingw32-pkg-config"
python3 = "/opt/cross/bin/python3"

[host_machine]
system = "windows"
cpu_family = "x86_64"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if bin, ok := cfg.Binary("pkgconfig"); !ok || bin != "x86_64-w64-mingw32-pkg-config" {
		t.Errorf("Binary(pkgconfig) = (%q, %v)", bin, ok)
	}
	if _, ok := cfg.Binary("qmake"); ok {
		t.Error("undeclared role should report absent")
	}
	if cfg.HostMachine.System != "windows" || cfg.HostMachine.CPUFamily != "x86_64" {
		t.Errorf("HostMachine = %+v", cfg.HostMachine)
	}
}

func TestLoadEmptyBinaries(t *testing.T) {
	path := writeFile(t, `
[host_machine]
system = "linux"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if _, ok := cfg.Binary("pkgconfig"); ok {
		t.Error("missing [binaries] table should behave as empty")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := writeFile(t, `[binaries
pkgconfig = `)

	_, err := Load(path)
	if err == nil {
		t.Fatal("invalid TOML should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %q, want INVALID_CONFIG", errors.GetCode(err))
	}
}

func TestNilConfigBinary(t *testing.T) {
	var cfg *Config
	if _, ok := cfg.Binary("pkgconfig"); ok {
		t.Error("nil config should report absent roles")
	}
}
