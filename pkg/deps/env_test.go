package deps

import (
	"testing"

	"github.com/depprobe/depprobe/pkg/machine"
)

// crossConfig is a minimal cross file for tests.
func crossConfig() *machine.Config {
	return &machine.Config{
		HostMachine: machine.Host{System: "linux", CPUFamily: "aarch64"},
	}
}

func TestWantCross(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	native := &Environment{}
	if native.WantCross(nil) {
		t.Error("native build should never want cross")
	}
	if native.WantCross(boolPtr(false)) {
		t.Error("native build should never want cross, whatever native says")
	}

	cross := &Environment{Machine: &machine.Config{}}
	if !cross.WantCross(nil) {
		t.Error("cross build should default to the host machine")
	}
	if cross.WantCross(boolPtr(true)) {
		t.Error("native=true selects the build machine during a cross build")
	}
	if !cross.WantCross(boolPtr(false)) {
		t.Error("native=false selects the host machine during a cross build")
	}
}

func TestHostCPUFamily(t *testing.T) {
	cross := &Environment{Machine: &machine.Config{
		HostMachine: machine.Host{System: "linux", CPUFamily: "aarch64"},
	}}
	if got := cross.HostCPUFamily(); got != "aarch64" {
		t.Errorf("HostCPUFamily() = %q, want the cross file's declaration", got)
	}

	native := &Environment{}
	if native.HostCPUFamily() == "" {
		t.Error("native HostCPUFamily() should never be empty")
	}
}
