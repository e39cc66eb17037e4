package deps

import (
	"testing"

	"github.com/depprobe/depprobe/pkg/errors"
)

func TestThreads(t *testing.T) {
	env := &Environment{Logger: quietLogger()}
	th, err := NewThreads(env, Options{Silent: true})
	if err != nil {
		t.Fatal(err)
	}
	if !th.Found() {
		t.Error("threads should always be found")
	}
	if !th.NeedThreads() {
		t.Error("threads should signal NeedThreads")
	}
	if th.Version() != "unknown" {
		t.Errorf("Version() = %q, want unknown", th.Version())
	}
	if len(th.CompileArgs()) != 0 || len(th.LinkArgs()) != 0 {
		t.Error("the toolchain supplies thread flags, not the dependency")
	}
}

func TestThreadsRejectsForeignMethod(t *testing.T) {
	env := &Environment{Logger: quietLogger()}
	_, err := NewThreads(env, Options{Silent: true, Method: MethodPkgConfig})
	if !errors.Is(err, errors.ErrCodeInvalidMethod) {
		t.Errorf("err = %v, want INVALID_METHOD", err)
	}
}
