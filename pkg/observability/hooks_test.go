package observability

import (
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	// Lookup hooks
	l := NoopLookupHooks{}
	l.OnLookupStart("zlib", "pkg-config")
	l.OnLookupComplete("zlib", "pkg-config", true, time.Second, nil)

	// Program hooks
	p := NoopProgramHooks{}
	p.OnProgramSearch("pkg-config", true)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit("dependency")
	c.OnCacheMiss("program")
	c.OnCacheSet("dependency", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Lookup().(NoopLookupHooks); !ok {
		t.Error("Lookup() should return NoopLookupHooks by default")
	}
	if _, ok := Program().(NoopProgramHooks); !ok {
		t.Error("Program() should return NoopProgramHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customLookup := &testLookupHooks{}
	SetLookupHooks(customLookup)
	if Lookup() != customLookup {
		t.Error("SetLookupHooks should set custom hooks")
	}

	customProgram := &testProgramHooks{}
	SetProgramHooks(customProgram)
	if Program() != customProgram {
		t.Error("SetProgramHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Lookup().(NoopLookupHooks); !ok {
		t.Error("Reset() should restore NoopLookupHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testLookupHooks{}
	SetLookupHooks(custom)

	// Setting nil should be ignored
	SetLookupHooks(nil)

	if Lookup() != custom {
		t.Error("SetLookupHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testLookupHooks struct{ NoopLookupHooks }
type testProgramHooks struct{ NoopProgramHooks }
type testCacheHooks struct{ NoopCacheHooks }
