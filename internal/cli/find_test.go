package cli

import (
	"testing"

	"github.com/depprobe/depprobe/pkg/observability"
)

func TestCacheStatusRecorder(t *testing.T) {
	rec := &cacheStatusRecorder{}
	observability.SetCacheHooks(rec)
	t.Cleanup(observability.Reset)

	observability.Cache().OnCacheMiss("dependency")
	if rec.hit {
		t.Error("a miss must not mark the record as cached")
	}
	observability.Cache().OnCacheSet("dependency", 42)
	if rec.hit {
		t.Error("a write must not mark the record as cached")
	}
	observability.Cache().OnCacheHit("dependency")
	if !rec.hit {
		t.Error("a hit must mark the record as cached")
	}
}
