package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/depprobe/depprobe/pkg/cache"
)

func TestLookupProgramMemoizes(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "mytool")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	store := cache.NewMemoryCache()
	keyer := cache.NewDefaultKeyer()
	logger := newLogger(io.Discard, LogInfo)

	rec, err := lookupProgram(ctx, store, keyer, "mytool", dir, false, logger)
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Found {
		t.Fatal("mytool should be found in the search directory")
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}

	// Remove the binary: a cached record must still answer.
	if err := os.Remove(tool); err != nil {
		t.Fatal(err)
	}
	rec, err = lookupProgram(ctx, store, keyer, "mytool", dir, false, logger)
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Found {
		t.Error("second lookup should come from the cache")
	}

	// Refresh bypasses the record and re-searches.
	rec, err = lookupProgram(ctx, store, keyer, "mytool", dir, true, logger)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Found {
		t.Error("refresh should re-search and miss the removed binary")
	}
}

func TestLookupProgramKeyedBySearchDir(t *testing.T) {
	keyer := cache.NewDefaultKeyer()
	if keyer.ProgramKey("tool", "/a") == keyer.ProgramKey("tool", "/b") {
		t.Error("lookups with different search directories must not share entries")
	}
}
