package deps

import (
	"path/filepath"
	"testing"
)

func TestExtractLaField(t *testing.T) {
	dir := t.TempDir()
	laFile := filepath.Join(dir, "libfoo.la")
	writeFile(t, laFile, `# libfoo.la - a libtool library file
dlname='libfoo.so.1'
library_names='libfoo.so.1.0.0 libfoo.so.1 libfoo.so'
libdir="/usr/local/lib"
old_library=''
`, 0o644)

	tests := []struct {
		field string
		want  string
	}{
		{"dlname", "libfoo.so.1"},
		{"libdir", "/usr/local/lib"},
		{"old_library", ""},
		{"nonexistent", ""},
	}
	for _, tt := range tests {
		if got := extractLaField(laFile, tt.field); got != tt.want {
			t.Errorf("extractLaField(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}

	if got := extractLaField(filepath.Join(dir, "missing.la"), "dlname"); got != "" {
		t.Errorf("missing file should yield empty field, got %q", got)
	}
}

func TestExtractLibtoolShlib(t *testing.T) {
	dir := t.TempDir()

	laFile := filepath.Join(dir, "libfoo.la")
	writeFile(t, laFile, "dlname='libfoo.so.1'\nlibdir='/usr/local/lib'\n", 0o644)

	stubPlatform(t, false, false)
	if got := extractLibtoolShlib(laFile); got != "libfoo.so.1" {
		t.Errorf("got %q, want bare basename", got)
	}

	stubPlatform(t, false, true)
	want := filepath.Join("/usr/local/lib", "libfoo.so.1")
	if got := extractLibtoolShlib(laFile); got != want {
		t.Errorf("got %q, want libdir-joined path %q", got, want)
	}

	empty := filepath.Join(dir, "empty.la")
	writeFile(t, empty, "libdir='/usr/local/lib'\n", 0o644)
	stubPlatform(t, false, false)
	if got := extractLibtoolShlib(empty); got != "" {
		t.Errorf("descriptor without dlname should yield empty, got %q", got)
	}
}
