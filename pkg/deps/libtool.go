package deps

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// libtool archive descriptors (.la files) are key=value text sidecars left
// behind by libtool-based builds. Link lines that mention them must be
// rewritten to the real shared library they describe.

// extractLaField reads one field from a .la file. Values are quoted; the
// surrounding quotes are stripped. Returns "" when the field is absent.
func extractLaField(laFile, field string) string {
	f, err := os.Open(laFile)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, found := strings.Cut(line, "=")
		if !found || key != field {
			continue
		}
		value = strings.Trim(value, `'"`)
		return value
	}
	return ""
}

// extractLibtoolShlib returns the shared-library filename recorded in a .la
// file, or "" when the descriptor carries none.
//
// Darwin prefers absolute paths; since descriptors never record one for
// dlname, the libdir field is used to reconstruct it there. Elsewhere the
// bare dlname basename is returned (older libtools recorded a path rather
// than a raw name).
func extractLibtoolShlib(laFile string) string {
	dlname := extractLaField(laFile, "dlname")
	if dlname == "" {
		return ""
	}
	if isOSX() {
		base := filepath.Base(dlname)
		libdir := extractLaField(laFile, "libdir")
		if libdir == "" {
			return base
		}
		return filepath.Join(libdir, base)
	}
	return filepath.Base(dlname)
}
