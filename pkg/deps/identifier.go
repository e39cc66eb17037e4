package deps

import (
	"strconv"
	"strings"
)

// Identifier derives the canonical identity string of a lookup. Two lookups
// with equal identities can only differ in failure behavior, so their
// results are interchangeable and may share a cache entry.
//
// The identity covers the dependency name, the version requirements as a
// set, the resolved cross flag, and the remaining options. It deliberately
// excludes the options that do not influence the result: Required only
// decides whether absence is fatal, and Native is already folded into the
// cross flag.
func Identifier(name string, opts Options, wantCross bool) string {
	method := opts.Method
	if method == "" {
		method = MethodAuto
	}
	parts := []string{
		"name=" + name,
		"version=" + strings.Join(sortedCopy(opts.Version), ","),
		"cross=" + strconv.FormatBool(wantCross),
		"method=" + string(method),
		"static=" + strconv.FormatBool(opts.Static),
		"silent=" + strconv.FormatBool(opts.Silent),
		"modules=" + strings.Join(sortedCopy(opts.Modules), ","),
		"path=" + opts.Path,
	}
	return strings.Join(parts, ";")
}
