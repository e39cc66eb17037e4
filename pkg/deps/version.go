package deps

import (
	"strconv"
	"strings"

	"github.com/depprobe/depprobe/pkg/errors"
)

// comparison operators in longest-match-first order so that ">=" is not
// parsed as ">" followed by a version starting with "=".
var versionOperators = []string{">=", "<=", "!=", "==", ">", "<", "="}

// parseRequirement splits a requirement string into operator and version.
// A missing operator defaults to exact equality.
func parseRequirement(req string) (op, version string) {
	for _, candidate := range versionOperators {
		if strings.HasPrefix(req, candidate) {
			return candidate, strings.TrimSpace(req[len(candidate):])
		}
	}
	return "=", strings.TrimSpace(req)
}

// versionComponents splits a version string on the usual separators.
// "1.2.3-rc1" becomes ["1", "2", "3", "rc1"].
func versionComponents(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	})
}

// compareComponent compares two components: numerically when both are
// numeric, lexically otherwise.
func compareComponent(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// CompareVersions compares two version strings component-wise, returning
// -1, 0 or 1. The shorter version is padded with zero components so that
// "1.2" equals "1.2.0".
func CompareVersions(a, b string) int {
	ca, cb := versionComponents(a), versionComponents(b)
	for len(ca) < len(cb) {
		ca = append(ca, "0")
	}
	for len(cb) < len(ca) {
		cb = append(cb, "0")
	}
	for i := range ca {
		if c := compareComponent(ca[i], cb[i]); c != 0 {
			return c
		}
	}
	return 0
}

// CheckRequirement reports whether version satisfies a single requirement
// string such as ">=2.0". An unparsable requirement is a configuration
// error.
func CheckRequirement(version, req string) (bool, error) {
	if err := errors.ValidateVersionRequirement(req); err != nil {
		return false, err
	}
	op, want := parseRequirement(req)
	if want == "" {
		return false, errors.New(errors.ErrCodeInvalidOption,
			"version requirement %q has no version", req)
	}
	c := CompareVersions(version, want)
	switch op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case "=", "==":
		return c == 0, nil
	case "!=":
		return c != 0, nil
	case ">=":
		return c >= 0, nil
	case ">":
		return c > 0, nil
	}
	return false, errors.New(errors.ErrCodeInvalidOption,
		"unknown version operator in %q", req)
}

// CompareMany evaluates a conjunction of requirements against a candidate
// version. It reports overall satisfaction together with exactly which
// requirements were unmet and which were met.
func CompareMany(version string, reqs []string) (ok bool, unmet, met []string, err error) {
	ok = true
	for _, req := range reqs {
		holds, cerr := CheckRequirement(version, req)
		if cerr != nil {
			return false, nil, nil, cerr
		}
		if holds {
			met = append(met, req)
		} else {
			ok = false
			unmet = append(unmet, req)
		}
	}
	return ok, unmet, met, nil
}
