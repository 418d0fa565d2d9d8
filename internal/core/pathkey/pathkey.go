// Package pathkey contains the pure logic for canonicalizing file paths
// into stable comparison keys. This is part of the Functional Core -
// no I/O beyond working-directory resolution, and it never fails.
package pathkey

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Normalize converts a path into the canonical key used for outcome
// lookups. Two spellings of the same physical file (mixed separators,
// trailing slash, repeated separators, case differences on
// case-insensitive forms) normalize to the same key.
//
// Normalize is total: when absolute resolution fails it falls back to a
// lexical transform of the raw input, because identity lookup is a
// precondition for every other operation. It is idempotent:
// Normalize(Normalize(p)) == Normalize(p).
func Normalize(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	unc := strings.HasPrefix(p, "//")

	if !unc {
		// Resolution errors leave the lexical form in place.
		if abs, err := filepath.Abs(filepath.FromSlash(p)); err == nil {
			p = filepath.ToSlash(abs)
		}
	}

	p = collapseSeparators(p)
	if unc {
		// Collapsing reduced the UNC prefix to a single slash.
		p = "/" + p
	}

	// UNC shares and Windows paths compare case-insensitively.
	if unc || runtime.GOOS == "windows" {
		p = strings.ToLower(p)
	}

	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func collapseSeparators(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}
