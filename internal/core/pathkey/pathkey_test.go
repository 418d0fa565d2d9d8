package pathkey

import (
	"strings"
	"testing"
)

func TestNormalizeIdempotent(t *testing.T) {
	paths := []string{
		"/data/archive/report.pdf",
		"/data//archive///report.pdf",
		"/data/archive/",
		`\\fileserver\scans\2024\doc.pdf`,
		"//fileserver/scans/2024/doc.pdf",
		"relative/dir/file.pdf",
		"",
	}

	for _, p := range paths {
		once := Normalize(p)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", p, once, twice)
		}
	}
}

func TestNormalizeEquatesSpellings(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"trailing slash", "/data/archive", "/data/archive/"},
		{"repeated separators", "/data/archive/report.pdf", "/data//archive//report.pdf"},
		{"mixed separators", `/data/archive/report.pdf`, `/data\archive\report.pdf`},
		{"unc backslash vs forward", `\\srv\share\doc.pdf`, `//srv/share/doc.pdf`},
		{"unc case folding", `//SRV/Share/Doc.pdf`, `//srv/share/doc.pdf`},
		{"dot segments", "/data/./archive/report.pdf", "/data/archive/report.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, want := Normalize(tt.a), Normalize(tt.b); got != want {
				t.Errorf("Normalize(%q) = %q, Normalize(%q) = %q; want equal", tt.a, got, tt.b, want)
			}
		})
	}
}

func TestNormalizeUNCKeepsHostPrefix(t *testing.T) {
	got := Normalize(`\\fileserver\scans\doc.pdf`)
	if !strings.HasPrefix(got, "//") {
		t.Errorf("UNC prefix lost: %q", got)
	}
	if got != "//fileserver/scans/doc.pdf" {
		t.Errorf("unexpected key: %q", got)
	}
}

func TestNormalizeResolvesRelativePaths(t *testing.T) {
	got := Normalize("some/dir/file.pdf")
	if !strings.HasPrefix(got, "/") {
		t.Errorf("relative path not resolved to absolute form: %q", got)
	}
	if strings.Contains(got, "\\") {
		t.Errorf("backslashes survived normalization: %q", got)
	}
}

func TestNormalizeNeverEmptySeparatorRuns(t *testing.T) {
	got := Normalize("/a////b//c/")
	if got != "/a/b/c" {
		t.Errorf("Normalize(/a////b//c/) = %q, want /a/b/c", got)
	}
}
