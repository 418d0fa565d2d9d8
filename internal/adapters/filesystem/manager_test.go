package filesystem

import (
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func checksum(t *testing.T, path string) [32]byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return sha256.Sum256(data)
}

func TestScratchPathUnique(t *testing.T) {
	m := NewManager(t.TempDir())

	a := m.ScratchPath(".pdf")
	b := m.ScratchPath(".pdf")
	if a == b {
		t.Error("scratch paths must be unique")
	}
	if filepath.Ext(a) != ".pdf" {
		t.Errorf("ext = %q, want .pdf", filepath.Ext(a))
	}

	c := m.ScratchPath("png")
	if filepath.Ext(c) != ".png" {
		t.Errorf("ext without dot = %q, want .png", filepath.Ext(c))
	}
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		path   string
		remote bool
	}{
		{`\\fileserver\scans\doc.pdf`, true},
		{"//fileserver/scans/doc.pdf", true},
		{"smb://fileserver/scans/doc.pdf", true},
		{"/home/user/doc.pdf", false},
		{`C:\scans\doc.pdf`, false},
		{"relative/doc.pdf", false},
	}
	for _, tt := range tests {
		if got := IsRemote(tt.path); got != tt.remote {
			t.Errorf("IsRemote(%q) = %v, want %v", tt.path, got, tt.remote)
		}
	}
}

func TestStageLocalPassthrough(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	path := filepath.Join(dir, "doc.pdf")
	writeFile(t, path, "content")

	local, cleanup, err := m.StageLocal(path)
	if err != nil {
		t.Fatalf("StageLocal failed: %v", err)
	}
	defer cleanup()

	if local != path {
		t.Errorf("local path = %q, want passthrough %q", local, path)
	}
	cleanup()
	if _, err := os.Stat(path); err != nil {
		t.Error("cleanup of a passthrough must not remove the file")
	}
}

func TestSafeReplaceSwapsContent(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	original := filepath.Join(dir, "doc.pdf")
	replacement := filepath.Join(dir, "smaller.pdf")
	writeFile(t, original, "big original content")
	writeFile(t, replacement, "small")

	if err := m.SafeReplace(original, replacement); err != nil {
		t.Fatalf("SafeReplace failed: %v", err)
	}

	data, err := os.ReadFile(original)
	if err != nil {
		t.Fatalf("failed to read replaced file: %v", err)
	}
	if string(data) != "small" {
		t.Errorf("content = %q, want %q", data, "small")
	}
	if _, err := os.Stat(original + ".bak"); !os.IsNotExist(err) {
		t.Error("backup must be removed after a clean replace")
	}
	if _, err := os.Stat(replacement); !os.IsNotExist(err) {
		t.Error("replacement source must be consumed")
	}
}

func TestSafeReplaceRestoresOnPlacementFailure(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	original := filepath.Join(dir, "doc.pdf")
	replacement := filepath.Join(dir, "smaller.pdf")
	writeFile(t, original, "precious original bytes")
	writeFile(t, replacement, "small")
	want := checksum(t, original)

	boom := errors.New("disk full")
	calls := 0
	realRename := m.rename
	m.rename = func(oldpath, newpath string) error {
		calls++
		if calls == 2 {
			// The move of new content into place.
			return boom
		}
		return realRename(oldpath, newpath)
	}
	m.copyFile = func(src, dst string) error { return boom }

	err := m.SafeReplace(original, replacement)
	if err == nil {
		t.Fatal("expected error from injected failure")
	}

	if got := checksum(t, original); got != want {
		t.Error("original must be byte-identical after rollback")
	}
	if _, err := os.Stat(original + ".bak"); !os.IsNotExist(err) {
		t.Error("backup must not linger after rollback")
	}
}

func TestSafeReplaceRestoresOnBackupRemoveFailure(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	original := filepath.Join(dir, "doc.pdf")
	replacement := filepath.Join(dir, "smaller.pdf")
	writeFile(t, original, "precious original bytes")
	writeFile(t, replacement, "small")
	want := checksum(t, original)

	boom := errors.New("permission denied")
	realRemove := m.remove
	removeCalls := 0
	m.remove = func(path string) error {
		removeCalls++
		if strings.HasSuffix(path, ".bak") && removeCalls == 1 {
			return boom
		}
		return realRemove(path)
	}

	err := m.SafeReplace(original, replacement)
	if err == nil {
		t.Fatal("expected error from injected failure")
	}

	if got := checksum(t, original); got != want {
		t.Error("original must be byte-identical after rollback")
	}
}

func TestKeepCopyLeavesOriginal(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	original := filepath.Join(dir, "doc.pdf")
	replacement := filepath.Join(dir, "smaller.pdf")
	writeFile(t, original, "original")
	writeFile(t, replacement, "small")
	want := checksum(t, original)

	target, err := m.KeepCopy(original, replacement)
	if err != nil {
		t.Fatalf("KeepCopy failed: %v", err)
	}
	if target != filepath.Join(dir, "doc.compressed.pdf") {
		t.Errorf("target = %q, want doc.compressed.pdf sibling", target)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read copy: %v", err)
	}
	if string(data) != "small" {
		t.Errorf("copy content = %q, want %q", data, "small")
	}
	if got := checksum(t, original); got != want {
		t.Error("original must be untouched by KeepCopy")
	}
}

func TestMoveFallsBackToCopy(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	src := filepath.Join(dir, "src.pdf")
	dst := filepath.Join(dir, "dst.pdf")
	writeFile(t, src, "payload")

	m.rename = func(oldpath, newpath string) error {
		return errors.New("cross-device link")
	}

	if err := m.move(src, dst); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("failed to read moved file: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q, want payload", data)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source must be removed after copy fallback")
	}
}
