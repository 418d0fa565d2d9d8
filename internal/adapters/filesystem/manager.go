package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/example/pdfpress/internal/ports/secondary"
)

// Manager implements secondary.FileManager over the local filesystem.
// The op fields default to the real filesystem calls and exist so tests
// can inject failures at specific steps.
type Manager struct {
	scratchDir string

	copyFile func(src, dst string) error
	rename   func(oldpath, newpath string) error
	remove   func(path string) error
}

// NewManager creates a file manager using the given scratch directory.
// An empty scratchDir falls back to the OS temp directory.
func NewManager(scratchDir string) *Manager {
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	return &Manager{
		scratchDir: scratchDir,
		copyFile:   copyFileContents,
		rename:     os.Rename,
		remove:     os.Remove,
	}
}

// ScratchPath returns a fresh unique path in scratch space
func (m *Manager) ScratchPath(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(m.scratchDir, "pdfpress_"+uuid.NewString()+ext)
}

// IsRemote reports whether a path points at a network location
func IsRemote(path string) bool {
	return strings.HasPrefix(path, `\\`) ||
		strings.HasPrefix(path, "//") ||
		strings.Contains(path, "://")
}

// StageLocal copies remote files into scratch space so external tools
// work against local disk. Local files are returned as-is.
func (m *Manager) StageLocal(path string) (string, func(), error) {
	if !IsRemote(path) {
		return path, func() {}, nil
	}

	local := m.ScratchPath(filepath.Ext(path))
	if err := m.copyFile(path, local); err != nil {
		return "", nil, fmt.Errorf("failed to stage %s: %w", path, err)
	}
	cleanup := func() { _ = m.remove(local) }
	return local, cleanup, nil
}

// SafeReplace swaps originalPath for the content at newContentPath.
// The original is first moved aside as a backup and restored if any
// later step fails, so the original is never lost.
func (m *Manager) SafeReplace(originalPath, newContentPath string) error {
	backup := originalPath + ".bak"

	if err := m.rename(originalPath, backup); err != nil {
		return fmt.Errorf("failed to back up original: %w", err)
	}

	if err := m.move(newContentPath, originalPath); err != nil {
		if restoreErr := m.rename(backup, originalPath); restoreErr != nil {
			return fmt.Errorf("failed to place new content: %v; RESTORE FAILED, original at %s: %w", err, backup, restoreErr)
		}
		return fmt.Errorf("failed to place new content: %w", err)
	}

	if err := m.remove(backup); err != nil {
		// The new content is in place but the backup lingers. Roll back
		// so the operation is all-or-nothing.
		if rmErr := m.remove(originalPath); rmErr != nil {
			return fmt.Errorf("failed to remove backup: %v; cleanup failed, both %s and %s exist: %w", err, originalPath, backup, rmErr)
		}
		if restoreErr := m.rename(backup, originalPath); restoreErr != nil {
			return fmt.Errorf("failed to remove backup: %v; RESTORE FAILED, original at %s: %w", err, backup, restoreErr)
		}
		return fmt.Errorf("failed to remove backup: %w", err)
	}

	return nil
}

// KeepCopy writes the new content next to the original under a derived
// name, leaving the original untouched.
func (m *Manager) KeepCopy(originalPath, newContentPath string) (string, error) {
	ext := filepath.Ext(originalPath)
	base := strings.TrimSuffix(originalPath, ext)
	target := base + ".compressed" + ext

	if err := m.move(newContentPath, target); err != nil {
		return "", fmt.Errorf("failed to place copy: %w", err)
	}
	return target, nil
}

// Remove deletes a file
func (m *Manager) Remove(path string) error {
	if err := m.remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// move renames when possible and falls back to copy-and-delete for
// cross-device or cross-share targets.
func (m *Manager) move(src, dst string) error {
	if err := m.rename(src, dst); err == nil {
		return nil
	}
	if err := m.copyFile(src, dst); err != nil {
		return err
	}
	return m.remove(src)
}

func copyFileContents(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

var _ secondary.FileManager = (*Manager)(nil)
