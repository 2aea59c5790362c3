package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Manager provides file management operations rooted at a base directory
type Manager struct {
	basePath string
}

// NewManager creates a new file manager instance
func NewManager(basePath string) *Manager {
	return &Manager{basePath: basePath}
}

// Path resolves a path relative to the base directory
func (m *Manager) Path(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.basePath, path)
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	fullPath := m.Path(path)
	_, err := os.Stat(fullPath)
	exists := err == nil

	slog.Debug("FileExists check",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Bool("exists", exists))

	return exists
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	fullPath := m.Path(path)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		slog.Info("Creating directory", slog.String("full_path", fullPath))
		return os.MkdirAll(fullPath, 0755)
	}
	return nil
}

// WriteFrom streams r into path. The data is written to a temporary file in
// the same directory and renamed into place, so an interrupted write never
// leaves a truncated file behind.
func (m *Manager) WriteFrom(path string, r io.Reader) (int64, error) {
	fullPath := m.Path(path)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return n, fmt.Errorf("failed to write %s: %w", fullPath, err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return n, fmt.Errorf("failed to move file into place: %w", err)
	}

	slog.Info("Wrote file",
		slog.String("full_path", fullPath),
		slog.Int64("size_bytes", n))
	return n, nil
}
