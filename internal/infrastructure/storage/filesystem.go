package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const workdirPrefix = "gitapi-archive-"

// ArchiveWorkspace hands out private directories for generated archives under a base path
type ArchiveWorkspace struct {
	basePath string
}

// NewArchiveWorkspace creates the base path if needed
func NewArchiveWorkspace(basePath string) (*ArchiveWorkspace, error) {
	if basePath == "" {
		basePath = os.TempDir()
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive path: %w", err)
	}

	return &ArchiveWorkspace{basePath: absPath}, nil
}

// BasePath returns the absolute base path
func (w *ArchiveWorkspace) BasePath() string {
	return w.basePath
}

// Allocate creates a fresh directory and returns the path filename will have inside it
func (w *ArchiveWorkspace) Allocate(filename string) (string, error) {
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("invalid archive filename %q", filename)
	}

	dir := filepath.Join(w.basePath, workdirPrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	return filepath.Join(dir, name), nil
}

// Release removes the directory an allocated path lives in. Paths that were
// not handed out by this workspace are left alone.
func (w *ArchiveWorkspace) Release(path string) error {
	dir := filepath.Dir(filepath.Clean(path))
	if filepath.Dir(dir) != w.basePath || !strings.HasPrefix(filepath.Base(dir), workdirPrefix) {
		return fmt.Errorf("path %s is not an archive workspace", path)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove archive directory: %w", err)
	}
	return nil
}

// Sweep removes every leftover archive directory, e.g. after a crash
func (w *ArchiveWorkspace) Sweep() (int, error) {
	entries, err := os.ReadDir(w.basePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read archive path: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), workdirPrefix) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(w.basePath, entry.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}
