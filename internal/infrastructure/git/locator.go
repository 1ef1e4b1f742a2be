package git

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bravo68web/gitapi/internal/domain/models"
	apperrors "github.com/bravo68web/gitapi/pkg/errors"
)

// Directory entries that mark a bare repository
var bareMarkers = []string{"HEAD", "objects", "refs"}

// Locator maps repository names to directories under a single root
type Locator struct {
	root string
}

// NewLocator creates a Locator for root
func NewLocator(root string) *Locator {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Locator{root: filepath.Clean(root)}
}

// Root returns the cleaned absolute repository root
func (l *Locator) Root() string {
	return l.root
}

// IsBareRepository reports whether path directly contains HEAD, objects and refs
func IsBareRepository(path string) bool {
	for _, marker := range bareMarkers {
		if _, err := os.Stat(filepath.Join(path, marker)); err != nil {
			return false
		}
	}
	return true
}

// List walks the root and returns every bare repository below it, sorted by full name.
// Descent stops at a repository; dot directories and directories that cannot
// be read are skipped.
func (l *Locator) List() ([]models.Repository, error) {
	if _, err := os.Stat(l.root); err != nil {
		return nil, fmt.Errorf("failed to read repository root %s: %w", l.root, err)
	}

	repos := make([]models.Repository, 0)
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == l.root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() || path == l.root {
			return nil
		}
		// dot directories (.git of a working tree, .cache) are never listed
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !IsBareRepository(path) {
			return nil
		}

		repo, err := l.describe(path)
		if err != nil {
			return filepath.SkipDir
		}
		repos = append(repos, repo)
		return filepath.SkipDir
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan repository root %s: %w", l.root, err)
	}

	sort.Slice(repos, func(i, j int) bool {
		return repos[i].FullName < repos[j].FullName
	})

	return repos, nil
}

// Resolve returns the directory of the repository called name. Names that are
// empty, absolute, or that would leave the root are reported as not found.
func (l *Locator) Resolve(name string) (string, error) {
	path, ok := l.join(name)
	if !ok {
		return "", apperrors.NotFound(fmt.Sprintf("Repository %s does not exists", name))
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.NotFound(fmt.Sprintf("Repository %s does not exists", name))
		}
		return "", apperrors.InternalError("failed to stat repository", err)
	}
	if !info.IsDir() || !IsBareRepository(path) {
		return "", apperrors.InvalidRepository(name)
	}

	return path, nil
}

// Describe returns the metadata of the repository called name
func (l *Locator) Describe(name string) (*models.Repository, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}

	repo, err := l.describe(path)
	if err != nil {
		return nil, apperrors.InternalError("failed to read repository metadata", err)
	}
	return &repo, nil
}

func (l *Locator) describe(path string) (models.Repository, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.Repository{}, err
	}

	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		return models.Repository{}, err
	}

	repo := models.Repository{
		Name:      filepath.Base(path),
		FullName:  filepath.ToSlash(rel),
		UpdatedAt: info.ModTime().Format(time.RFC3339),
	}

	if raw, err := os.ReadFile(filepath.Join(path, "description")); err == nil {
		repo.Description = strings.TrimRight(string(raw), "\r\n")
	}

	return repo, nil
}

// join maps name onto the root, refusing anything that could escape it
func (l *Locator) join(name string) (string, bool) {
	if name == "" || strings.ContainsAny(name, "\x00\\") {
		return "", false
	}
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return "", false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", false
		}
	}

	path := filepath.Join(l.root, filepath.FromSlash(name))
	rel, err := filepath.Rel(l.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	return path, true
}
