package service

import (
	"context"

	"github.com/bravo68web/gitapi/internal/domain/models"
)

// Archive formats accepted by RepositoryService.Archive
const (
	ArchiveTar = "tar"
	ArchiveZip = "zip"
)

// HistoryOptions selects a window of a log listing. Limit -1 means unbounded.
type HistoryOptions struct {
	Limit    int
	Offset   int
	Revision string // empty means the repository's HEAD
}

// RepositoryService is the read-only view over the repositories under the configured root.
// Every method validates its inputs before a git process is started.
type RepositoryService interface {
	// ListRepositories returns every bare repository under the root, sorted by full name
	ListRepositories(ctx context.Context) ([]models.Repository, error)

	// GetRepository returns one repository
	GetRepository(ctx context.Context, name string) (*models.Repository, error)

	// History returns commits most-recent-first
	History(ctx context.Context, name string, opts HistoryOptions) ([]models.Commit, error)

	// GetCommit returns a single commit
	GetCommit(ctx context.Context, name, sha string) (*models.Commit, error)

	// CountCommits counts commits reachable from revision, or from all refs when empty
	CountCommits(ctx context.Context, name, revision string) (int, error)

	// GetFileHistory returns the rename-tracked history of the file a blob was committed as
	GetFileHistory(ctx context.Context, name, fileID string, limit, offset int) ([]models.Commit, error)

	// CountFileCommits counts commits touching the file a blob was committed as
	CountFileCommits(ctx context.Context, name, fileID string) (int, error)

	// GetFileContents returns a blob with its resolved path
	GetFileContents(ctx context.Context, name, fileID string) (*models.FileContents, error)

	// GetTags returns all tags, version-sorted by name
	GetTags(ctx context.Context, name string) ([]models.Tag, error)

	// GetTag returns one tag
	GetTag(ctx context.Context, name, tag string) (*models.Tag, error)

	// GetTree lists a tree, optionally recursing into sub-trees
	GetTree(ctx context.Context, name, revision string, recursive bool) ([]models.TreeEntry, error)

	// Archive writes an archive of revision and returns its path. The caller owns the file.
	Archive(ctx context.Context, name, revision, format string) (string, error)

	// HashToFilename resolves a blob id to the path it was committed under.
	// This scans every reachable object and is slow on large histories.
	HashToFilename(ctx context.Context, name, fileID string) (string, error)

	// Version returns the detected git version
	Version(ctx context.Context) (string, error)
}
