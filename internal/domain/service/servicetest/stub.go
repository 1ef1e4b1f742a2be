// Package servicetest provides a configurable RepositoryService for tests of
// the layers above the git engine.
package servicetest

import (
	"context"
	"sync"

	"github.com/bravo68web/gitapi/internal/domain/models"
	"github.com/bravo68web/gitapi/internal/domain/service"
	apperrors "github.com/bravo68web/gitapi/pkg/errors"
)

// Stub answers each method with its function field. Unset fields answer
// with a not-found error. Every call is recorded by method name.
type Stub struct {
	ListRepositoriesFn func(ctx context.Context) ([]models.Repository, error)
	GetRepositoryFn    func(ctx context.Context, name string) (*models.Repository, error)
	HistoryFn          func(ctx context.Context, name string, opts service.HistoryOptions) ([]models.Commit, error)
	GetCommitFn        func(ctx context.Context, name, sha string) (*models.Commit, error)
	CountCommitsFn     func(ctx context.Context, name, revision string) (int, error)
	GetFileHistoryFn   func(ctx context.Context, name, fileID string, limit, offset int) ([]models.Commit, error)
	CountFileCommitsFn func(ctx context.Context, name, fileID string) (int, error)
	GetFileContentsFn  func(ctx context.Context, name, fileID string) (*models.FileContents, error)
	GetTagsFn          func(ctx context.Context, name string) ([]models.Tag, error)
	GetTagFn           func(ctx context.Context, name, tag string) (*models.Tag, error)
	GetTreeFn          func(ctx context.Context, name, revision string, recursive bool) ([]models.TreeEntry, error)
	ArchiveFn          func(ctx context.Context, name, revision, format string) (string, error)
	HashToFilenameFn   func(ctx context.Context, name, fileID string) (string, error)
	VersionFn          func(ctx context.Context) (string, error)

	mu    sync.Mutex
	calls []string
}

var _ service.RepositoryService = (*Stub)(nil)

// Calls returns the recorded method names in call order
func (s *Stub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Stub) record(method string) {
	s.mu.Lock()
	s.calls = append(s.calls, method)
	s.mu.Unlock()
}

func missing() error {
	return apperrors.NotFound("")
}

func (s *Stub) ListRepositories(ctx context.Context) ([]models.Repository, error) {
	s.record("ListRepositories")
	if s.ListRepositoriesFn == nil {
		return nil, missing()
	}
	return s.ListRepositoriesFn(ctx)
}

func (s *Stub) GetRepository(ctx context.Context, name string) (*models.Repository, error) {
	s.record("GetRepository")
	if s.GetRepositoryFn == nil {
		return nil, missing()
	}
	return s.GetRepositoryFn(ctx, name)
}

func (s *Stub) History(ctx context.Context, name string, opts service.HistoryOptions) ([]models.Commit, error) {
	s.record("History")
	if s.HistoryFn == nil {
		return nil, missing()
	}
	return s.HistoryFn(ctx, name, opts)
}

func (s *Stub) GetCommit(ctx context.Context, name, sha string) (*models.Commit, error) {
	s.record("GetCommit")
	if s.GetCommitFn == nil {
		return nil, missing()
	}
	return s.GetCommitFn(ctx, name, sha)
}

func (s *Stub) CountCommits(ctx context.Context, name, revision string) (int, error) {
	s.record("CountCommits")
	if s.CountCommitsFn == nil {
		return 0, missing()
	}
	return s.CountCommitsFn(ctx, name, revision)
}

func (s *Stub) GetFileHistory(ctx context.Context, name, fileID string, limit, offset int) ([]models.Commit, error) {
	s.record("GetFileHistory")
	if s.GetFileHistoryFn == nil {
		return nil, missing()
	}
	return s.GetFileHistoryFn(ctx, name, fileID, limit, offset)
}

func (s *Stub) CountFileCommits(ctx context.Context, name, fileID string) (int, error) {
	s.record("CountFileCommits")
	if s.CountFileCommitsFn == nil {
		return 0, missing()
	}
	return s.CountFileCommitsFn(ctx, name, fileID)
}

func (s *Stub) GetFileContents(ctx context.Context, name, fileID string) (*models.FileContents, error) {
	s.record("GetFileContents")
	if s.GetFileContentsFn == nil {
		return nil, missing()
	}
	return s.GetFileContentsFn(ctx, name, fileID)
}

func (s *Stub) GetTags(ctx context.Context, name string) ([]models.Tag, error) {
	s.record("GetTags")
	if s.GetTagsFn == nil {
		return nil, missing()
	}
	return s.GetTagsFn(ctx, name)
}

func (s *Stub) GetTag(ctx context.Context, name, tag string) (*models.Tag, error) {
	s.record("GetTag")
	if s.GetTagFn == nil {
		return nil, missing()
	}
	return s.GetTagFn(ctx, name, tag)
}

func (s *Stub) GetTree(ctx context.Context, name, revision string, recursive bool) ([]models.TreeEntry, error) {
	s.record("GetTree")
	if s.GetTreeFn == nil {
		return nil, missing()
	}
	return s.GetTreeFn(ctx, name, revision, recursive)
}

func (s *Stub) Archive(ctx context.Context, name, revision, format string) (string, error) {
	s.record("Archive")
	if s.ArchiveFn == nil {
		return "", missing()
	}
	return s.ArchiveFn(ctx, name, revision, format)
}

func (s *Stub) HashToFilename(ctx context.Context, name, fileID string) (string, error) {
	s.record("HashToFilename")
	if s.HashToFilenameFn == nil {
		return "", missing()
	}
	return s.HashToFilenameFn(ctx, name, fileID)
}

func (s *Stub) Version(ctx context.Context) (string, error) {
	s.record("Version")
	if s.VersionFn == nil {
		return "", missing()
	}
	return s.VersionFn(ctx)
}
