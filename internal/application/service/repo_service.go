package service

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/bravo68web/gitapi/internal/application/dto"
	"github.com/bravo68web/gitapi/internal/domain/models"
	"github.com/bravo68web/gitapi/internal/domain/service"
	apperrors "github.com/bravo68web/gitapi/pkg/errors"
	"github.com/bravo68web/gitapi/pkg/logger"
)

var fileIDPattern = regexp.MustCompile(`^[a-fA-F0-9]{5,40}$`)

// ArchiveReleaser removes an archive produced by RepositoryService.Archive
type ArchiveReleaser interface {
	Release(path string) error
}

// Archive is a generated archive ready to be sent
type Archive struct {
	Path     string
	Filename string
}

// RepoService shapes repository reads into API responses
type RepoService struct {
	repos    service.RepositoryService
	archives ArchiveReleaser
	log      *logger.Logger
}

// NewRepoService creates a new RepoService instance
func NewRepoService(repos service.RepositoryService, archives ArchiveReleaser, log *logger.Logger) *RepoService {
	if log == nil {
		log = logger.Get()
	}
	return &RepoService{
		repos:    repos,
		archives: archives,
		log:      log.WithFields(logger.Component("repo-service")),
	}
}

// ListRepositories returns every repository under the root
func (s *RepoService) ListRepositories(ctx context.Context) ([]models.Repository, error) {
	return s.repos.ListRepositories(ctx)
}

// GetRepository returns one repository
func (s *RepoService) GetRepository(ctx context.Context, name string) (*models.Repository, error) {
	return s.repos.GetRepository(ctx, name)
}

// GetRepositoryDetail returns a repository together with its commit count
func (s *RepoService) GetRepositoryDetail(ctx context.Context, name string) (*dto.RepositoryDetailResponse, error) {
	repo, err := s.repos.GetRepository(ctx, name)
	if err != nil {
		return nil, err
	}

	count, err := s.repos.CountCommits(ctx, name, "")
	if err != nil {
		return nil, err
	}

	return &dto.RepositoryDetailResponse{Repository: *repo, Commits: count}, nil
}

// History returns one page of commits and the repository's commit count
func (s *RepoService) History(ctx context.Context, name string, page dto.PageQuery) (*dto.HistoryResponse, error) {
	commits, err := s.repos.History(ctx, name, service.HistoryOptions{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}

	count, err := s.repos.CountCommits(ctx, name, "")
	if err != nil {
		return nil, err
	}

	return &dto.HistoryResponse{
		Count:   count,
		Limit:   page.Limit,
		Offset:  page.Offset,
		Commits: commits,
	}, nil
}

// Commits returns the full history
func (s *RepoService) Commits(ctx context.Context, name string) ([]models.Commit, error) {
	return s.repos.History(ctx, name, service.HistoryOptions{Limit: -1, Offset: 0})
}

// GetCommit returns one commit
func (s *RepoService) GetCommit(ctx context.Context, name, sha string) (*models.Commit, error) {
	return s.repos.GetCommit(ctx, name, sha)
}

// GetTags returns every tag
func (s *RepoService) GetTags(ctx context.Context, name string) ([]models.Tag, error) {
	return s.repos.GetTags(ctx, name)
}

// GetTag returns one tag
func (s *RepoService) GetTag(ctx context.Context, name, tag string) (*models.Tag, error) {
	return s.repos.GetTag(ctx, name, tag)
}

// GetTree lists the tree of revision
func (s *RepoService) GetTree(ctx context.Context, name, revision string, recursive bool) ([]models.TreeEntry, error) {
	return s.repos.GetTree(ctx, name, revision, recursive)
}

// Archive generates an archive. The caller must hand it back to ReleaseArchive.
func (s *RepoService) Archive(ctx context.Context, name, revision, format string) (*Archive, error) {
	path, err := s.repos.Archive(ctx, name, revision, format)
	if err != nil {
		return nil, err
	}
	return &Archive{Path: path, Filename: filepath.Base(path)}, nil
}

// ReleaseArchive deletes a generated archive; failures are only logged
func (s *RepoService) ReleaseArchive(ctx context.Context, archive *Archive) {
	if archive == nil || s.archives == nil {
		return
	}
	if err := s.archives.Release(archive.Path); err != nil {
		s.log.WithContext(ctx).Warn("failed to release archive",
			logger.String("path", archive.Path),
			logger.Error(err),
		)
	}
}

// FileContents returns a blob with its name and path
func (s *RepoService) FileContents(ctx context.Context, name, sha string) (*dto.FileContentsResponse, error) {
	if !fileIDPattern.MatchString(sha) {
		return nil, apperrors.NotFound("")
	}

	fc, err := s.repos.GetFileContents(ctx, name, sha)
	if err != nil {
		return nil, err
	}

	resp := dto.FileContentsFromModel(fc)
	return &resp, nil
}

// FileHistory returns one page of the history of a blob's path and the path's commit count
func (s *RepoService) FileHistory(ctx context.Context, name, sha string, page dto.PageQuery) (*dto.HistoryResponse, error) {
	if !fileIDPattern.MatchString(sha) {
		return nil, apperrors.NotFound("")
	}

	commits, err := s.repos.GetFileHistory(ctx, name, sha, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	count, err := s.repos.CountFileCommits(ctx, name, sha)
	if err != nil {
		return nil, err
	}

	return &dto.HistoryResponse{
		Count:   count,
		Limit:   page.Limit,
		Offset:  page.Offset,
		Commits: commits,
	}, nil
}

// Version returns the git version in use
func (s *RepoService) Version(ctx context.Context) (string, error) {
	version, err := s.repos.Version(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to detect git version: %w", err)
	}
	return version, nil
}
