package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/bravo68web/gitapi/internal/domain/models"
	"github.com/bravo68web/gitapi/internal/domain/service"
	"github.com/bravo68web/gitapi/internal/infrastructure/storage"
	"github.com/bravo68web/gitapi/internal/links"
	apperrors "github.com/bravo68web/gitapi/pkg/errors"
	"github.com/bravo68web/gitapi/pkg/logger"
)

// LatestRevision is accepted by Archive as an alias of HEAD
const LatestRevision = "latest"

// GitOperations implements the RepositoryService interface on top of the git CLI
type GitOperations struct {
	runner    Runner
	locator   *Locator
	parser    *Parser
	workspace *storage.ArchiveWorkspace
	log       *logger.Logger

	mu      sync.Mutex
	catalog *FormatCatalog
}

// NewGitOperations creates a new GitOperations instance
func NewGitOperations(
	runner Runner,
	locator *Locator,
	gen links.Generator,
	workspace *storage.ArchiveWorkspace,
	log *logger.Logger,
) *GitOperations {
	if log == nil {
		log = logger.Get()
	}
	return &GitOperations{
		runner:    runner,
		locator:   locator,
		parser:    NewParser(gen),
		workspace: workspace,
		log:       log.WithFields(logger.Component("git")),
	}
}

// ListRepositories returns every bare repository under the root
func (g *GitOperations) ListRepositories(ctx context.Context) ([]models.Repository, error) {
	repos, err := g.locator.List()
	if err != nil {
		return nil, apperrors.InternalError("failed to list repositories", err)
	}
	return repos, nil
}

// GetRepository returns one repository's metadata
func (g *GitOperations) GetRepository(ctx context.Context, name string) (*models.Repository, error) {
	return g.locator.Describe(name)
}

// History lists commits most-recent-first. The number of commits skipped is
// opts.Limit + opts.Offset, floored at zero.
func (g *GitOperations) History(ctx context.Context, name string, opts service.HistoryOptions) ([]models.Commit, error) {
	repoPath, err := g.locator.Resolve(name)
	if err != nil {
		return nil, err
	}
	if opts.Revision != "" && !IsValidRevision(repoPath, opts.Revision) {
		return nil, apperrors.InvalidRevision(opts.Revision)
	}

	catalog, err := g.formats(ctx)
	if err != nil {
		return nil, err
	}

	args := []string{
		"log",
		"--pretty=format:" + catalog.Commit(),
		"--skip=" + strconv.Itoa(max(opts.Limit+opts.Offset, 0)),
		"--max-count=" + strconv.Itoa(opts.Limit),
	}
	if opts.Revision != "" {
		args = append(args, opts.Revision, "--")
	}

	out, err := g.run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}

	return g.parser.Commits(out, name), nil
}

// GetCommit returns the commit sha resolves to
func (g *GitOperations) GetCommit(ctx context.Context, name, sha string) (*models.Commit, error) {
	repoPath, err := g.locator.Resolve(name)
	if err != nil {
		return nil, err
	}
	if !IsValidRevision(repoPath, sha) {
		return nil, apperrors.InvalidRevision(sha)
	}

	catalog, err := g.formats(ctx)
	if err != nil {
		return nil, err
	}

	out, err := g.run(ctx, repoPath, "log", "--pretty=format:"+catalog.Commit(), "--max-count=1", sha, "--")
	if err != nil {
		if unknownRevision(err) {
			return nil, apperrors.NotFound(fmt.Sprintf("Commit %s not found", sha))
		}
		return nil, err
	}

	commits := g.parser.Commits(out, name)
	if len(commits) == 0 {
		return nil, apperrors.NotFound(fmt.Sprintf("Commit %s not found", sha))
	}
	return &commits[0], nil
}

// CountCommits counts commits reachable from revision, or from all refs when it is empty
func (g *GitOperations) CountCommits(ctx context.Context, name, revision string) (int, error) {
	repoPath, err := g.locator.Resolve(name)
	if err != nil {
		return 0, err
	}

	target := "--all"
	if revision != "" {
		if !IsValidRevision(repoPath, revision) {
			return 0, apperrors.InvalidRevision(revision)
		}
		target = revision
	}

	out, err := g.run(ctx, repoPath, "rev-list", "--count", target)
	if err != nil {
		return 0, err
	}

	return parseCount(out), nil
}

// GetFileHistory lists the rename-tracked history of the path fileID was committed under
func (g *GitOperations) GetFileHistory(ctx context.Context, name, fileID string, limit, offset int) ([]models.Commit, error) {
	repoPath, filename, err := g.resolveFile(ctx, name, fileID)
	if err != nil {
		return nil, err
	}

	catalog, err := g.formats(ctx)
	if err != nil {
		return nil, err
	}

	out, err := g.run(ctx, repoPath,
		"log", "--follow",
		"--pretty=format:"+catalog.Commit(),
		"--skip="+strconv.Itoa(max(limit+offset, 0)),
		"--max-count="+strconv.Itoa(limit),
		"--", filename,
	)
	if err != nil {
		return nil, err
	}

	return g.parser.Commits(out, name), nil
}

// CountFileCommits counts commits touching the path fileID was committed under
func (g *GitOperations) CountFileCommits(ctx context.Context, name, fileID string) (int, error) {
	repoPath, filename, err := g.resolveFile(ctx, name, fileID)
	if err != nil {
		return 0, err
	}

	out, err := g.run(ctx, repoPath, "log", "--follow", "--oneline", "--", filename)
	if err != nil {
		return 0, err
	}

	return CountLines(out), nil
}

// GetFileContents returns a blob and the path it was committed under
func (g *GitOperations) GetFileContents(ctx context.Context, name, fileID string) (*models.FileContents, error) {
	repoPath, filename, err := g.resolveFile(ctx, name, fileID)
	if err != nil {
		return nil, err
	}

	out, err := g.run(ctx, repoPath, "show", fileID, "--source")
	if err != nil {
		return nil, err
	}

	return &models.FileContents{
		Filename: filename,
		Contents: string(out),
	}, nil
}

// GetTags returns all tags sorted by version
func (g *GitOperations) GetTags(ctx context.Context, name string) ([]models.Tag, error) {
	repoPath, err := g.locator.Resolve(name)
	if err != nil {
		return nil, err
	}

	catalog, err := g.formats(ctx)
	if err != nil {
		return nil, err
	}

	out, err := g.run(ctx, repoPath, "for-each-ref", "--sort=version:refname", "--format="+catalog.Tag(), "refs/tags")
	if err != nil {
		return nil, err
	}

	return g.parser.Tags(out, name), nil
}

// GetTag returns one tag. Only loose refs are found; a tag that exists solely
// in packed-refs is reported as not found.
func (g *GitOperations) GetTag(ctx context.Context, name, tag string) (*models.Tag, error) {
	repoPath, err := g.locator.Resolve(name)
	if err != nil {
		return nil, err
	}
	if !isSafeRefName(tag) || !isRegularFile(filepath.Join(repoPath, "refs", "tags", filepath.FromSlash(tag))) {
		return nil, apperrors.NotFound(fmt.Sprintf("%s is not a valid tag", tag))
	}

	catalog, err := g.formats(ctx)
	if err != nil {
		return nil, err
	}

	out, err := g.run(ctx, repoPath, "for-each-ref", "--format="+catalog.Tag(), "refs/tags/"+tag)
	if err != nil {
		return nil, err
	}

	for _, t := range g.parser.Tags(out, name) {
		if t.Tag == tag {
			return &t, nil
		}
	}
	return nil, apperrors.NotFound(fmt.Sprintf("%s is not a valid tag", tag))
}

// GetTree lists the tree revision points at
func (g *GitOperations) GetTree(ctx context.Context, name, revision string, recursive bool) ([]models.TreeEntry, error) {
	repoPath, err := g.locator.Resolve(name)
	if err != nil {
		return nil, err
	}
	if !IsValidRevision(repoPath, revision) {
		return nil, apperrors.InvalidRevision(revision)
	}

	flags := "-l"
	if recursive {
		flags = "-lr"
	}

	out, err := g.run(ctx, repoPath, "ls-tree", flags, revision)
	if err != nil {
		return nil, err
	}

	return g.parser.Tree(out), nil
}

// Archive writes a tar or zip of revision into a fresh workspace directory and
// returns the file path. "latest" is HEAD and names the file latest.<format>.
// The caller releases the file through the workspace once it has been sent.
func (g *GitOperations) Archive(ctx context.Context, name, revision, format string) (string, error) {
	repoPath, err := g.locator.Resolve(name)
	if err != nil {
		return "", err
	}

	if format != service.ArchiveTar && format != service.ArchiveZip {
		return "", apperrors.BadRequest(fmt.Sprintf("Invalid format %s, only tar and zip are allowed", format), nil)
	}

	if revision == LatestRevision {
		revision = Head
	}
	if !IsValidRevision(repoPath, revision) {
		return "", apperrors.InvalidRevision(revision)
	}

	target, err := g.workspace.Allocate(ArchiveFilename(revision, format))
	if err != nil {
		return "", apperrors.InternalError("failed to prepare archive", err)
	}

	if _, err := g.run(ctx, repoPath, "archive", "--format="+format, "-o", target, revision); err != nil {
		if releaseErr := g.workspace.Release(target); releaseErr != nil {
			g.log.Warn("failed to release archive workspace", logger.Error(releaseErr))
		}
		return "", err
	}

	g.log.Debug("archive written",
		logger.Repository(name),
		logger.Revision(revision),
		logger.String("path", target),
	)

	return target, nil
}

// ArchiveFilename names the archive of revision: latest.<format> for HEAD,
// otherwise the revision with slashes turned into dashes
func ArchiveFilename(revision, format string) string {
	base := revision
	if revision == Head || revision == LatestRevision {
		base = LatestRevision
	}
	return strings.ReplaceAll(base, "/", "-") + "." + format
}

// HashToFilename resolves a blob id to the first path it appears under in
// `git rev-list --objects --all`
func (g *GitOperations) HashToFilename(ctx context.Context, name, fileID string) (string, error) {
	_, filename, err := g.resolveFile(ctx, name, fileID)
	return filename, err
}

// Version returns the version reported by `git --version`
func (g *GitOperations) Version(ctx context.Context) (string, error) {
	catalog, err := g.formats(ctx)
	if err != nil {
		return "", err
	}
	return catalog.Version(), nil
}

// Formats returns the template catalog for the detected git version
func (g *GitOperations) Formats(ctx context.Context) (*FormatCatalog, error) {
	return g.formats(ctx)
}

// formats probes git once; a failed probe is retried on the next call
func (g *GitOperations) formats(ctx context.Context) (*FormatCatalog, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.catalog != nil {
		return g.catalog, nil
	}

	out, err := g.run(ctx, "", "--version")
	if err != nil {
		return nil, err
	}

	version, err := ParseVersionOutput(out)
	if err != nil {
		return nil, apperrors.InternalError("failed to detect git version", err)
	}

	g.catalog = NewFormatCatalog(version)
	g.log.Info("detected git version",
		logger.Version(version),
		logger.String("date_style", g.catalog.DateStyle().String()),
	)

	return g.catalog, nil
}

// resolveFile validates fileID and maps it to its repository and path
func (g *GitOperations) resolveFile(ctx context.Context, name, fileID string) (string, string, error) {
	repoPath, err := g.locator.Resolve(name)
	if err != nil {
		return "", "", err
	}
	if !IsValidRevision(repoPath, fileID) {
		return "", "", apperrors.InvalidRevision(fileID)
	}

	out, err := g.run(ctx, repoPath, "cat-file", "-t", fileID)
	if err != nil {
		if apperrors.IsGitFailure(err) {
			return "", "", apperrors.NotAFile(fileID)
		}
		return "", "", err
	}
	if strings.TrimSpace(string(out)) != "blob" {
		return "", "", apperrors.NotAFile(fileID)
	}

	out, err = g.run(ctx, repoPath, "rev-list", "--objects", "--all", "--oneline")
	if err != nil {
		return "", "", err
	}

	prefix := strings.ToLower(fileID)
	for _, line := range splitLines(out) {
		id, rest, found := strings.Cut(line, " ")
		if !found || rest == "" || !strings.HasPrefix(id, prefix) {
			continue
		}
		return repoPath, rest, nil
	}

	return "", "", apperrors.NotFound(fmt.Sprintf("No file found for %s", fileID))
}

// run executes git and converts a failure into a 500 carrying git's message
func (g *GitOperations) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	out, err := g.runner.Run(ctx, dir, args...)
	if err == nil {
		return out, nil
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return nil, apperrors.GitError(cmdErr.Message(), cmdErr)
	}
	return nil, apperrors.GitError(err.Error(), err)
}

// unknownRevision reports whether git rejected a revision that names no object
func unknownRevision(err error) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.ExitCode != 128 {
		return false
	}
	msg := cmdErr.Message()
	return strings.Contains(msg, "bad revision") ||
		strings.Contains(msg, "unknown revision") ||
		strings.Contains(msg, "bad object")
}

func parseCount(out []byte) int {
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

var _ service.RepositoryService = (*GitOperations)(nil)
