package injectable

import (
	"fmt"

	"github.com/bravo68web/gitapi/internal/application/service"
	"github.com/bravo68web/gitapi/internal/config"
	domainservice "github.com/bravo68web/gitapi/internal/domain/service"
	"github.com/bravo68web/gitapi/internal/infrastructure/git"
	"github.com/bravo68web/gitapi/internal/infrastructure/storage"
	"github.com/bravo68web/gitapi/internal/links"
	"github.com/bravo68web/gitapi/pkg/logger"
)

// Dependencies holds all the dependencies required by the router and the CLI
type Dependencies struct {
	GitService    domainservice.RepositoryService
	GitOperations *git.GitOperations
	RepoService   *service.RepoService
	Workspace     *storage.ArchiveWorkspace
	Links         *links.Builder
}

// LoadDependencies wires the git engine to the application services
func LoadDependencies(cfg *config.Config, log *logger.Logger) (Dependencies, error) {
	if log == nil {
		log = logger.Get()
	}

	workspace, err := storage.NewArchiveWorkspace(cfg.Git.ArchivePath)
	if err != nil {
		return Dependencies{}, fmt.Errorf("failed to initialize archive workspace: %w", err)
	}

	runner := git.NewExecRunner(cfg.Git.Binary, cfg.Git.CommandTimeout, log)
	locator := git.NewLocator(cfg.Git.ReposPath)
	linkBuilder := links.NewBuilder(cfg.API.BaseURL())

	gitService := git.NewGitOperations(runner, locator, linkBuilder, workspace, log)
	repoService := service.NewRepoService(gitService, workspace, log)

	return Dependencies{
		GitService:    gitService,
		GitOperations: gitService,
		RepoService:   repoService,
		Workspace:     workspace,
		Links:         linkBuilder,
	}, nil
}
