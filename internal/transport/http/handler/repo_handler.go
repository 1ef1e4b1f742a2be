package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/gitapi/internal/application/dto"
	"github.com/bravo68web/gitapi/internal/application/service"
	domainservice "github.com/bravo68web/gitapi/internal/domain/service"
	apperrors "github.com/bravo68web/gitapi/pkg/errors"
	"github.com/bravo68web/gitapi/pkg/logger"
)

// RepoHandler handles repository-related HTTP requests
type RepoHandler struct {
	repoService *service.RepoService
	log         *logger.Logger
}

// NewRepoHandler creates a new RepoHandler instance
func NewRepoHandler(repoService *service.RepoService, log *logger.Logger) *RepoHandler {
	if log == nil {
		log = logger.Get()
	}
	return &RepoHandler{
		repoService: repoService,
		log:         log.WithFields(logger.Component("repo-handler")),
	}
}

// ListRepositories handles GET /repositories
func (h *RepoHandler) ListRepositories(c *gin.Context) {
	repos, err := h.repoService.ListRepositories(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, repos)
}

// GetRepository handles GET /repositories/:name
func (h *RepoHandler) GetRepository(c *gin.Context) {
	repo, err := h.repoService.GetRepository(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, repo)
}

// History handles GET /repositories/:name/history
func (h *RepoHandler) History(c *gin.Context) {
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		h.handleError(c, apperrors.BadRequest("limit and offset must be integers", err))
		return
	}

	resp, err := h.repoService.History(c.Request.Context(), c.Param("name"), page)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCommits handles GET /repositories/:name/commits
func (h *RepoHandler) GetCommits(c *gin.Context) {
	commits, err := h.repoService.Commits(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, commits)
}

// GetCommit handles GET /repositories/:name/commits/:sha
func (h *RepoHandler) GetCommit(c *gin.Context) {
	commit, err := h.repoService.GetCommit(c.Request.Context(), c.Param("name"), c.Param("sha"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, commit)
}

// GetTags handles GET /repositories/:name/tags
func (h *RepoHandler) GetTags(c *gin.Context) {
	tags, err := h.repoService.GetTags(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

// GetTag handles GET /repositories/:name/tags/:tag
func (h *RepoHandler) GetTag(c *gin.Context) {
	tag, err := h.repoService.GetTag(c.Request.Context(), c.Param("name"), c.Param("tag"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tag)
}

// GetTree handles GET /repositories/:name/trees/:revision
func (h *RepoHandler) GetTree(c *gin.Context) {
	var query dto.TreeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.handleError(c, apperrors.BadRequest("", err))
		return
	}

	entries, err := h.repoService.GetTree(c.Request.Context(), c.Param("name"), c.Param("revision"), query.IsRecursive())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// TarBall handles GET /repositories/:name/tar_ball/:revision
func (h *RepoHandler) TarBall(c *gin.Context) {
	h.archive(c, domainservice.ArchiveTar)
}

// ZipBall handles GET /repositories/:name/zip_ball/:revision
func (h *RepoHandler) ZipBall(c *gin.Context) {
	h.archive(c, domainservice.ArchiveZip)
}

func (h *RepoHandler) archive(c *gin.Context, format string) {
	ctx := c.Request.Context()

	archive, err := h.repoService.Archive(ctx, c.Param("name"), c.Param("revision"), format)
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer h.repoService.ReleaseArchive(ctx, archive)

	c.FileAttachment(archive.Path, archive.Filename)
}

// GetFileContents handles GET /repositories/:name/files/:sha/contents
func (h *RepoHandler) GetFileContents(c *gin.Context) {
	resp, err := h.repoService.FileContents(c.Request.Context(), c.Param("name"), c.Param("sha"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetFileHistory handles GET /repositories/:name/files/:sha/history
func (h *RepoHandler) GetFileHistory(c *gin.Context) {
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		h.handleError(c, apperrors.BadRequest("limit and offset must be integers", err))
		return
	}

	resp, err := h.repoService.FileHistory(c.Request.Context(), c.Param("name"), c.Param("sha"), page)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleError writes the {code, message} body for err
func (h *RepoHandler) handleError(c *gin.Context, err error) {
	status, message := apperrors.StatusAndMessage(err)
	_ = c.Error(err)

	if status >= http.StatusInternalServerError {
		h.log.WithContext(c.Request.Context()).Error("request failed",
			logger.Path(c.Request.URL.Path),
			logger.Error(err),
		)
	}

	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Code:    status,
		Message: message,
	})
}
