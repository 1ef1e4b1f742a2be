package dto

import (
	"path"

	"github.com/bravo68web/gitapi/internal/domain/models"
)

// Default window of the paginated listings
const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

// PageQuery is the limit/offset query of the history endpoints
type PageQuery struct {
	Limit  int `form:"limit,default=10"`
	Offset int `form:"offset,default=0"`
}

// TreeQuery selects a recursive listing with recursive=1
type TreeQuery struct {
	Recursive string `form:"recursive"`
}

// IsRecursive reports whether the listing descends into sub-trees
func (q TreeQuery) IsRecursive() bool {
	return q.Recursive == "1" || q.Recursive == "true"
}

// HistoryResponse is a page of commits together with the total count
type HistoryResponse struct {
	Count   int             `json:"count"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Commits []models.Commit `json:"commits"`
}

// FileContentsResponse is a blob with the path it was committed under
type FileContentsResponse struct {
	Size    int    `json:"size"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

// RepositoryDetailResponse is a repository with its commit count, used by the CLI
type RepositoryDetailResponse struct {
	models.Repository
	Commits int `json:"commits"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// FileContentsFromModel converts FileContents to its response DTO
func FileContentsFromModel(fc *models.FileContents) FileContentsResponse {
	return FileContentsResponse{
		Size:    len(fc.Contents),
		Name:    path.Base(fc.Filename),
		Path:    fc.Filename,
		Content: fc.Contents,
	}
}
