package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/gitapi/internal/application/dto"
	"github.com/bravo68web/gitapi/internal/domain/models"
	"github.com/bravo68web/gitapi/internal/links"
	"github.com/bravo68web/gitapi/internal/transport/http/handler"
	"github.com/bravo68web/gitapi/pkg/openapi"
)

var (
	pageQuery = []openapi.Parameter{
		{Name: "limit", Description: "Maximum number of commits", Schema: &openapi.Schema{Type: "integer", Default: 10}},
		{Name: "offset", Description: "Window start, counted in commits", Schema: &openapi.Schema{Type: "integer", Default: 0}},
	}
	treeQuery = []openapi.Parameter{
		{Name: "recursive", Description: "List the whole tree when set to 1 or true"},
	}
)

func errorResponses(codes ...int) map[int]openapi.ResponseDoc {
	out := make(map[int]openapi.ResponseDoc, len(codes))
	for _, code := range codes {
		out[code] = openapi.ResponseDoc{
			Description: http.StatusText(code),
			Model:       dto.ErrorResponse{},
		}
	}
	return out
}

func withSuccess(desc string, model interface{}, responses map[int]openapi.ResponseDoc) map[int]openapi.ResponseDoc {
	responses[http.StatusOK] = openapi.ResponseDoc{Description: desc, Model: model}
	return responses
}

// get registers a link route on the engine together with its docs
func (r *Router) get(route links.Route, h gin.HandlerFunc, docs openapi.RouteDocs) {
	pattern := links.Pattern(route)
	r.server.OpenAPIGenerator.RegisterDocs(http.MethodGet, pattern, docs)
	r.server.GET(pattern, h)
}

func (r *Router) repoRouter() {
	h := handler.NewRepoHandler(r.Deps.RepoService, r.server.Logger)

	r.get(links.GetRepositories, h.ListRepositories, openapi.RouteDocs{
		Summary:     "List repositories",
		Description: "Every bare repository under the configured root, sorted by full name",
		Tags:        []string{"Repositories"},
		Responses:   withSuccess("Repositories", []models.Repository{}, errorResponses(500)),
	})

	r.get(links.GetRepository, h.GetRepository, openapi.RouteDocs{
		Summary:     "Get repository",
		Description: "Nested names are passed with the slash encoded as %2F",
		Tags:        []string{"Repositories"},
		Responses:   withSuccess("Repository", models.Repository{}, errorResponses(400, 404, 500)),
	})

	r.get(links.History, h.History, openapi.RouteDocs{
		Summary:     "Commit history",
		Description: "Paginated commit history of HEAD with the total commit count",
		Tags:        []string{"Commits"},
		Query:       pageQuery,
		Responses:   withSuccess("History window", dto.HistoryResponse{}, errorResponses(400, 404, 500)),
	})

	r.get(links.GetCommits, h.GetCommits, openapi.RouteDocs{
		Summary:   "List commits",
		Tags:      []string{"Commits"},
		Responses: withSuccess("Commits", []models.Commit{}, errorResponses(400, 404, 500)),
	})

	r.get(links.GetCommit, h.GetCommit, openapi.RouteDocs{
		Summary:   "Get commit",
		Tags:      []string{"Commits"},
		Responses: withSuccess("Commit", models.Commit{}, errorResponses(400, 404, 500)),
	})

	r.get(links.GetTags, h.GetTags, openapi.RouteDocs{
		Summary:     "List tags",
		Description: "Tags sorted by version",
		Tags:        []string{"Tags"},
		Responses:   withSuccess("Tags", []models.Tag{}, errorResponses(400, 404, 500)),
	})

	r.get(links.GetTag, h.GetTag, openapi.RouteDocs{
		Summary:   "Get tag",
		Tags:      []string{"Tags"},
		Responses: withSuccess("Tag", models.Tag{}, errorResponses(400, 404, 500)),
	})

	r.get(links.GetTree, h.GetTree, openapi.RouteDocs{
		Summary:     "Get tree",
		Description: "Tree listing of a revision. Tree entries carry no size.",
		Tags:        []string{"Trees"},
		Query:       treeQuery,
		Responses:   withSuccess("Tree entries", []models.TreeEntry{}, errorResponses(400, 404, 500)),
	})

	archiveDoc := func(summary, contentType string) openapi.RouteDocs {
		responses := errorResponses(400, 404, 500)
		responses[http.StatusOK] = openapi.ResponseDoc{
			Description: "Archive attachment",
			Model:       []byte{},
			ContentType: contentType,
			Headers: map[string]string{
				"Content-Disposition": "attachment; filename=<revision>.<format>, with / in the revision replaced by -",
			},
		}
		return openapi.RouteDocs{
			Summary:     summary,
			Description: "The revision latest selects HEAD",
			Tags:        []string{"Archives"},
			Responses:   responses,
		}
	}
	r.get(links.TarBall, h.TarBall, archiveDoc("Download tarball", "application/x-tar"))
	r.get(links.ZipBall, h.ZipBall, archiveDoc("Download zipball", "application/zip"))

	r.get(links.GetFileContents, h.GetFileContents, openapi.RouteDocs{
		Summary:     "Get file contents",
		Description: "Contents of a blob with the path it was committed under",
		Tags:        []string{"Files"},
		Responses:   withSuccess("File contents", dto.FileContentsResponse{}, errorResponses(400, 404, 500)),
	})

	r.get(links.GetFileHistory, h.GetFileHistory, openapi.RouteDocs{
		Summary:     "File history",
		Description: "Paginated history of the path a blob was committed under",
		Tags:        []string{"Files"},
		Query:       pageQuery,
		Responses:   withSuccess("History window", dto.HistoryResponse{}, errorResponses(400, 404, 500)),
	})
}
