// Package links holds the named route table of the HTTP API and builds
// absolute URLs from it. The router registers the same patterns, so a
// generated link always points at a served route.
package links

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Route names a resource of the API
type Route string

const (
	GetRepositories Route = "get_repositories"
	GetRepository   Route = "get_repository"
	History         Route = "history"
	GetCommits      Route = "get_commits"
	GetCommit       Route = "get_commit"
	GetTags         Route = "get_tags"
	GetTag          Route = "get_tag"
	GetTree         Route = "get_tree"
	TarBall         Route = "tar_ball"
	ZipBall         Route = "zip_ball"
	GetFileContents Route = "get_file_contents"
	GetFileHistory  Route = "get_file_history"
)

var patterns = map[Route]string{
	GetRepositories: "/repositories",
	GetRepository:   "/repositories/:name",
	History:         "/repositories/:name/history",
	GetCommits:      "/repositories/:name/commits",
	GetCommit:       "/repositories/:name/commits/:sha",
	GetTags:         "/repositories/:name/tags",
	GetTag:          "/repositories/:name/tags/:tag",
	GetTree:         "/repositories/:name/trees/:revision",
	TarBall:         "/repositories/:name/tar_ball/:revision",
	ZipBall:         "/repositories/:name/zip_ball/:revision",
	GetFileContents: "/repositories/:name/files/:sha/contents",
	GetFileHistory:  "/repositories/:name/files/:sha/history",
}

var (
	ErrUnknownRoute     = errors.New("unknown route")
	ErrMissingParameter = errors.New("missing route parameter")
)

// Pattern returns the gin path pattern of r, or "" for an unknown route
func Pattern(r Route) string {
	return patterns[r]
}

// Generator produces absolute URLs for named routes
type Generator interface {
	Generate(route Route, params map[string]string) (string, error)
}

// Builder generates links against a fixed base URL (scheme://domain)
type Builder struct {
	baseURL string
}

// NewBuilder creates a Builder. A trailing slash on baseURL is ignored.
func NewBuilder(baseURL string) *Builder {
	return &Builder{baseURL: strings.TrimRight(baseURL, "/")}
}

// Generate substitutes params into the route pattern. Values are path-escaped,
// so nested repository names become a single %2F-encoded segment.
func (b *Builder) Generate(route Route, params map[string]string) (string, error) {
	pattern, ok := patterns[route]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, route)
	}

	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		key := seg[1:]
		val, ok := params[key]
		if !ok || val == "" {
			return "", fmt.Errorf("%w: %s for %s", ErrMissingParameter, key, route)
		}
		segments[i] = url.PathEscape(val)
	}

	return b.baseURL + strings.Join(segments, "/"), nil
}

// Routes lists every named route, for registration and docs
func Routes() []Route {
	return []Route{
		GetRepositories, GetRepository, History, GetCommits, GetCommit,
		GetTags, GetTag, GetTree, TarBall, ZipBall, GetFileContents, GetFileHistory,
	}
}

var _ Generator = (*Builder)(nil)
