package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Generate(t *testing.T) {
	b := NewBuilder("https://git.example.com/")

	tests := []struct {
		name   string
		route  Route
		params map[string]string
		want   string
	}{
		{"repository list", GetRepositories, nil, "https://git.example.com/repositories"},
		{"commit", GetCommit, map[string]string{"name": "demo", "sha": "abc123"}, "https://git.example.com/repositories/demo/commits/abc123"},
		{"tree", GetTree, map[string]string{"name": "demo", "revision": "deadbeefcafe"}, "https://git.example.com/repositories/demo/trees/deadbeefcafe"},
		{"tag", GetTag, map[string]string{"name": "demo", "tag": "v1.0"}, "https://git.example.com/repositories/demo/tags/v1.0"},
		{"nested name is one segment", GetRepository, map[string]string{"name": "group/project.git"}, "https://git.example.com/repositories/group%2Fproject.git"},
		{"archive", ZipBall, map[string]string{"name": "demo", "revision": "HEAD"}, "https://git.example.com/repositories/demo/zip_ball/HEAD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Generate(tt.route, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilder_GenerateMissingParameter(t *testing.T) {
	b := NewBuilder("http://localhost")

	_, err := b.Generate(GetCommit, map[string]string{"name": "demo"})
	assert.ErrorIs(t, err, ErrMissingParameter)

	_, err = b.Generate(GetCommit, map[string]string{"name": "demo", "sha": ""})
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestBuilder_GenerateUnknownRoute(t *testing.T) {
	_, err := NewBuilder("http://localhost").Generate(Route("nope"), nil)
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestRoutes_AllHavePatterns(t *testing.T) {
	for _, r := range Routes() {
		assert.NotEmpty(t, Pattern(r), "route %s", r)
	}
}
