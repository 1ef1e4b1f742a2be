package git

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo68web/gitapi/internal/links"
)

const (
	shaA    = "1111111111111111111111111111111111111111"
	shaB    = "2222222222222222222222222222222222222222"
	shaC    = "3333333333333333333333333333333333333333"
	shaTree = "4444444444444444444444444444444444444444"
)

func commitLine(sha, parents, subject string) string {
	return fmt.Sprintf(`{"sha":"%s","url":"","author":{"name":"Jane Doe","email":"jane@example.com","date":"2024-01-02T15:04:05+00:00"},`+
		`"committer":{"name":"Jane Doe","email":"jane@example.com","date":"2024-01-02T15:04:05+00:00"},`+
		`"message":"%s","tree":{"sha":"%s","url":""},"parent":{"sha":"%s","url":""}}`,
		sha, subject, shaTree, parents)
}

func TestParser_Commits(t *testing.T) {
	p := NewParser(links.NewBuilder(testBaseURL))

	raw := strings.Join([]string{
		commitLine(shaC, shaA+" "+shaB, "Merge branch 'feature'"),
		commitLine(shaB, shaA, "Add docs"),
		commitLine(shaA, "", "Initial commit"),
	}, "\n")

	commits := p.Commits([]byte(raw), "group/demo.git")
	require.Len(t, commits, 3)

	merge := commits[0]
	assert.Equal(t, shaC, merge.SHA)
	assert.Equal(t, testBaseURL+"/repositories/group%2Fdemo.git/commits/"+shaC, merge.URL)
	assert.Equal(t, shaA, merge.Parent.SHA)
	assert.Equal(t, testBaseURL+"/repositories/group%2Fdemo.git/commits/"+shaA, merge.Parent.URL)
	assert.Equal(t, testBaseURL+"/repositories/group%2Fdemo.git/trees/"+shaTree, merge.Tree.URL)
	assert.Equal(t, "Jane Doe", merge.Author.Name)
	assert.Equal(t, "jane@example.com", merge.Committer.Email)

	root := commits[2]
	assert.Equal(t, "Initial commit", root.Message)
	assert.Empty(t, root.Parent.SHA)
	assert.Empty(t, root.Parent.URL)
}

func TestParser_CommitsDropsMalformedLines(t *testing.T) {
	p := NewParser(links.NewBuilder(testBaseURL))

	raw := strings.Join([]string{
		commitLine(shaA, "", "fine"),
		commitLine(shaB, shaA, `say "hi"`),
		"not json at all",
		commitLine("zzzz", "", "bad sha"),
		"",
		commitLine(shaC, shaB, "also fine"),
	}, "\n")

	commits := p.Commits([]byte(raw), "demo.git")
	require.Len(t, commits, 2)
	assert.Equal(t, shaA, commits[0].SHA)
	assert.Equal(t, shaC, commits[1].SHA)
}

func TestParser_CommitsEmptyOutput(t *testing.T) {
	p := NewParser(nil)

	commits := p.Commits(nil, "demo.git")
	assert.NotNil(t, commits)
	assert.Empty(t, commits)
}

func TestParser_Tags(t *testing.T) {
	p := NewParser(links.NewBuilder(testBaseURL))

	annotated := fmt.Sprintf(`{"tag":"v1.1.0","sha":"%s","url":"","message":"Release 1.1.0",`+
		`"tagger":{"name":"Jane Doe","email":"<jane@example.com>","date":"Tue Jan 2 15:04:05 2024 +0000"},`+
		`"object":{"type":"commit","sha":"%s","message":"Add docs","url":""}}`, shaC, shaB)
	lightweight := fmt.Sprintf(`{"tag":"v1.0.0","sha":"%s","url":"","message":"Initial commit",`+
		`"tagger":{"name":"","email":"","date":""},`+
		`"object":{"type":"","sha":"","message":"","url":""}}`, shaA)

	tags := p.Tags([]byte(lightweight+"\n"+annotated+"\n"), "demo.git")
	require.Len(t, tags, 2)

	assert.Equal(t, "v1.0.0", tags[0].Tag)
	assert.Equal(t, testBaseURL+"/repositories/demo.git/tags/v1.0.0", tags[0].URL)
	assert.Empty(t, tags[0].Object.SHA)
	assert.Empty(t, tags[0].Object.URL)

	assert.Equal(t, "jane@example.com", tags[1].Tagger.Email)
	assert.Equal(t, "commit", tags[1].Object.Type)
	assert.Equal(t, testBaseURL+"/repositories/demo.git/commits/"+shaB, tags[1].Object.URL)
}

func TestParseTree(t *testing.T) {
	raw := strings.Join([]string{
		"100644 blob " + shaA + "     1234\tREADME.md",
		"040000 tree " + shaB + "        -\tdocs",
		"160000 commit " + shaC + "       -\tvendor/lib",
		"100644 blob " + shaA + "       12\tread me.txt",
		"garbage",
	}, "\n")

	entries := ParseTree([]byte(raw))
	require.Len(t, entries, 3)

	readme := entries[0]
	assert.Equal(t, "100644", readme.Mode)
	assert.Equal(t, "blob", readme.Type)
	assert.Equal(t, shaA, readme.SHA)
	assert.Equal(t, "README.md", readme.Path)
	require.NotNil(t, readme.Size)
	assert.Equal(t, "1234", *readme.Size)

	assert.Equal(t, "tree", entries[1].Type)
	assert.Nil(t, entries[1].Size)
	assert.Equal(t, "docs", entries[1].Path)

	// submodule entries keep the "-" placeholder
	assert.Equal(t, "commit", entries[2].Type)
	require.NotNil(t, entries[2].Size)
	assert.Equal(t, "-", *entries[2].Size)
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, CountLines(nil))
	assert.Equal(t, 3, CountLines([]byte("a\nb\n\nc\n")))
}
