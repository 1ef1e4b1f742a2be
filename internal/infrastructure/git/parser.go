package git

import (
	"encoding/json"
	"strings"

	"github.com/bravo68web/gitapi/internal/domain/models"
	"github.com/bravo68web/gitapi/internal/links"
)

// Parser turns formatted git output into domain records and attaches resource links.
// A line that does not decode is dropped; subjects containing a double quote
// break the JSON template and are lost this way.
type Parser struct {
	links links.Generator
}

// NewParser creates a Parser that generates links with gen
func NewParser(gen links.Generator) *Parser {
	return &Parser{links: gen}
}

// Commits decodes one commit per line of `git log --pretty=format:<commit template>`
func (p *Parser) Commits(raw []byte, repo string) []models.Commit {
	commits := make([]models.Commit, 0)
	for _, line := range splitLines(raw) {
		var c models.Commit
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			continue
		}
		if !IsObjectID(c.SHA) {
			continue
		}

		// %P lists every parent; merges keep the first
		if parents := strings.Fields(c.Parent.SHA); len(parents) > 0 {
			c.Parent.SHA = parents[0]
		} else {
			c.Parent.SHA = ""
		}

		c.URL = p.link(links.GetCommit, repo, "sha", c.SHA)
		c.Tree.URL = p.link(links.GetTree, repo, "revision", c.Tree.SHA)
		c.Parent.URL = ""
		if c.Parent.SHA != "" {
			c.Parent.URL = p.link(links.GetCommit, repo, "sha", c.Parent.SHA)
		}

		commits = append(commits, c)
	}
	return commits
}

// Tags decodes one tag per line of `git for-each-ref --format=<tag template>`
func (p *Parser) Tags(raw []byte, repo string) []models.Tag {
	tags := make([]models.Tag, 0)
	for _, line := range splitLines(raw) {
		var t models.Tag
		if err := json.Unmarshal([]byte(line), &t); err != nil {
			continue
		}
		if t.Tag == "" {
			continue
		}

		t.Tagger.Email = strings.TrimLeft(strings.TrimRight(t.Tagger.Email, ">"), "<")
		t.URL = p.link(links.GetTag, repo, "tag", t.Tag)
		t.Object.URL = ""
		if t.Object.SHA != "" {
			t.Object.URL = p.link(links.GetCommit, repo, "sha", t.Object.SHA)
		}

		tags = append(tags, t)
	}
	return tags
}

// Tree splits `git ls-tree -l` lines into mode, type, sha, size and path.
// Lines that do not have exactly five fields are dropped, so paths containing
// whitespace are not listed.
func (p *Parser) Tree(raw []byte) []models.TreeEntry {
	return ParseTree(raw)
}

// ParseTree is Parser.Tree without link generation
func ParseTree(raw []byte) []models.TreeEntry {
	entries := make([]models.TreeEntry, 0)
	for _, line := range splitLines(raw) {
		fields := strings.Fields(line)
		if len(fields) != 5 {
			continue
		}

		entry := models.TreeEntry{
			Mode: fields[0],
			Type: fields[1],
			SHA:  fields[2],
			Path: fields[4],
		}
		// ls-tree prints "-" as the size of trees and submodules; only trees drop it
		if entry.Type != "tree" {
			size := fields[3]
			entry.Size = &size
		}

		entries = append(entries, entry)
	}
	return entries
}

// CountLines returns the number of non-blank lines in raw
func CountLines(raw []byte) int {
	return len(splitLines(raw))
}

func (p *Parser) link(route links.Route, repo, key, value string) string {
	if p.links == nil {
		return ""
	}
	url, err := p.links.Generate(route, map[string]string{"name": repo, key: value})
	if err != nil {
		return ""
	}
	return url
}

func splitLines(raw []byte) []string {
	lines := strings.Split(string(raw), "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
