package git

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// CommitDateStyle selects the placeholders used for author and committer dates
type CommitDateStyle int

const (
	// DateISOLike is %ai/%ci, supported by every git version
	DateISOLike CommitDateStyle = iota
	// DateStrictISO is %aI/%cI, added in git 2.2.0
	DateStrictISO
)

func (s CommitDateStyle) String() string {
	if s == DateStrictISO {
		return "strict-iso"
	}
	return "iso-like"
}

var strictISOMinVersion = goversion.Must(goversion.NewVersion("2.2.0"))

var leadingVersion = regexp.MustCompile(`^\d+(\.\d+)*`)

type signatureTemplate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

type linkTemplate struct {
	SHA string `json:"sha"`
	URL string `json:"url"`
}

type commitTemplate struct {
	SHA       string            `json:"sha"`
	URL       string            `json:"url"`
	Author    signatureTemplate `json:"author"`
	Committer signatureTemplate `json:"committer"`
	Message   string            `json:"message"`
	Tree      linkTemplate      `json:"tree"`
	Parent    linkTemplate      `json:"parent"`
}

type tagObjectTemplate struct {
	Type    string `json:"type"`
	SHA     string `json:"sha"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

type tagTemplate struct {
	Tag     string            `json:"tag"`
	SHA     string            `json:"sha"`
	URL     string            `json:"url"`
	Message string            `json:"message"`
	Tagger  signatureTemplate `json:"tagger"`
	Object  tagObjectTemplate `json:"object"`
}

func newCommitTemplate(style CommitDateStyle) commitTemplate {
	authorDate, committerDate := "%ai", "%ci"
	if style == DateStrictISO {
		authorDate, committerDate = "%aI", "%cI"
	}

	return commitTemplate{
		SHA:       "%H",
		Author:    signatureTemplate{Name: "%an", Email: "%ae", Date: authorDate},
		Committer: signatureTemplate{Name: "%cn", Email: "%ce", Date: committerDate},
		Message:   "%s",
		Tree:      linkTemplate{SHA: "%T"},
		Parent:    linkTemplate{SHA: "%P"},
	}
}

func newTagTemplate() tagTemplate {
	return tagTemplate{
		Tag:     "%(refname:short)",
		SHA:     "%(objectname)",
		Message: "%(subject)",
		Tagger: signatureTemplate{
			Name:  "%(taggername)",
			Email: "%(taggeremail)",
			Date:  "%(taggerdate)",
		},
		Object: tagObjectTemplate{
			Type:    "%(*objecttype)",
			SHA:     "%(*objectname)",
			Message: "%(*subject)",
		},
	}
}

func mustEncode(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("git: encode format template: %v", err))
	}
	return string(raw)
}

// The template set is fixed; only the date placeholders differ between variants
var (
	isoLikeCommitFormat   = mustEncode(newCommitTemplate(DateISOLike))
	strictISOCommitFormat = mustEncode(newCommitTemplate(DateStrictISO))
	tagFormat             = mustEncode(newTagTemplate())
)

// FormatCatalog holds the per-line templates handed to git log and git for-each-ref
type FormatCatalog struct {
	version string
	style   CommitDateStyle
}

// NewFormatCatalog selects the template variant for the given git version.
// Versions that cannot be parsed get the iso-like variant.
func NewFormatCatalog(version string) *FormatCatalog {
	return &FormatCatalog{
		version: version,
		style:   DateStyleFor(version),
	}
}

// DateStyleFor returns the commit date style supported by git version
func DateStyleFor(version string) CommitDateStyle {
	v, err := parseGitVersion(version)
	if err != nil {
		return DateISOLike
	}
	if v.LessThan(strictISOMinVersion) {
		return DateISOLike
	}
	return DateStrictISO
}

// Version returns the git version the catalog was built for
func (c *FormatCatalog) Version() string {
	return c.version
}

// DateStyle returns the selected commit date style
func (c *FormatCatalog) DateStyle() CommitDateStyle {
	return c.style
}

// Commit returns the log template
func (c *FormatCatalog) Commit() string {
	if c.style == DateStrictISO {
		return strictISOCommitFormat
	}
	return isoLikeCommitFormat
}

// Tag returns the for-each-ref template
func (c *FormatCatalog) Tag() string {
	return tagFormat
}

// ParseVersionOutput extracts the version token from `git --version` output
func ParseVersionOutput(out []byte) (string, error) {
	fields := strings.Fields(string(out))
	if len(fields) < 3 {
		return "", fmt.Errorf("unexpected git --version output %q", strings.TrimSpace(string(out)))
	}
	return fields[2], nil
}

// parseGitVersion accepts vendor suffixes such as 2.39.2.windows.1
func parseGitVersion(raw string) (*goversion.Version, error) {
	core := leadingVersion.FindString(raw)
	if core == "" {
		return nil, fmt.Errorf("malformed git version %q", raw)
	}
	return goversion.NewVersion(core)
}
