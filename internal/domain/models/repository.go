package models

// Repository describes one bare repository found under the configured root.
// Values are built from the filesystem on every request and never persisted.
type Repository struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	UpdatedAt   string `json:"updated_at"`
}

// Signature is the author, committer or tagger of an object. Date is the
// string emitted by git; its layout depends on the detected git version.
type Signature struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

// ObjectLink is a reference to another object together with its resource URL
type ObjectLink struct {
	SHA string `json:"sha"`
	URL string `json:"url,omitempty"`
}

// Commit is one entry of a log listing
type Commit struct {
	SHA       string     `json:"sha"`
	URL       string     `json:"url"`
	Author    Signature  `json:"author"`
	Committer Signature  `json:"committer"`
	Message   string     `json:"message"`
	Tree      ObjectLink `json:"tree"`
	Parent    ObjectLink `json:"parent"`
}

// TagObject is the object an annotated tag points at. Lightweight tags leave it empty.
type TagObject struct {
	Type    string `json:"type"`
	SHA     string `json:"sha"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// Tag is one entry of a refs/tags listing
type Tag struct {
	Tag     string    `json:"tag"`
	SHA     string    `json:"sha"`
	URL     string    `json:"url"`
	Message string    `json:"message"`
	Tagger  Signature `json:"tagger"`
	Object  TagObject `json:"object"`
}

// TreeEntry is one line of an ls-tree listing. Size is nil for trees.
type TreeEntry struct {
	Mode string  `json:"mode"`
	Type string  `json:"type"`
	SHA  string  `json:"sha"`
	Size *string `json:"size,omitempty"`
	Path string  `json:"path"`
}

// FileContents is a blob resolved back to the path it was committed under
type FileContents struct {
	Filename string `json:"filename"`
	Contents string `json:"contents"`
}
