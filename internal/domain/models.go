package domain

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/snipdocs-go/internal/version"
)

// Location identifies the source span a snippet or error came from
type Location struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line,omitempty"`
}

// String renders the location as file(start-end)
func (l Location) String() string {
	file := l.File
	if file == "" {
		file = "unknown"
	}
	if l.EndLine > 0 {
		return fmt.Sprintf("%s(%d-%d)", file, l.StartLine, l.EndLine)
	}
	return fmt.Sprintf("%s(%d)", file, l.StartLine)
}

// Snippet is a fragment of source text captured between a start and end marker.
// Snippets are never modified after extraction.
type Snippet struct {
	Key      string         `json:"key"`
	Version  *version.Range `json:"version,omitempty"`
	Language string         `json:"language"`
	Value    string         `json:"value"`
	Package  string         `json:"package,omitempty"`
	Location Location       `json:"location"`
}

// SameIdentity reports whether s and o share key, version and language
func (s Snippet) SameIdentity(o Snippet) bool {
	return s.Key == o.Key && s.Language == o.Language && version.EqualPtr(s.Version, o.Version)
}

// ExtractionError is a recoverable problem found while extracting snippets
type ExtractionError struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

func (e ExtractionError) String() string {
	return e.Message
}

// ExtractionResult carries the snippets and soft errors of one extraction run
type ExtractionResult struct {
	Snippets []Snippet         `json:"snippets"`
	Errors   []ExtractionError `json:"errors,omitempty"`
}

// HasErrors reports whether any soft errors were recorded
func (r ExtractionResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// VersionGroup holds the snippets of a key that share one version range and language
type VersionGroup struct {
	Version  *version.Range
	Language string
	Snippets []Snippet
}

// SnippetGroup holds every version of a key, ordered ascending with the
// unversioned group first
type SnippetGroup struct {
	Key      string
	Language string
	Versions []VersionGroup
}

// ImportDirective is a snippet reference found in a markdown document
type ImportDirective struct {
	Key  string
	Line int
}

// MissingSnippet records a directive whose key has no snippet group
type MissingSnippet struct {
	Key  string `json:"key"`
	Line int    `json:"line"`
}

// ProcessResult is the outcome of substituting snippets into one document
type ProcessResult struct {
	Text    string
	Missing []MissingSnippet
	Used    []SnippetGroup
}

// UsedKeys returns the keys of the groups consumed, in first-use order
func (r ProcessResult) UsedKeys() []string {
	keys := make([]string, 0, len(r.Used))
	for _, g := range r.Used {
		keys = append(keys, g.Key)
	}
	return keys
}

// Metadata is the per-directory information inherited by the files below it
type Metadata struct {
	Package string         `json:"package,omitempty"`
	Version *version.Range `json:"version,omitempty"`
}

// String renders metadata for logging and cache fingerprints
func (m Metadata) String() string {
	var b strings.Builder
	b.WriteString("package=")
	b.WriteString(m.Package)
	b.WriteString(" version=")
	b.WriteString(version.FormatPtr(m.Version))
	return b.String()
}
