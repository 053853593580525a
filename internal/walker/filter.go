package walker

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/quantmind-br/snipdocs-go/internal/metadata"
)

// IgnoreDirs are directories never descended into
var IgnoreDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"bin":          true,
	"obj":          true,
	"packages":     true,
	"vendor":       true,
}

// FilterOptions configures the include predicates of a Filter
type FilterOptions struct {
	// Extensions limits files to these extensions (".cs", "go"). Empty means all.
	Extensions []string
	// Exclude holds regular expressions matched against slash-separated paths
	// relative to the root.
	Exclude []string
	// Gitignore honours .gitignore files below the root
	Gitignore bool
}

// Filter decides which directories and files of a tree take part in extraction
type Filter struct {
	root       string
	extensions map[string]bool
	exclude    []*regexp.Regexp
	ignore     gitignore.Matcher
}

// NewFilter builds the predicates for the tree at root
func NewFilter(root string, opts FilterOptions) (*Filter, error) {
	f := &Filter{root: root}

	if len(opts.Extensions) > 0 {
		f.extensions = make(map[string]bool, len(opts.Extensions))
		for _, ext := range opts.Extensions {
			ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
			if ext != "" {
				f.extensions[ext] = true
			}
		}
	}

	for _, pattern := range opts.Exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		f.exclude = append(f.exclude, re)
	}

	if opts.Gitignore {
		patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
		if err != nil {
			return nil, fmt.Errorf("read gitignore: %w", err)
		}
		f.ignore = gitignore.NewMatcher(patterns)
	}

	return f, nil
}

// IncludeDir implements domain.IncludePath for directories
func (f *Filter) IncludeDir(path string) bool {
	if IgnoreDirs[filepath.Base(path)] {
		return false
	}
	return f.included(path, true)
}

// IncludeFile implements domain.IncludePath for files
func (f *Filter) IncludeFile(path string) bool {
	if metadata.IsOverrideFile(path) {
		return false
	}
	if f.extensions != nil {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if !f.extensions[ext] {
			return false
		}
	}
	return f.included(path, false)
}

func (f *Filter) included(path string, isDir bool) bool {
	rel, err := filepath.Rel(f.root, path)
	if err != nil || rel == "." {
		return true
	}
	rel = filepath.ToSlash(rel)

	for _, re := range f.exclude {
		if re.MatchString(rel) {
			return false
		}
	}
	if f.ignore != nil && f.ignore.Match(strings.Split(rel, "/"), isDir) {
		return false
	}
	return true
}
