package app

import (
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/utils"
	"github.com/quantmind-br/snipdocs-go/internal/walker"
)

// FindSources returns the paths, relative to root, of every markdown source
// document below root whose name ends with suffix (case-insensitive).
// Directories rejected by includeDir are skipped; nil includes all but
// walker.IgnoreDirs.
func FindSources(root, suffix string, includeDir domain.IncludePath) ([]string, error) {
	if includeDir == nil {
		includeDir = func(path string) bool { return !walker.IgnoreDirs[filepath.Base(path)] }
	}

	var sources []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return domain.NewReadError(path, err)
		}
		if d.IsDir() {
			if path != root && !includeDir(path) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !utils.HasSuffixFold(d.Name(), suffix) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		sources = append(sources, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(sources)
	return sources, nil
}
