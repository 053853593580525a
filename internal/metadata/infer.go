package metadata

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/version"
)

// Inferrer computes directory metadata
type Inferrer struct {
	loader    *Loader
	translate domain.TranslatePackage
}

// NewInferrer creates an Inferrer that resolves package aliases through aliases
func NewInferrer(aliases map[string]string) *Inferrer {
	return &Inferrer{
		loader:    NewLoader(),
		translate: Translator(aliases),
	}
}

// Extract implements domain.ExtractMetadata
func (i *Inferrer) Extract(dir string, parent domain.Metadata) (domain.Metadata, error) {
	meta := parent
	if pkg, ver, ok := ParseDirName(filepath.Base(dir)); ok {
		meta.Package = pkg
		meta.Version = ver
	}

	f, err := i.loader.LoadDir(dir)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("%s: %w", dir, err)
	}
	if f != nil {
		if meta, err = f.Apply(meta); err != nil {
			return domain.Metadata{}, fmt.Errorf("%s: %w", dir, err)
		}
	}

	if meta.Package != "" {
		meta.Package = i.translate(meta.Package)
	}
	return meta, nil
}

// ParseDirName splits a "Package_Version" directory name. It reports false
// when the suffix after the last underscore is not a version.
func ParseDirName(name string) (string, *version.Range, bool) {
	idx := strings.LastIndexByte(name, '_')
	if idx <= 0 || idx == len(name)-1 {
		return "", nil, false
	}
	r, err := version.ParseRange(name[idx+1:])
	if err != nil {
		return "", nil, false
	}
	return name[:idx], &r, true
}

// Translator builds a case-insensitive alias lookup. Unknown names are
// returned unchanged.
func Translator(aliases map[string]string) domain.TranslatePackage {
	folded := make(map[string]string, len(aliases))
	for alias, full := range aliases {
		folded[strings.ToLower(alias)] = full
	}
	return func(alias string) string {
		if full, ok := folded[strings.ToLower(alias)]; ok {
			return full
		}
		return alias
	}
}
