package metadata

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/version"
)

// File is the content of a directory override file. Version is kept as text
// so that bare numbers like `version: 5` decode from YAML.
type File struct {
	Package string `yaml:"package,omitempty" json:"package,omitempty"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

// Apply overlays the non-empty fields of f onto base
func (f File) Apply(base domain.Metadata) (domain.Metadata, error) {
	out := base
	if pkg := strings.TrimSpace(f.Package); pkg != "" {
		out.Package = pkg
	}
	if v := strings.TrimSpace(f.Version); v != "" {
		r, err := version.ParseRange(v)
		if err != nil {
			return domain.Metadata{}, fmt.Errorf("metadata version %q: %w", v, err)
		}
		out.Version = &r
	}
	return out, nil
}
