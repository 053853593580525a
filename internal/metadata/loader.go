package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileNames lists the override file names looked up in each directory, in
// order of precedence.
var FileNames = []string{".snippets.yaml", ".snippets.yml", ".snippets.json"}

// Loader reads directory override files
type Loader struct{}

// NewLoader creates a new metadata loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses an override file from the given path
func (l *Loader) Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	return l.LoadFromBytes(data, filepath.Ext(path))
}

// LoadFromBytes parses an override file from raw bytes
func (l *Loader) LoadFromBytes(data []byte, ext string) (*File, error) {
	ext = strings.ToLower(ext)

	var f File
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExt, ext)
	}

	return &f, nil
}

// LoadDir loads the first override file present in dir. It returns nil
// when the directory has none.
func (l *Loader) LoadDir(dir string) (*File, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		return l.Load(path)
	}
	return nil, nil
}

// IsOverrideFile reports whether path names a metadata override file
func IsOverrideFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range FileNames {
		if base == name {
			return true
		}
	}
	return false
}
