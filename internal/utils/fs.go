package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir ensures the parent directory of path exists, creating it if necessary
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// HasSuffixFold reports whether name ends with suffix, ignoring ASCII case
func HasSuffixFold(name, suffix string) bool {
	return len(name) >= len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix)
}

// OutputPath maps a source document's path relative to its root onto the
// output directory, replacing sourceSuffix with ".md".
//
//	OutputPath("out", "guide/intro.source.md", ".source.md") // out/guide/intro.md
func OutputPath(baseDir, relPath, sourceSuffix string) string {
	name := relPath
	if sourceSuffix != "" && HasSuffixFold(name, sourceSuffix) {
		name = name[:len(name)-len(sourceSuffix)] + ".md"
	}
	return filepath.Join(baseDir, filepath.FromSlash(name))
}
