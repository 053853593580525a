package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Source defaults
	DefaultSourceDir   = "."
	DefaultGitignore   = true
	DefaultMaxFileSize = "10MB"

	// Markdown defaults
	DefaultMarkdownSuffix = ".source.md"

	// Output defaults
	DefaultOutputDir = "./docs"

	// Concurrency defaults
	DefaultWorkers = 8
	DefaultTimeout = 5 * time.Minute

	// Cache defaults
	DefaultCacheEnabled = true
	DefaultCacheTTL     = 7 * 24 * time.Hour

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// DefaultExtensions are the source file extensions scanned for snippets
var DefaultExtensions = []string{
	"cs", "vb", "fs", "go", "java", "kt", "js", "ts", "py", "rb", "rs",
	"c", "cpp", "h", "sql", "ps1", "sh", "xml", "config", "json", "yaml", "yml",
}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".snipdocs"
	}
	return filepath.Join(home, ".snipdocs")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Directory:   DefaultSourceDir,
			Extensions:  DefaultExtensions,
			Gitignore:   DefaultGitignore,
			MaxFileSize: DefaultMaxFileSize,
		},
		Markdown: MarkdownConfig{
			Directory: DefaultSourceDir,
			Suffix:    DefaultMarkdownSuffix,
		},
		Output: OutputConfig{
			Directory: DefaultOutputDir,
		},
		Concurrency: ConcurrencyConfig{
			Workers: DefaultWorkers,
			Timeout: DefaultTimeout,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Packages: map[string]string{},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
