package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Source      SourceConfig      `mapstructure:"source" yaml:"source"`
	Markdown    MarkdownConfig    `mapstructure:"markdown" yaml:"markdown"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Packages    map[string]string `mapstructure:"packages" yaml:"packages"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// SourceConfig selects the files snippets are extracted from
type SourceConfig struct {
	Directory   string   `mapstructure:"directory" yaml:"directory"`
	Extensions  []string `mapstructure:"extensions" yaml:"extensions"`
	Exclude     []string `mapstructure:"exclude" yaml:"exclude"`
	Gitignore   bool     `mapstructure:"gitignore" yaml:"gitignore"`
	MaxFileSize string   `mapstructure:"max_file_size" yaml:"max_file_size"`
}

// MarkdownConfig selects the documents snippets are substituted into
type MarkdownConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	Suffix    string `mapstructure:"suffix" yaml:"suffix"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	Workers int           `mapstructure:"workers" yaml:"workers"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// CacheConfig contains cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate clamps out-of-range values to their defaults and rejects values
// that cannot be used with a *domain.ValidationError
func (c *Config) Validate() error {
	if c.Source.Directory == "" {
		c.Source.Directory = DefaultSourceDir
	}
	if c.Markdown.Directory == "" {
		c.Markdown.Directory = c.Source.Directory
	}
	if c.Markdown.Suffix == "" {
		c.Markdown.Suffix = DefaultMarkdownSuffix
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Concurrency.Workers < 1 {
		c.Concurrency.Workers = DefaultWorkers
	}
	if c.Concurrency.Timeout < time.Second {
		c.Concurrency.Timeout = DefaultTimeout
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Source.MaxFileSize == "" {
		c.Source.MaxFileSize = DefaultMaxFileSize
	} else if _, err := ParseSize(c.Source.MaxFileSize); err != nil {
		return &domain.ValidationError{Field: "source.max_file_size", Message: err.Error(), Err: err}
	}
	for _, pattern := range c.Source.Exclude {
		if _, err := regexp.Compile(pattern); err != nil {
			return &domain.ValidationError{Field: "source.exclude", Message: fmt.Sprintf("pattern %q: %v", pattern, err), Err: err}
		}
	}
	switch c.Logging.Format {
	case "", "pretty", "json":
	default:
		return domain.NewValidationError("logging.format", fmt.Sprintf("unknown format %q, want pretty or json", c.Logging.Format))
	}
	return nil
}

// MaxFileSizeBytes returns the parsed source.max_file_size
func (c *Config) MaxFileSizeBytes() int64 {
	n, err := ParseSize(c.Source.MaxFileSize)
	if err != nil {
		return 0
	}
	return n
}

// ParseSize parses sizes such as "512", "64KB", "10MB" or "1GB"
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	var multiplier int64 = 1
	if strings.HasSuffix(s, "GB") {
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	} else if strings.HasSuffix(s, "MB") {
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	} else if strings.HasSuffix(s, "KB") {
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("no numeric value in size string")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %w", err)
	}

	if n < 0 {
		return 0, fmt.Errorf("negative size not allowed")
	}

	return n * multiplier, nil
}
