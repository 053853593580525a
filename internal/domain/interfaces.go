package domain

import (
	"context"
	"time"

	"github.com/quantmind-br/snipdocs-go/internal/version"
)

// Cache defines the interface for caching per-file extraction results
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}

// VersionFallback derives a version for a snippet whose marker carries none.
// Returning nil means the snippet is unversioned.
type VersionFallback func(path string) *version.Range

// ExtractMetadata computes a directory's metadata from its path and the
// already-resolved metadata of its nearest included ancestor.
type ExtractMetadata func(dir string, parent Metadata) (Metadata, error)

// IncludePath filters directories or files during a traversal
type IncludePath func(path string) bool

// TranslatePackage maps a package alias to its full name
type TranslatePackage func(alias string) string
