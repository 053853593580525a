package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
)

// Ensure BadgerCache implements domain.Cache
var _ domain.Cache = (*BadgerCache)(nil)

// Entry is the cached extraction result of one source file
type Entry struct {
	Path        string                  `json:"path"`
	Result      domain.ExtractionResult `json:"result"`
	ExtractedAt time.Time               `json:"extracted_at"`
}

// Encode serializes the entry for storage
func (e *Entry) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEntry parses a stored entry
func DecodeEntry(data []byte) (*Entry, error) {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &e, nil
}

// Options contains cache configuration options
type Options struct {
	Directory   string
	InMemory    bool
	Logger      bool
	LockRetries int
}

// DefaultOptions returns default cache options
func DefaultOptions() Options {
	return Options{
		Directory:   "",
		InMemory:    false,
		Logger:      false,
		LockRetries: 5,
	}
}
