package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"
)

// GenerateKey generates a cache key as the SHA256 hash of the raw key
func GenerateKey(raw string) string {
	hash := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(hash[:])
}

// GenerateKeyWithPrefix generates a cache key with a prefix
func GenerateKeyWithPrefix(prefix, raw string) string {
	return prefix + ":" + GenerateKey(raw)
}

// PrefixFile namespaces per-file extraction entries
const PrefixFile = "file"

// FileKey identifies one extraction of a file. Any change to the file's
// size, modification time or inherited metadata yields a different key.
func FileKey(path string, size int64, modTime time.Time, metadata string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fingerprint := fmt.Sprintf("%s|%d|%d|%s", filepath.ToSlash(abs), size, modTime.UnixNano(), metadata)
	return GenerateKeyWithPrefix(PrefixFile, fingerprint)
}
