package metadata

import "errors"

// Sentinel errors for the metadata package
var (
	// ErrInvalidFormat indicates the override file is not valid YAML or JSON
	ErrInvalidFormat = errors.New("metadata file must be valid YAML or JSON")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .yaml, .yml, or .json)")
)
