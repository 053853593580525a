// Package metadata resolves the package and version that apply to the
// snippets of a directory. Metadata is inherited from the parent directory
// and refined, in order, by:
//
//   - the directory name convention "Package_Version", e.g. "Billing_2.1"
//   - an optional override file in the directory itself
//   - the package alias table from the configuration
//
// # Override Format
//
// Override files are named .snippets.yaml, .snippets.yml or .snippets.json:
//
//	package: Billing
//	version: "[2.0,3.0)"
//
// Fields left empty are inherited.
//
// # Usage
//
//	inferrer := metadata.NewInferrer(map[string]string{"bill": "Billing"})
//	meta, err := inferrer.Extract("src/Billing_2.1", parent)
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrInvalidFormat: override file is not valid YAML/JSON
//   - ErrUnsupportedExt: unsupported file extension
//
// An unparseable version in an override file wraps domain.ErrInvalidVersion.
package metadata
