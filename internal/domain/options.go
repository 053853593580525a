package domain

// CommonOptions contains shared options for the extraction pipeline.
type CommonOptions struct {
	Verbose bool
	DryRun  bool
}
