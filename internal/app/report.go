package app

import (
	"slices"
	"time"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/output"
)

// DocumentReport describes the processing of one markdown source
type DocumentReport struct {
	Source  string
	Output  string
	Status  output.Status
	Missing []domain.MissingSnippet
	Used    []string
}

// Report summarizes a pipeline run
type Report struct {
	Snippets  int
	Groups    int
	Errors    []domain.ExtractionError
	Documents []DocumentReport
	Duration  time.Duration
}

// MissingCount returns the number of unresolved import directives
func (r *Report) MissingCount() int {
	n := 0
	for _, d := range r.Documents {
		n += len(d.Missing)
	}
	return n
}

// UsedKeys returns every key referenced by at least one document, sorted
func (r *Report) UsedKeys() []string {
	var keys []string
	for _, d := range r.Documents {
		keys = append(keys, d.Used...)
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

// Count returns the number of documents with the given write status
func (r *Report) Count(status output.Status) int {
	n := 0
	for _, d := range r.Documents {
		if d.Status == status {
			n++
		}
	}
	return n
}

// HasProblems reports whether the run produced soft errors or missing keys
func (r *Report) HasProblems() bool {
	return len(r.Errors) > 0 || r.MissingCount() > 0
}
