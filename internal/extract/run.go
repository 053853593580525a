package extract

import (
	"fmt"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/version"
)

// Run accumulates the accepted snippets and soft errors of one extraction run
// and enforces that no two snippets share key, version and language.
// A Run is not safe for concurrent use.
type Run struct {
	snippets []domain.Snippet
	errors   []domain.ExtractionError
	byKey    map[string][]int
}

// NewRun creates an empty run
func NewRun() *Run {
	return &Run{byKey: make(map[string][]int)}
}

// Accept adds s unless a snippet with the same identity was already accepted,
// in which case a duplicate error is recorded and false is returned.
func (r *Run) Accept(s domain.Snippet) bool {
	for _, i := range r.byKey[s.Key] {
		if r.snippets[i].SameIdentity(s) {
			r.AddError(fmt.Sprintf("duplicate key detected. file: %s, line: %d, key: %s, version: %s",
				fileName(s.Location.File), s.Location.StartLine, s.Key, version.FormatPtr(s.Version)), s.Location)
			return false
		}
	}
	r.byKey[s.Key] = append(r.byKey[s.Key], len(r.snippets))
	r.snippets = append(r.snippets, s)
	return true
}

// AddError records a soft error
func (r *Run) AddError(message string, loc domain.Location) {
	r.errors = append(r.errors, domain.ExtractionError{Message: message, Location: loc})
}

// Merge folds another result into the run, preserving its order and applying
// the duplicate rule to every incoming snippet.
func (r *Run) Merge(other domain.ExtractionResult) {
	r.errors = append(r.errors, other.Errors...)
	for _, s := range other.Snippets {
		r.Accept(s)
	}
}

// Result returns a copy of the accumulated snippets and errors
func (r *Run) Result() domain.ExtractionResult {
	res := domain.ExtractionResult{
		Snippets: make([]domain.Snippet, len(r.snippets)),
	}
	copy(res.Snippets, r.snippets)
	if len(r.errors) > 0 {
		res.Errors = make([]domain.ExtractionError, len(r.errors))
		copy(res.Errors, r.errors)
	}
	return res
}

func fileName(path string) string {
	if path == "" {
		return "unknown"
	}
	return path
}
