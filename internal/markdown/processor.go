// Package markdown substitutes grouped snippets into markdown documents at
// "<!-- import key -->" directive lines.
package markdown

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/grouping"
)

const (
	maxLineSize = 1024 * 1024
	fence       = "```"
)

// Processor resolves import directives against a set of snippet groups.
// It is safe for concurrent use; each document is processed sequentially.
type Processor struct {
	groups map[string]domain.SnippetGroup
}

// NewProcessor creates a processor over the given groups
func NewProcessor(groups []domain.SnippetGroup) *Processor {
	return &Processor{groups: grouping.Index(groups)}
}

// ApplyToText processes a document held in memory
func (p *Processor) ApplyToText(text string) (domain.ProcessResult, error) {
	return p.Apply(strings.NewReader(text))
}

// ApplyToFile processes the document at path
func (p *Processor) ApplyToFile(path string) (domain.ProcessResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.ProcessResult{}, domain.NewReadError(path, err)
	}
	defer f.Close()

	return p.Apply(f)
}

// Apply copies every line of r to the output. After a directive line the
// matching group is emitted, or a visible placeholder when the key is unknown.
// Exactly one trailing newline is removed from the result.
func (p *Processor) Apply(r io.Reader) (domain.ProcessResult, error) {
	var (
		b      strings.Builder
		result domain.ProcessResult
		used   = make(map[string]bool)
	)

	scanner := newLineScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		b.WriteString(text)
		b.WriteByte('\n')

		d, ok := ParseDirective(text, line)
		if !ok {
			continue
		}

		group, found := p.groups[d.Key]
		if !found {
			result.Missing = append(result.Missing, domain.MissingSnippet{Key: d.Key, Line: d.Line})
			fmt.Fprintf(&b, "** Could not find key '%s' **\n", d.Key)
			continue
		}

		writeGroup(&b, group)
		if !used[group.Key] {
			used[group.Key] = true
			result.Used = append(result.Used, group)
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.ProcessResult{}, err
	}

	result.Text = strings.TrimSuffix(b.String(), "\n")
	return result, nil
}

func writeGroup(b *strings.Builder, group domain.SnippetGroup) {
	for _, vg := range group.Versions {
		if vg.Version != nil {
			fmt.Fprintf(b, "#### Version %s\n", vg.Version)
		}
		for _, s := range vg.Snippets {
			b.WriteString(fence + s.Language + "\n")
			b.WriteString(s.Value + "\n")
			b.WriteString(fence + "\n")
		}
	}
}
