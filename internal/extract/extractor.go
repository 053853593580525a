// Package extract reads marked snippets out of source files.
//
// A snippet is opened by a start marker in one of two dialects and closed by
// the matching end marker:
//
//	// startcode Key 5
//	...
//	// endcode
//
//	#region Key [1.0,2.0)
//	...
//	#endregion
//
// Each file is scanned line by line by a two-state machine (searching and
// in-snippet). Bodies are stripped of blank padding lines and their common
// indentation before being accepted into a Run. Recoverable problems are
// recorded as soft errors on the Run; only malformed start markers and read
// failures abort a scan.
package extract

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/version"
)

// DefaultMaxLineSize bounds a single source line.
const DefaultMaxLineSize = 1024 * 1024

// Extractor scans sources for snippets
type Extractor struct {
	fallback    domain.VersionFallback
	pkg         string
	maxLineSize int
}

// Option configures an Extractor
type Option func(*Extractor)

// WithVersionFallback sets how a version is derived for markers without one
func WithVersionFallback(fn domain.VersionFallback) Option {
	return func(e *Extractor) {
		if fn != nil {
			e.fallback = fn
		}
	}
}

// WithPackage tags every snippet with a package name
func WithPackage(pkg string) Option {
	return func(e *Extractor) {
		e.pkg = pkg
	}
}

// WithMaxLineSize overrides DefaultMaxLineSize
func WithMaxLineSize(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxLineSize = n
		}
	}
}

// New creates an Extractor. Without a fallback, markers lacking a version
// produce unversioned snippets.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		fallback:    func(string) *version.Range { return nil },
		maxLineSize: DefaultMaxLineSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FromReader extracts the snippets of a single source. source names the input
// (usually a file path) and supplies the snippet language.
func (e *Extractor) FromReader(r io.Reader, source string) (domain.ExtractionResult, error) {
	run := NewRun()
	if err := e.Scan(r, source, run); err != nil {
		return domain.ExtractionResult{}, err
	}
	return run.Result(), nil
}

// FromFiles extracts snippets from each file in order into one run.
func (e *Extractor) FromFiles(paths []string) (domain.ExtractionResult, error) {
	run := NewRun()
	for _, path := range paths {
		if err := e.ScanFile(path, run); err != nil {
			return domain.ExtractionResult{}, err
		}
	}
	return run.Result(), nil
}

// ScanFile opens path and scans it into run.
func (e *Extractor) ScanFile(path string, run *Run) error {
	f, err := os.Open(path)
	if err != nil {
		return domain.NewReadError(path, err)
	}
	defer f.Close()

	return e.Scan(f, path, run)
}

// Scan feeds every line of r through the scan machine, adding accepted
// snippets and soft errors to run.
func (e *Extractor) Scan(r io.Reader, source string, run *Run) error {
	scanner := bufio.NewScanner(NewDecoder(r))
	scanner.Buffer(make([]byte, 0, 64*1024), e.maxLineSize)

	language := LanguageOf(source)
	var st state = searching{}
	number := 0

	for scanner.Scan() {
		number++
		next, cand, err := st.next(sourceLine{number: number, raw: scanner.Text()})
		if err != nil {
			return domain.NewMarkerError(fileName(source), number, err)
		}
		st = next
		if cand != nil {
			e.accept(*cand, source, language, run)
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.NewReadError(source, err)
	}

	if open, ok := st.(inSnippet); ok {
		run.AddError(fmt.Sprintf("snippet was not closed. file: %s, line: %d, key: %s",
			fileName(source), open.startLine, strings.ToLower(open.marker.Key)),
			domain.Location{File: source, StartLine: open.startLine})
	}
	return nil
}

func (e *Extractor) accept(c candidate, source, language string, run *Run) {
	loc := domain.Location{File: source, StartLine: c.startLine, EndLine: c.endLine}
	key := strings.ToLower(c.marker.Key)

	value := strings.Join(Normalize(c.lines), LineEnding)
	if strings.ContainsRune(value, '`') {
		run.AddError(fmt.Sprintf("snippet contains a code quote character. file: %s, line: %d, key: %s",
			fileName(source), c.startLine, key), loc)
		return
	}

	ver, err := e.resolveVersion(c.marker.Version, source)
	if err != nil {
		run.AddError(fmt.Sprintf("could not extract version from %s. file: %s, line: %d, key: %s",
			c.marker.Version, fileName(source), c.startLine, key), loc)
		return
	}

	run.Accept(domain.Snippet{
		Key:      key,
		Version:  ver,
		Language: language,
		Value:    value,
		Package:  e.pkg,
		Location: loc,
	})
}

func (e *Extractor) resolveVersion(token, source string) (*version.Range, error) {
	if token == "" {
		return e.fallback(source), nil
	}
	r, err := version.ParseRange(token)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// LanguageOf derives the snippet language from a file extension.
func LanguageOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
