package output

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/quantmind-br/snipdocs-go/internal/utils"
)

// Document is a processed markdown document ready to be written
type Document struct {
	// RelPath is the source document path relative to the markdown root,
	// slash or OS separated
	RelPath string
	Content string
}

// Status reports what Write did with a document
type Status int

const (
	// Written means the file was created or its content replaced
	Written Status = iota
	// Unchanged means the file already holds exactly this content
	Unchanged
	// DryRun means the content differs but dry-run mode kept the file as is
	DryRun
)

func (s Status) String() string {
	switch s {
	case Written:
		return "written"
	case Unchanged:
		return "unchanged"
	case DryRun:
		return "dry-run"
	default:
		return "unknown"
	}
}

// Writer places processed documents below an output directory
type Writer struct {
	baseDir string
	suffix  string
	dryRun  bool
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	BaseDir string
	// Suffix is the source document suffix replaced by ".md"
	Suffix string
	DryRun bool
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.BaseDir == "" {
		opts.BaseDir = "./docs"
	}
	if opts.Suffix == "" {
		opts.Suffix = ".source.md"
	}

	return &Writer{
		baseDir: opts.BaseDir,
		suffix:  opts.Suffix,
		dryRun:  opts.DryRun,
	}
}

// Write saves a document to the output directory. A file already holding the
// same bytes is left untouched so its mtime survives re-runs.
func (w *Writer) Write(ctx context.Context, doc Document) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Unchanged, err
	}

	path := w.GetPath(doc.RelPath)
	content := []byte(doc.Content)

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, content):
		return Unchanged, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return Unchanged, err
	}

	if w.dryRun {
		return DryRun, nil
	}

	if err := utils.EnsureDir(path); err != nil {
		return Unchanged, err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return Unchanged, err
	}
	return Written, nil
}

// GetPath returns the output path for a source document
func (w *Writer) GetPath(relPath string) string {
	return utils.OutputPath(w.baseDir, filepath.ToSlash(relPath), w.suffix)
}

// Stats counts the markdown files below the output directory and their total
// size. A missing directory reports zero.
func (w *Writer) Stats() (int, int64, error) {
	var count int
	var size int64

	err := filepath.WalkDir(w.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		count++
		size += info.Size()
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) && count == 0 {
		return 0, 0, nil
	}

	return count, size, err
}
