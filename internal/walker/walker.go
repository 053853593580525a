// Package walker extracts the snippets of a whole directory tree.
//
// A walk runs in two phases. A single-threaded pre-pass visits the tree top
// down, applies the include predicates and resolves each directory's metadata
// from its parent's. The resulting file list and metadata map are read-only
// from then on. The second phase extracts every file concurrently and waits
// for all of them before merging the per-file results in path order. Any
// read failure or malformed marker aborts the whole walk.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quantmind-br/snipdocs-go/internal/cache"
	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/extract"
	"github.com/quantmind-br/snipdocs-go/internal/utils"
	"github.com/quantmind-br/snipdocs-go/internal/version"
)

// Options configures a Walker
type Options struct {
	// Workers bounds concurrent file extractions. Defaults to GOMAXPROCS.
	Workers int
	// IncludeDir and IncludeFile filter the tree. The root is always included.
	IncludeDir  domain.IncludePath
	IncludeFile domain.IncludePath
	// MaxFileSize skips files larger than this many bytes. Zero disables it.
	MaxFileSize int64
	// ExtractMetadata resolves a directory's metadata. Defaults to inheriting
	// the parent's unchanged.
	ExtractMetadata domain.ExtractMetadata
	// Cache stores per-file results between runs. Optional.
	Cache    domain.Cache
	CacheTTL time.Duration
	// Progress receives a progress bar. Nil disables rendering.
	Progress io.Writer
	Logger   *utils.Logger
}

// Walker runs directory extractions
type Walker struct {
	opts   Options
	logger *utils.Logger
}

// unit is one file scheduled for extraction
type unit struct {
	path    string
	size    int64
	modTime time.Time
	meta    domain.Metadata
}

// New creates a Walker
func New(opts Options) *Walker {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.IncludeDir == nil {
		opts.IncludeDir = func(string) bool { return true }
	}
	if opts.IncludeFile == nil {
		opts.IncludeFile = func(string) bool { return true }
	}
	if opts.ExtractMetadata == nil {
		opts.ExtractMetadata = func(_ string, parent domain.Metadata) (domain.Metadata, error) {
			return parent, nil
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.Nop()
	}

	return &Walker{opts: opts, logger: logger.WithComponent("walker")}
}

// Walk extracts every included file below root. A cancelled ctx stops
// scheduling new files, waits for those in flight and returns a
// *domain.CancelledError.
func (w *Walker) Walk(ctx context.Context, root string) (domain.ExtractionResult, error) {
	units, err := w.plan(ctx, root)
	if err != nil {
		return domain.ExtractionResult{}, w.cancelled(ctx, err)
	}

	w.logger.Debug().Int("files", len(units)).Str("root", root).Msg("Extracting snippets")

	results, err := w.extractAll(ctx, units)
	if err != nil {
		return domain.ExtractionResult{}, w.cancelled(ctx, err)
	}

	run := extract.NewRun()
	for _, res := range results {
		run.Merge(res)
	}
	merged := run.Result()

	w.logger.Info().
		Int("files", len(units)).
		Int("snippets", len(merged.Snippets)).
		Int("errors", len(merged.Errors)).
		Msg("Extraction completed")

	return merged, nil
}

// plan is the single-threaded pre-pass. Files come out in lexical order.
func (w *Walker) plan(ctx context.Context, root string) ([]unit, error) {
	root = filepath.Clean(root)
	metas := make(map[string]domain.Metadata)
	var units []unit

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return domain.NewReadError(path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && !w.opts.IncludeDir(path) {
				return fs.SkipDir
			}
			meta, err := w.opts.ExtractMetadata(path, metas[filepath.Dir(path)])
			if err != nil {
				return fmt.Errorf("metadata for %s: %w", path, err)
			}
			metas[path] = meta
			return nil
		}

		if !d.Type().IsRegular() || !w.opts.IncludeFile(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return domain.NewReadError(path, err)
		}
		if w.opts.MaxFileSize > 0 && info.Size() > w.opts.MaxFileSize {
			w.logger.WithFile(path).Debug().Int64("size", info.Size()).Msg("Skipping large file")
			return nil
		}
		units = append(units, unit{
			path:    path,
			size:    info.Size(),
			modTime: info.ModTime(),
			meta:    metas[filepath.Dir(path)],
		})
		return nil
	})

	return units, err
}

// extractAll is the scatter/gather phase. Each unit writes only its own slot.
func (w *Walker) extractAll(ctx context.Context, units []unit) ([]domain.ExtractionResult, error) {
	results := make([]domain.ExtractionResult, len(units))
	bar := utils.NewProgressBarTo(w.opts.Progress, len(units), utils.DescExtracting)
	defer bar.Finish()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.Workers)

	for i, u := range units {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := w.extractFile(gctx, u)
			if err != nil {
				return err
			}
			results[i] = res
			_ = bar.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (w *Walker) extractFile(ctx context.Context, u unit) (domain.ExtractionResult, error) {
	key := cache.FileKey(u.path, u.size, u.modTime, u.meta.String())
	logger := w.logger.WithFile(u.path)

	if res, ok := w.fromCache(ctx, key, logger); ok {
		return res, nil
	}

	ex := extract.New(
		extract.WithVersionFallback(func(string) *version.Range { return u.meta.Version }),
		extract.WithPackage(u.meta.Package),
	)
	run := extract.NewRun()
	if err := ex.ScanFile(u.path, run); err != nil {
		return domain.ExtractionResult{}, err
	}
	res := run.Result()

	w.toCache(ctx, key, u.path, res, logger)
	return res, nil
}

func (w *Walker) fromCache(ctx context.Context, key string, logger *utils.Logger) (domain.ExtractionResult, bool) {
	if w.opts.Cache == nil {
		return domain.ExtractionResult{}, false
	}

	data, err := w.opts.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("Cache read failed")
		}
		return domain.ExtractionResult{}, false
	}

	entry, err := cache.DecodeEntry(data)
	if err != nil {
		logger.Warn().Err(err).Msg("Discarding corrupt cache entry")
		return domain.ExtractionResult{}, false
	}

	logger.Debug().Msg("Cache hit")
	return entry.Result, true
}

func (w *Walker) toCache(ctx context.Context, key, path string, res domain.ExtractionResult, logger *utils.Logger) {
	if w.opts.Cache == nil {
		return
	}

	entry := &cache.Entry{Path: path, Result: res, ExtractedAt: time.Now().UTC()}
	data, err := entry.Encode()
	if err == nil {
		err = w.opts.Cache.Set(ctx, key, data, w.opts.CacheTTL)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Cache write failed")
	}
}

func (w *Walker) cancelled(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &domain.CancelledError{Err: ctxErr}
	}
	return err
}
