// Package app wires the extraction, grouping and markdown stages into the
// snipdocs pipeline.
package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/quantmind-br/snipdocs-go/internal/cache"
	"github.com/quantmind-br/snipdocs-go/internal/config"
	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/grouping"
	"github.com/quantmind-br/snipdocs-go/internal/markdown"
	"github.com/quantmind-br/snipdocs-go/internal/metadata"
	"github.com/quantmind-br/snipdocs-go/internal/output"
	"github.com/quantmind-br/snipdocs-go/internal/utils"
	"github.com/quantmind-br/snipdocs-go/internal/walker"
)

// Orchestrator coordinates the snippet extraction and substitution process
type Orchestrator struct {
	config   *config.Config
	opts     domain.CommonOptions
	cache    domain.Cache
	ownCache bool
	progress io.Writer
	logger   *utils.Logger
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	domain.CommonOptions
	Config *config.Config
	// Cache overrides the badger cache built from the config
	Cache domain.Cache
	// Progress receives progress bars. Nil disables them.
	Progress io.Writer
	// LogOutput receives log lines. Defaults to stderr.
	LogOutput io.Writer
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := "info"
	logFormat := "pretty"
	if cfg.Logging.Level != "" {
		logLevel = cfg.Logging.Level
	}
	if cfg.Logging.Format != "" {
		logFormat = cfg.Logging.Format
	}

	logger := utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  logFormat,
		Output:  opts.LogOutput,
		Verbose: opts.Verbose,
	})

	o := &Orchestrator{
		config:   cfg,
		opts:     opts.CommonOptions,
		cache:    opts.Cache,
		progress: opts.Progress,
		logger:   logger,
	}

	if o.cache == nil && cfg.Cache.Enabled {
		cacheDir := cfg.Cache.Directory
		if cacheDir == "" {
			cacheDir = config.CacheDir()
		}
		c, err := cache.NewBadgerCache(cache.Options{
			Directory:   utils.ExpandPath(cacheDir),
			LockRetries: cache.DefaultOptions().LockRetries,
		})
		if err != nil {
			// Extraction still works without a cache
			logger.Warn().Err(err).Str("dir", cacheDir).Msg("Cache disabled")
		} else {
			o.cache = c
			o.ownCache = true
		}
	}

	return o, nil
}

// Extract runs the directory extraction over dir, or the configured source
// directory when dir is empty
func (o *Orchestrator) Extract(ctx context.Context, dir string) (domain.ExtractionResult, error) {
	if dir == "" {
		dir = o.config.Source.Directory
	}

	filter, err := walker.NewFilter(dir, walker.FilterOptions{
		Extensions: o.config.Source.Extensions,
		Exclude:    o.config.Source.Exclude,
		Gitignore:  o.config.Source.Gitignore,
	})
	if err != nil {
		return domain.ExtractionResult{}, err
	}

	w := walker.New(walker.Options{
		Workers:         o.config.Concurrency.Workers,
		IncludeDir:      filter.IncludeDir,
		IncludeFile:     filter.IncludeFile,
		MaxFileSize:     o.config.MaxFileSizeBytes(),
		ExtractMetadata: metadata.NewInferrer(o.config.Packages).Extract,
		Cache:           o.cache,
		CacheTTL:        o.config.Cache.TTL,
		Progress:        o.progress,
		Logger:          o.logger,
	})

	return w.Walk(ctx, dir)
}

// Run executes the full pipeline. When dir is non-empty it replaces both the
// configured source and markdown directories.
func (o *Orchestrator) Run(ctx context.Context, dir string) (*Report, error) {
	startTime := time.Now()

	sourceDir, markdownDir := o.config.Source.Directory, o.config.Markdown.Directory
	if dir != "" {
		sourceDir, markdownDir = dir, dir
	}

	if o.config.Concurrency.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.Concurrency.Timeout)
		defer cancel()
	}

	o.logger.Info().
		Str("source", sourceDir).
		Str("markdown", markdownDir).
		Str("output", o.config.Output.Directory).
		Int("concurrency", o.config.Concurrency.Workers).
		Msg("Starting snippet extraction")

	extracted, err := o.Extract(ctx, sourceDir)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	for _, e := range extracted.Errors {
		o.logger.ExtractionError(e)
	}

	groups, err := grouping.Group(extracted.Snippets)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Snippets: len(extracted.Snippets),
		Groups:   len(groups),
		Errors:   extracted.Errors,
	}

	docs, err := o.process(ctx, markdownDir, groups)
	if err != nil {
		return nil, err
	}
	report.Documents = docs
	report.Duration = time.Since(startTime)

	o.logger.Info().
		Int("snippets", report.Snippets).
		Int("documents", len(report.Documents)).
		Int("written", report.Count(output.Written)).
		Int("missing", report.MissingCount()).
		Int("errors", len(report.Errors)).
		Dur("duration", report.Duration).
		Msg("Snippet extraction completed")

	return report, nil
}

// process substitutes snippets into every markdown source below root and
// writes the results. Documents are processed concurrently, each on its own.
func (o *Orchestrator) process(ctx context.Context, root string, groups []domain.SnippetGroup) ([]DocumentReport, error) {
	sources, err := FindSources(root, o.config.Markdown.Suffix, nil)
	if err != nil {
		return nil, fmt.Errorf("find markdown sources: %w", err)
	}

	processor := markdown.NewProcessor(groups)
	writer := output.NewWriter(output.WriterOptions{
		BaseDir: o.config.Output.Directory,
		Suffix:  o.config.Markdown.Suffix,
		DryRun:  o.opts.DryRun,
	})

	bar := utils.NewProgressBarTo(o.progress, len(sources), utils.DescProcessing)
	defer bar.Finish()

	reports, err := utils.ParallelMap(ctx, sources, o.config.Concurrency.Workers, func(ctx context.Context, source string) (DocumentReport, error) {
		defer bar.Add(1)

		res, err := processor.ApplyToFile(filepath.Join(root, source))
		if err != nil {
			return DocumentReport{}, err
		}
		for _, m := range res.Missing {
			o.logger.MissingSnippet(source, m)
		}

		status, err := writer.Write(ctx, output.Document{RelPath: source, Content: res.Text})
		if err != nil {
			return DocumentReport{}, fmt.Errorf("write %s: %w", source, err)
		}
		o.logger.WithFile(source).Debug().Stringer("status", status).Msg("Document processed")

		return DocumentReport{
			Source:  source,
			Output:  writer.GetPath(source),
			Status:  status,
			Missing: res.Missing,
			Used:    res.UsedKeys(),
		}, nil
	})

	if ctx.Err() != nil {
		o.logger.Warn().Msg("Processing cancelled")
		return nil, &domain.CancelledError{Err: ctx.Err()}
	}
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// maintainedCache is a cache that can report on and drop its contents
type maintainedCache interface {
	Clear() error
	Stats() cache.Stats
}

// CacheStats reports the extraction cache contents. It returns false when
// caching is disabled or the cache cannot report.
func (o *Orchestrator) CacheStats() (cache.Stats, bool) {
	c, ok := o.cache.(maintainedCache)
	if !ok {
		return cache.Stats{}, false
	}
	return c.Stats(), true
}

// ClearCache drops every cached extraction result
func (o *Orchestrator) ClearCache() error {
	if o.cache == nil {
		return fmt.Errorf("cache is disabled")
	}
	c, ok := o.cache.(maintainedCache)
	if !ok {
		return fmt.Errorf("cache %T cannot be cleared", o.cache)
	}
	if err := c.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	o.logger.Info().Msg("Cache cleared")
	return nil
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	if o.ownCache && o.cache != nil {
		return o.cache.Close()
	}
	return nil
}
