package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/snipdocs-go/internal/app"
	"github.com/quantmind-br/snipdocs-go/internal/cache"
	"github.com/quantmind-br/snipdocs-go/internal/config"
	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/output"
	"github.com/quantmind-br/snipdocs-go/internal/utils"
	"github.com/quantmind-br/snipdocs-go/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger

	keyColor   = color.New(color.FgCyan, color.Bold)
	errorColor = color.New(color.FgRed)
	warnColor  = color.New(color.FgYellow)
	okColor    = color.New(color.FgGreen)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snipdocs [dir]",
	Short: "Merge code snippets into markdown documentation",
	Long: `snipdocs extracts marked code snippets from source files and substitutes
them into markdown documents at "<!-- import key -->" directives.

Snippets are delimited by "startcode Key [version]" / "endcode" comments or
by "#region Key" / "#endregion". Every "*.source.md" document below the
directory is written, with its snippets filled in, to the output directory.`,
	Version:      version.Short(),
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

var extractCmd = &cobra.Command{
	Use:   "extract [dir]",
	Short: "List the snippets found below a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExtract,
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and directories",
	RunE:  runDoctor,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().Colored())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the extraction cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached extraction result",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.snipdocs/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutputDir, "Output directory")
	rootCmd.PersistentFlags().IntP("concurrency", "j", config.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().StringSlice("ext", nil, "Source file extensions to scan")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Regex patterns to exclude")
	rootCmd.PersistentFlags().Bool("no-gitignore", false, "Do not honour .gitignore files")
	rootCmd.PersistentFlags().String("markdown-dir", "", "Directory holding markdown sources (default is the source directory)")
	rootCmd.PersistentFlags().String("suffix", config.DefaultMarkdownSuffix, "Suffix of markdown source documents")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Simulate without writing files")
	rootCmd.PersistentFlags().Bool("strict", false, "Fail on extraction errors or missing snippets")
	rootCmd.PersistentFlags().Bool("progress", false, "Show progress bars")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Cache flags
	rootCmd.PersistentFlags().Bool("no-cache", false, "Disable caching")
	rootCmd.PersistentFlags().Duration("cache-ttl", config.DefaultCacheTTL, "Cache TTL")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "Overall run timeout")

	// Bind flags to viper
	_ = viper.BindPFlag("output.directory", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("concurrency.workers", rootCmd.PersistentFlags().Lookup("concurrency"))
	_ = viper.BindPFlag("concurrency.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("source.extensions", rootCmd.PersistentFlags().Lookup("ext"))
	_ = viper.BindPFlag("source.exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("markdown.directory", rootCmd.PersistentFlags().Lookup("markdown-dir"))
	_ = viper.BindPFlag("markdown.suffix", rootCmd.PersistentFlags().Lookup("suffix"))
	_ = viper.BindPFlag("cache.ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))

	versionCmd.Flags().Bool("short", false, "Print only the version number")

	// Add subcommands
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// setup loads the configuration, applies the flags viper cannot express and
// returns a context cancelled on SIGINT/SIGTERM
func setup(cmd *cobra.Command) (*config.Config, context.Context, context.CancelFunc, error) {
	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	log = utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  "pretty",
		Output:  cmd.ErrOrStderr(),
		Verbose: verbose,
	})

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	if noGitignore, _ := cmd.Flags().GetBool("no-gitignore"); noGitignore {
		cfg.Source.Gitignore = false
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Info().Msg("Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return cfg, ctx, cancel, nil
}

func newOrchestrator(cmd *cobra.Command, cfg *config.Config) (*app.Orchestrator, error) {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	showProgress, _ := cmd.Flags().GetBool("progress")

	var progress io.Writer
	if showProgress {
		progress = cmd.ErrOrStderr()
	}

	orch, err := app.NewOrchestrator(app.OrchestratorOptions{
		CommonOptions: domain.CommonOptions{
			Verbose: verbose,
			DryRun:  dryRun,
		},
		Config:    cfg,
		Progress:  progress,
		LogOutput: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	return orch, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, ctx, cancel, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	var dir string
	if len(args) > 0 {
		dir = args[0]
	}

	orchestrator, err := newOrchestrator(cmd, cfg)
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	report, err := orchestrator.Run(ctx, dir)
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report)

	if strict, _ := cmd.Flags().GetBool("strict"); strict && report.HasProblems() {
		return fmt.Errorf("%d extraction errors and %d missing snippets", len(report.Errors), report.MissingCount())
	}
	return nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, ctx, cancel, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	var dir string
	if len(args) > 0 {
		dir = args[0]
	}

	orchestrator, err := newOrchestrator(cmd, cfg)
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	res, err := orchestrator.Extract(ctx, dir)
	if err != nil {
		return err
	}

	printExtraction(cmd.OutOrStdout(), res)

	if strict, _ := cmd.Flags().GetBool("strict"); strict && res.HasErrors() {
		return fmt.Errorf("%d extraction errors", len(res.Errors))
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, _, cancel, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	orchestrator, err := newOrchestrator(cmd, cfg)
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	if err := orchestrator.ClearCache(); err != nil {
		return err
	}
	okColor.Fprintln(cmd.OutOrStdout(), "Cache cleared")
	return nil
}

func printExtraction(w io.Writer, res domain.ExtractionResult) {
	for _, s := range res.Snippets {
		keyColor.Fprint(w, s.Key)
		if s.Version != nil {
			fmt.Fprintf(w, " %s", s.Version)
		}
		if s.Package != "" {
			fmt.Fprintf(w, " (%s)", s.Package)
		}
		fmt.Fprintf(w, " [%s] %s\n", s.Language, s.Location)
	}
	for _, e := range res.Errors {
		errorColor.Fprintln(w, e.String())
	}
	fmt.Fprintf(w, "%d snippets, %d errors\n", len(res.Snippets), len(res.Errors))
}

func printReport(w io.Writer, r *app.Report) {
	for _, e := range r.Errors {
		errorColor.Fprintln(w, e.String())
	}
	for _, d := range r.Documents {
		for _, m := range d.Missing {
			warnColor.Fprintf(w, "%s:%d: snippet '%s' not found\n", d.Source, m.Line, m.Key)
		}
	}

	okColor.Fprintf(w, "%d snippets in %d groups, %d documents", r.Snippets, r.Groups, len(r.Documents))
	fmt.Fprintf(w, " (%d written, %d unchanged, %d dry-run) in %s\n",
		r.Count(output.Written), r.Count(output.Unchanged), r.Count(output.DryRun),
		r.Duration.Round(time.Millisecond))
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Checking configuration...")
	allPassed := true

	fmt.Fprint(out, "  Config file: ")
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "FAILED (%v)\n", err)
		return nil
	}
	fmt.Fprintln(out, "OK")

	fmt.Fprint(out, "  Source directory: ")
	if checkDir(cfg.Source.Directory) {
		fmt.Fprintf(out, "OK (%s)\n", cfg.Source.Directory)
	} else {
		fmt.Fprintf(out, "FAILED (%s not found)\n", cfg.Source.Directory)
		allPassed = false
	}

	fmt.Fprint(out, "  Markdown directory: ")
	if checkDir(cfg.Markdown.Directory) {
		fmt.Fprintf(out, "OK (%s)\n", cfg.Markdown.Directory)
	} else {
		fmt.Fprintf(out, "FAILED (%s not found)\n", cfg.Markdown.Directory)
		allPassed = false
	}

	fmt.Fprint(out, "  Write permissions: ")
	if checkWritePermissions(cfg.Output.Directory) {
		fmt.Fprintln(out, "OK")
	} else {
		fmt.Fprintln(out, "FAILED")
		allPassed = false
	}

	fmt.Fprint(out, "  Output directory: ")
	docs, size, err := output.NewWriter(output.WriterOptions{BaseDir: cfg.Output.Directory}).Stats()
	if err != nil {
		fmt.Fprintf(out, "WARN (%v)\n", err)
	} else {
		fmt.Fprintf(out, "OK (%d documents, %s)\n", docs, humanize.Bytes(uint64(size)))
	}

	fmt.Fprint(out, "  Cache directory: ")
	cacheDir := utils.ExpandPath(cfg.Cache.Directory)
	if !cfg.Cache.Enabled {
		fmt.Fprintln(out, "DISABLED")
	} else if checkDir(cacheDir) {
		fmt.Fprintf(out, "OK (%s, %s)\n", cacheDir, describeCache(cacheDir))
	} else {
		fmt.Fprintln(out, "WARN (will be created on first use)")
	}

	fmt.Fprintln(out)
	if allPassed {
		fmt.Fprintln(out, "All critical checks passed!")
	} else {
		fmt.Fprintln(out, "Some checks failed. Please resolve the issues above.")
	}
	return nil
}

// describeCache summarizes the cache at dir, which must already exist
func describeCache(dir string) string {
	c, err := cache.NewBadgerCache(cache.Options{Directory: dir, LockRetries: 1})
	if err != nil {
		return "in use"
	}
	defer c.Close()

	stats := c.Stats()
	return fmt.Sprintf("%d entries, %s", stats.Entries, humanize.Bytes(uint64(stats.DiskBytes())))
}

// checkWritePermissions checks if files can be created in dir or, when it
// does not exist yet, in its nearest existing ancestor
func checkWritePermissions(dir string) bool {
	for !checkDir(dir) {
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
	f, err := os.CreateTemp(dir, ".snipdocs_test_write")
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(f.Name())
	return true
}

// checkDir checks if path exists and is a directory
func checkDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
