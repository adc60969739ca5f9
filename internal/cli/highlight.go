package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/codedeco/internal/logging"
	"github.com/yaklabco/codedeco/internal/watcher"
	"github.com/yaklabco/codedeco/pkg/config"
	"github.com/yaklabco/codedeco/pkg/fsutil"
	"github.com/yaklabco/codedeco/pkg/reporter"
	"github.com/yaklabco/codedeco/pkg/runner"
)

type highlightFlags struct {
	format          string
	flavor          string
	separator       string
	languageKey     string
	defaultLanguage string
	blockTypes      []string
	ignore          []string
	extensions      []string
	jobs            int
	detectLanguage  bool
	followSymlinks  bool
	compact         bool
	noSummary       bool
	watch           bool
}

func newHighlightCommand() *cobra.Command {
	flags := &highlightFlags{}

	cmd := &cobra.Command{
		Use:     "highlight [paths...]",
		Aliases: []string{"hl"},
		Short:   "Compute highlight ranges for code blocks",
		Long:    highlightLongDescription,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHighlight(cmd, args, flags)
		},
	}

	addHighlightFlags(cmd, flags)

	return cmd
}

const highlightLongDescription = `Parse Markdown files, tokenize every fenced or indented code block with the
grammar for its language, and report the resulting annotation ranges.

By default, processes all .md and .markdown files in the current directory
and subdirectories. Specify paths to process specific files or directories.

Examples:
  codedeco highlight                      # Current directory
  codedeco highlight docs/ README.md      # Specific paths
  codedeco highlight --format ansi        # Print code blocks painted
  codedeco highlight --format json        # Machine-readable ranges
  codedeco highlight --watch docs/        # Re-run when files change
  codedeco highlight --default-language go --detect-language`

func addHighlightFlags(cmd *cobra.Command, flags *highlightFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, ansi, summary")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "commonmark", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVar(&flags.separator, "separator", config.DefaultSeparator,
		`character placed between text nodes when flattening (escapes like \n allowed)`)
	cmd.Flags().StringVar(&flags.languageKey, "language-key", config.DefaultLanguageKey,
		"block data key holding the language")
	cmd.Flags().StringVar(&flags.defaultLanguage, "default-language", "",
		"language for code blocks without an info string")
	cmd.Flags().StringSliceVar(&flags.blockTypes, "block-types", nil, "block types to decorate (default: code)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to process (default: .md, .markdown)")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.detectLanguage, "detect-language", false,
		"guess the language of blocks without an info string")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "traverse directory symlinks")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "omit the summary line")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "keep running and re-process changed files")
}

// cliConfig builds the CLI configuration layer from the flags that were set.
func (f *highlightFlags) cliConfig(cmd *cobra.Command) *config.Config {
	changed := cmd.Flags().Changed
	cfg := &config.Config{}

	if changed("format") {
		cfg.Format = config.OutputFormat(f.format)
	}
	if changed("flavor") {
		cfg.Flavor = config.Flavor(f.flavor)
	}
	if changed("separator") {
		cfg.Separator = f.separator
	}
	if changed("language-key") {
		cfg.LanguageKey = f.languageKey
	}
	if changed("default-language") {
		cfg.DefaultLanguage = f.defaultLanguage
	}
	if changed("block-types") {
		cfg.BlockTypes = f.blockTypes
	}
	if changed("ignore") {
		cfg.Ignore = f.ignore
	}
	if changed("jobs") {
		cfg.Jobs = f.jobs
	}
	cfg.DetectLanguage = f.detectLanguage

	return cfg
}

func runHighlight(cmd *cobra.Command, args []string, flags *highlightFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	loadResult, workDir, err := loadConfig(cmd, flags.cliConfig(cmd))
	if err != nil {
		return err
	}
	cfg := loadResult.Config

	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldSeparator, cfg.Separator,
		logging.FieldFormat, cfg.Format,
		logging.FieldJobs, cfg.Jobs,
	)

	pipeline, warnings, err := runner.NewPipelineFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	for _, warning := range warnings {
		logger.Warn(warning)
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil || !cmd.Flags().Changed("color") {
		colorMode = string(cfg.Color)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode,
		Styles:      cfg.Styles,
		ShowSummary: !flags.noSummary,
		Compact:     flags.compact,
		TermWidth:   terminalWidth(cmd),
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	extensions := flags.extensions
	if len(extensions) == 0 {
		extensions = runner.DefaultExtensions()
	}

	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Extensions:     extensions,
		ExcludeGlobs:   cfg.Ignore,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           cfg.Jobs,
	}

	logger.Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	decoRunner := runner.New(pipeline)
	result, err := decoRunner.Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	logger.Debug("run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldRangesTotal, result.Stats.RangesTotal,
	)

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("%w: report results: %w", ErrIO, err)
	}

	if flags.watch {
		return watchAndRerun(ctx, decoRunner, rep, runOpts, result, logger)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrDecorationFailed
	}
	return nil
}

// watchAndRerun re-processes files as they change until interrupted.
// Per-run failures are reported but never end the session.
func watchAndRerun(
	ctx context.Context,
	decoRunner *runner.Runner,
	rep reporter.Reporter,
	opts runner.Options,
	initial *runner.Result,
	logger *log.Logger,
) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker := fsutil.NewTracker()
	record(tracker, initial)

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	roots := make([]string, len(paths))
	for i, path := range paths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(opts.WorkingDir, path)
		}
		roots[i] = path
	}

	w, err := watcher.New(watcher.Config{
		Paths:       roots,
		Extensions:  opts.Extensions,
		DebounceDur: watcher.DefaultDebounce,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	logger.Info("watching for changes", logging.FieldPaths, roots)

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-changes:
			if err := rerun(ctx, decoRunner, rep, opts, tracker, batch, logger); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				logger.Error("re-run failed", logging.FieldError, err)
			}
		}
	}
}

func rerun(
	ctx context.Context,
	decoRunner *runner.Runner,
	rep reporter.Reporter,
	opts runner.Options,
	tracker *fsutil.Tracker,
	batch []string,
	logger *log.Logger,
) error {
	var existing []string
	for _, path := range batch {
		if _, err := os.Stat(path); err != nil {
			tracker.Forget(path)
			logger.Debug("file removed", logging.FieldPath, path)
			continue
		}
		existing = append(existing, path)
	}
	if len(existing) == 0 {
		return nil
	}

	// Discovery applies the extension and ignore filters to the batch.
	discoverOpts := opts
	discoverOpts.Paths = existing
	files, err := runner.Discover(ctx, discoverOpts)
	if err != nil {
		return err
	}

	changed, err := tracker.Changed(ctx, files)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		logger.Debug("no content changes", logging.FieldFiles, files)
		return nil
	}

	logger.Debug("re-processing", logging.FieldFiles, changed)

	result, err := decoRunner.RunFiles(ctx, changed, opts.Jobs)
	if err != nil {
		return err
	}
	record(tracker, result)

	_, err = rep.Report(ctx, result)
	return err
}

func record(tracker *fsutil.Tracker, result *runner.Result) {
	if result == nil {
		return
	}
	for _, file := range result.Files {
		if file.Result != nil {
			tracker.Record(file.Result.Info)
		}
	}
}

// terminalWidth returns the width of the command's output terminal, or 0.
func terminalWidth(cmd *cobra.Command) int {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
