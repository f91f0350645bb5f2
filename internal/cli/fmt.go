package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/parenfmt/internal/configloader"
	"github.com/yaklabco/parenfmt/internal/logging"
	"github.com/yaklabco/parenfmt/pkg/cache"
	"github.com/yaklabco/parenfmt/pkg/config"
	"github.com/yaklabco/parenfmt/pkg/pipeline"
	"github.com/yaklabco/parenfmt/pkg/reporter"
	"github.com/yaklabco/parenfmt/pkg/runner"
)

// stdinPath is the path argument that means standard input.
const stdinPath = "-"

type fmtFlags struct {
	format    string
	indent    int
	languages []string
	ignore    []string
	stdinName string
	watch     bool
	verbose   bool
	noContext bool
	compact   bool
}

func newFmtCommand() *cobra.Command {
	var cfg config.Config
	flags := &fmtFlags{}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format Lisp-family source files",
		Long:  fmtLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, &cfg, flags)
		},
	}

	addFmtFlags(cmd, &cfg, flags)

	return cmd
}

const fmtLongDescription = `Format Scheme, Racket, Common Lisp, Emacs Lisp, Clojure, Fennel and
Janet source files.

Line structure is preserved: every list element stays on the line it
started on, nested lines are re-indented, runs of blank lines collapse to
one and comments are kept next to the code they annotate.

By default, every recognised file under the current directory is checked
and the files that need formatting are listed. Use --write to rewrite them
in place or --check to fail when any file is not formatted. With "-" as the
only path, or when input is piped and no paths are given, standard input
is formatted to standard output.

Examples:
  parenfmt fmt                       # List files that need formatting
  parenfmt fmt --write src/          # Format files under src/ in place
  parenfmt fmt --check               # Exit 1 if anything needs formatting
  parenfmt fmt --format diff lib.scm # Show what would change
  parenfmt fmt --markdown README.md  # Format fenced code blocks
  cat core.clj | parenfmt fmt        # Format standard input
  parenfmt fmt --write --watch .     # Keep formatting files as they change`

func addFmtFlags(cmd *cobra.Command, cfg *config.Config, flags *fmtFlags) {
	cmd.Flags().BoolVarP(&cfg.Write, "write", "w", false, "write formatted output back to the files")
	cmd.Flags().BoolVar(&cfg.Check, "check", false, "exit with status 1 if any file needs formatting")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "compute changes without writing them")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, diff")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.languages, "languages", nil, "only format these dialects")
	cmd.Flags().IntVar(&flags.indent, "indent", 0, "spaces per indentation level")
	cmd.Flags().BoolVar(&cfg.UseTabs, "use-tabs", false, "indent with tabs")
	cmd.Flags().BoolVar(&cfg.Markdown, "markdown", false, "format fenced code blocks in Markdown files")
	cmd.Flags().BoolVar(&cfg.FollowSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when writing")
	cmd.Flags().BoolVar(&cfg.NoCache, "no-cache", false, "ignore and do not update the format cache")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "keep running and format files as they change")
	cmd.Flags().StringVar(&flags.stdinName, "stdin-filepath", "", "file name used to detect the dialect of standard input")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "also list files that were already formatted")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in error output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
}

// session holds everything a fmt invocation shares between the initial run
// and watch-mode reruns.
type session struct {
	cfg      *config.Config
	workDir  string
	pipeline *pipeline.Pipeline
	runner   *runner.Runner
	reporter reporter.Reporter
	logger   *log.Logger
}

func runFmt(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *fmtFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Only values the user actually set may override the loaded layers.
	if cmd.Flags().Changed("format") {
		format, err := config.ParseOutputFormat(flags.format)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cliCfg.Format = format
	}
	if cmd.Flags().Changed("indent") {
		if flags.indent < 1 {
			return fmt.Errorf("%w: --indent must be at least 1", ErrUsage)
		}
		cliCfg.IndentWidth = flags.indent
	}
	cliCfg.Ignore = flags.ignore
	cliCfg.Languages = flags.languages

	if cliCfg.Write && cliCfg.Check {
		return fmt.Errorf("%w: --write and --check cannot be combined", ErrUsage)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return errors.Join(ErrConfig, err)
	}

	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration resolved",
		logging.FieldIndent, cfg.IndentWidth,
		logging.FieldWrite, cfg.Write,
		logging.FieldCheck, cfg.Check,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
	)

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      cfg.Format,
		Color:       colorMode,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	s := &session{
		cfg:      cfg,
		workDir:  workDir,
		pipeline: pipeline.New(pipeline.OptionsFromConfig(cfg)),
		reporter: rep,
		logger:   logger,
	}

	if readsStdin(cmd.InOrStdin(), args) {
		if flags.watch {
			return fmt.Errorf("%w: --watch cannot read standard input", ErrUsage)
		}
		return s.formatStdin(ctx, cmd, flags.stdinName)
	}

	if closeCache := s.openCache(ctx); closeCache != nil {
		defer closeCache()
	}
	s.runner = runner.New(s.pipeline)

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir

	logger.Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
	)

	result, err := s.runner.Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("format run failed"), err)
	}

	if _, err := s.reporter.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if flags.watch {
		return s.watch(ctx, runOpts)
	}

	return resultError(result, cfg.Check)
}

// openCache attaches the format cache to the pipeline. Failing to open it
// only costs speed, so errors are logged and the run continues.
func (s *session) openCache(ctx context.Context) func() {
	if !s.cfg.CacheEnabled() {
		return nil
	}

	path := s.cfg.Cache.Path
	if path == "" {
		var err error
		if path, err = cache.DefaultPath(); err != nil {
			s.logger.Warn("cache disabled", logging.FieldError, err)
			return nil
		}
	}

	c, err := cache.Open(ctx, path)
	if err != nil {
		s.logger.Warn("cache disabled", logging.FieldError, err)
		return nil
	}
	s.pipeline.Options.Cache = c

	return func() {
		if err := c.Close(); err != nil {
			s.logger.Warn("closing cache", logging.FieldError, err)
		}
	}
}

// readsStdin reports whether the invocation formats standard input: either
// the only path is "-", or no paths were given and input is piped.
func readsStdin(in io.Reader, args []string) bool {
	if len(args) == 1 && args[0] == stdinPath {
		return true
	}
	if len(args) > 0 {
		return false
	}

	file, ok := in.(*os.File)
	if !ok {
		// Injected readers (tests, embedding) count as piped input.
		return in != nil
	}
	if term.IsTerminal(int(file.Fd())) {
		return false
	}

	info, err := file.Stat()
	if err != nil {
		return false
	}
	// Character devices such as /dev/null mean nobody is piping anything.
	return info.Mode()&(os.ModeNamedPipe|os.ModeCharDevice) == os.ModeNamedPipe || info.Mode().IsRegular()
}

// stdinProcessor adapts in-memory content to runner.Processor so stdin goes
// through the same reporting as files.
type stdinProcessor struct {
	pipeline *pipeline.Pipeline
	content  []byte
}

func (p stdinProcessor) ProcessFile(ctx context.Context, path string) (*pipeline.Result, error) {
	return p.pipeline.ProcessContent(ctx, path, p.content)
}

func (s *session) formatStdin(ctx context.Context, cmd *cobra.Command, name string) error {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read standard input: %w", err)
	}

	if name == "" {
		name = "<stdin>"
	}

	processor := stdinProcessor{pipeline: s.pipeline, content: content}
	result, err := runner.New(processor).ProcessFiles(ctx, []string{name}, 1)
	if err != nil {
		return fmt.Errorf("format standard input: %w", err)
	}

	outcome := result.Files[0]
	if outcome.Error != nil || s.cfg.Check || s.cfg.Format != config.FormatText {
		if _, err := s.reporter.Report(ctx, result); err != nil {
			return fmt.Errorf("report results: %w", err)
		}
		return resultError(result, s.cfg.Check)
	}

	out := content
	if !outcome.Result.Skipped {
		out = outcome.Result.Formatted
	}
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return fmt.Errorf("write standard output: %w", err)
	}
	return nil
}
