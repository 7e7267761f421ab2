package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/yaklabco/plainedit/internal/logging"
	"github.com/yaklabco/plainedit/internal/ui/pretty"
	"github.com/yaklabco/plainedit/pkg/batch"
	"github.com/yaklabco/plainedit/pkg/config"
)

// Replay output formats.
const (
	formatTable   = "table"
	formatSummary = "summary"
	formatDiff    = "diff"
)

type replayFlags struct {
	keys       string
	keysFile   string
	manifest   string
	ignore     []string
	include    []string
	extensions []string
	format     string
	follow     bool
	dryRun     bool
	strict     bool
	jobs       int
}

func newReplayCommand() *cobra.Command {
	flags := &replayFlags{}

	cmd := &cobra.Command{
		Use:   "replay [paths...]",
		Short: "Type a key script into many files",
		Long: `Replay a key script against every file under the given paths, or run
the per-file scripts of a manifest. Files are processed in parallel; each
one is opened, edited and saved on its own, and files that fail are left
untouched.

A manifest has one task per line: a path and a key script, split with shell
quoting rules. Lines starting with '#' are comments.

Examples:
  plainedit replay --keys '{End}{Enter}' docs/        Append a row to every file
  plainedit replay --keys x --ext .txt --dry-run .     Preview on .txt files
  plainedit replay --manifest edits.txt               Run per-file scripts`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.keys, "keys", "k", "", "key script typed into every file")
	cmd.Flags().StringVar(&flags.keysFile, "keys-file", "", "read the key script from a file")
	cmd.Flags().StringVar(&flags.manifest, "manifest", "", "file of path and script pairs")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns files must match")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to include, e.g. .txt")
	cmd.Flags().StringVar(&flags.format, "format", formatTable, "output format: table, summary, diff")
	cmd.Flags().BoolVar(&flags.follow, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "compute edits without writing")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "validate documents and check them against the files")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")

	cmd.MarkFlagsMutuallyExclusive("keys", "keys-file", "manifest")

	return cmd
}

func runReplay(cmd *cobra.Command, args []string, flags *replayFlags) error {
	switch flags.format {
	case formatTable, formatSummary, formatDiff:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrUsage, flags.format)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	opts := batch.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Extensions:     normalizeExtensions(flags.extensions),
		IncludeGlobs:   flags.include,
		FollowSymlinks: flags.follow,
		DryRun:         flags.dryRun,
	}

	if flags.manifest != "" {
		if len(args) > 0 {
			return fmt.Errorf("%w: paths cannot be combined with --manifest", ErrUsage)
		}
		opts.Tasks, err = readManifest(flags.manifest)
		if err != nil {
			return err
		}
	} else {
		opts.Script, err = readScript(flags.keys, flags.keysFile)
		if err != nil {
			return err
		}
	}

	cliCfg := &config.Config{Jobs: flags.jobs}
	cliCfg.Editor.Strict = flags.strict
	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}
	opts.Config = cfg
	opts.Jobs = cfg.Jobs
	opts.ExcludeGlobs = lo.Uniq(append(append([]string{}, cfg.Ignore...), flags.ignore...))

	ctx := commandContext(cmd)
	logger := logging.Default()
	opts.Logger = logger
	writer := newWriter(cfg, logger)
	opts.Saver = writer

	logger.Debug("starting replay",
		logging.FieldPaths, opts.Paths,
		logging.FieldFiles, len(opts.Tasks),
		logging.FieldJobs, opts.Jobs,
	)

	result, runErr := batch.Run(logging.WithLogger(ctx, logger), opts)
	if err := writer.Close(ctx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if result == nil {
		return fmt.Errorf("replay: %w", runErr)
	}

	reportReplay(cmd, cfg, result, flags.format)

	for _, outcome := range result.Files {
		if outcome.Error != nil {
			logger.Error("replay failed", logging.FieldPath, outcome.Path, logging.FieldError, outcome.Error)
		}
	}
	if runErr != nil {
		return fmt.Errorf("replay: %w", runErr)
	}
	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrReplayFailures
	}
	return nil
}

func readManifest(path string) ([]batch.Task, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest: %w", err)
	}
	tasks, err := batch.ParseManifest(file, filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return tasks, nil
}

func reportReplay(cmd *cobra.Command, cfg *config.Config, result *batch.Result, format string) {
	out := cmd.OutOrStdout()
	styles := newStyles(cmd, cfg)

	switch format {
	case formatSummary:
		fmt.Fprint(out, styles.FormatSummary(result.Stats))
	case formatDiff:
		for _, outcome := range result.Files {
			fmt.Fprint(out, styles.FormatDiff(outcome.Diff))
		}
		fmt.Fprint(out, styles.FormatSummaryOneLine(result.Stats))
	default:
		table := pretty.NewTableFormatter(styles, pretty.TerminalWidth(out))
		fmt.Fprint(out, table.FormatTable(result))
		if len(result.Files) == 0 {
			fmt.Fprint(out, styles.FormatSummaryOneLine(result.Stats))
		}
	}
}

func normalizeExtensions(extensions []string) []string {
	return lo.Map(extensions, func(ext string, _ int) string {
		if ext == "" || ext[0] == '.' {
			return ext
		}
		return "." + ext
	})
}
