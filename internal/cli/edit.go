package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/plainedit/internal/logging"
	"github.com/yaklabco/plainedit/pkg/config"
	"github.com/yaklabco/plainedit/pkg/session"
	"github.com/yaklabco/plainedit/pkg/splice"
)

type editFlags struct {
	keys     string
	keysFile string
	newline  string
	dryRun   bool
	diff     bool
	journal  bool
	print    bool
	strict   bool
}

func newEditCommand() *cobra.Command {
	flags := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Type a key script into a file",
		Long: `Open a file, type a key script into it and save the result.

The cursor starts after the last character. Characters are typed literally,
a newline presses Enter and {Name} presses a named key such as {Home},
{Backspace} or {Ctrl+s}; {{} types a literal "{". Run 'plainedit keys' for
every name.

Nothing is written when the script fails or leaves the content unchanged.

Examples:
  plainedit edit --keys '{Home}TODO: ' notes.txt   Prefix the last row
  plainedit edit --keys-file fix.keys notes.txt    Read the script from a file
  plainedit edit --keys 'x' --dry-run notes.txt    Show the diff only`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.keys, "keys", "k", "", "key script to type")
	cmd.Flags().StringVar(&flags.keysFile, "keys-file", "", "read the key script from a file")
	cmd.Flags().StringVar(&flags.newline, "newline", "", "terminator for new rows: lf, crlf, auto")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show the diff without writing")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print the diff of the change")
	cmd.Flags().BoolVar(&flags.journal, "journal", false, "print every row/column splice")
	cmd.Flags().BoolVar(&flags.print, "print", false, "print the resulting content")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "validate the document after every key")

	cmd.MarkFlagsMutuallyExclusive("keys", "keys-file")

	return cmd
}

func readScript(keys, keysFile string) (string, error) {
	switch {
	case keysFile != "":
		data, err := os.ReadFile(keysFile)
		if err != nil {
			return "", fmt.Errorf("read key script: %w", err)
		}
		return string(data), nil
	case keys != "":
		return keys, nil
	default:
		return "", fmt.Errorf("%w: --keys or --keys-file is required", ErrUsage)
	}
}

func runEdit(cmd *cobra.Command, path string, flags *editFlags) error {
	script, err := readScript(flags.keys, flags.keysFile)
	if err != nil {
		return err
	}

	cliCfg := &config.Config{Newline: config.NewlineMode(flags.newline)}
	cliCfg.Editor.Strict = flags.strict
	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)
	writer := newWriter(cfg, logger)
	saver := &gatedSaver{target: writer, discard: flags.dryRun}

	sess, err := session.Open(ctx, path, session.Options{Config: cfg, Saver: saver, Logger: logger})
	if err != nil {
		return err
	}

	before := sess.Handle().Content()
	_, editErr := sess.Type(ctx, script)
	if editErr == nil && cfg.Editor.Strict {
		editErr = sess.Verify(ctx)
	}
	after := sess.Handle().Content()
	journal := sess.Handle().Journal()
	if editErr != nil || before == after {
		saver.discard = true
	}

	closeErr := sess.Close(ctx)
	writeErr := writer.Close(ctx)
	if editErr != nil {
		return fmt.Errorf("edit %s: %w", path, editErr)
	}
	if err := errors.Join(closeErr, writeErr); err != nil {
		return err
	}

	styles := newStyles(cmd, cfg)
	out := cmd.OutOrStdout()
	if flags.journal {
		fmt.Fprintln(out, styles.FormatFileHeader(path, len(journal)))
		for _, edit := range journal {
			fmt.Fprint(out, styles.FormatEdit(path, edit))
		}
	}
	if flags.diff || flags.dryRun {
		fmt.Fprint(out, styles.FormatDiff(splice.Diff(path, before, after)))
	}
	if flags.print {
		fmt.Fprint(out, after)
	}

	logger.Debug("edit finished",
		logging.FieldPath, path,
		logging.FieldEdits, len(journal),
		logging.FieldWrites, writer.Writes(),
	)
	return nil
}
