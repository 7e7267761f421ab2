package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/yaklabco/plainedit/internal/logging"
	"github.com/yaklabco/plainedit/internal/tui"
	"github.com/yaklabco/plainedit/pkg/session"
)

// logFilePermissions is the file mode for the interactive log file.
const logFilePermissions = 0o600

type tuiFlags struct {
	lineNumbers bool
	noWatch     bool
	logFile     string
}

func newTUICommand() *cobra.Command {
	flags := &tuiFlags{}

	cmd := &cobra.Command{
		Use:     "tui <file>",
		Aliases: []string{"open"},
		Short:   "Edit a file interactively in the terminal",
		Long: `Open a file in a full-screen terminal editor.

Keys go straight to the edit state machine; clicking places the cursor.
Ctrl+S saves and Ctrl+Q quits, saving pending edits. Changes made to the
file by other programs are reported in the status bar.

Logs are discarded unless --log-file is given, so they do not draw over
the screen.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.lineNumbers, "line-numbers", "n", false, "show row numbers")
	cmd.Flags().BoolVar(&flags.noWatch, "no-watch", false, "do not watch the file for external changes")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "write logs to this file")

	return cmd
}

func runTUI(cmd *cobra.Command, path string, flags *tuiFlags) (err error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	var logOutput io.Writer = io.Discard
	if flags.logFile != "" {
		file, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFilePermissions)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer file.Close()
		logOutput = file
	}
	logger := logging.NewWithWriter(logOutput, cfg.LogLevel)
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logger.SetLevel(logging.ParseLevel("debug"))
	}
	ctx := logging.WithLogger(commandContext(cmd), logger)

	writer := newWriter(cfg, logger)
	defer func() { err = errors.Join(err, writer.Close(ctx)) }()

	sess, err := session.Open(ctx, path, session.Options{Config: cfg, Saver: writer, Logger: logger})
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, sess.Close(ctx)) }()

	opts := tui.Options{
		TabWidth:    cfg.Editor.TabWidth,
		LineNumbers: flags.lineNumbers,
		Logger:      logger,
	}
	if !flags.noWatch {
		watcher, watchErr := tui.Watch(path, logger)
		if watchErr != nil {
			logger.Warn("file watching disabled", logging.FieldError, watchErr)
		} else {
			defer func() { _ = watcher.Close() }()
			opts.Watcher = watcher
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	return tui.New(screen, sess, opts).Run(ctx)
}
