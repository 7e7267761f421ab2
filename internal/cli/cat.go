package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/plainedit/internal/logging"
	"github.com/yaklabco/plainedit/internal/ui/pretty"
	"github.com/yaklabco/plainedit/pkg/session"
)

type catFlags struct {
	lineNumbers    bool
	showWhitespace bool
	showCursor     bool
	truncate       bool
	keys           string
}

func newCatCommand() *cobra.Command {
	flags := &catFlags{}

	cmd := &cobra.Command{
		Use:   "cat <file>",
		Short: "Render a file as the editor sees it",
		Long: `Render a file row by row the way the editor lays it out. Tabs are
expanded to the configured tab width.

With --keys the script is typed into the document first and the result is
shown without touching the file.

Examples:
  plainedit cat notes.txt                   Render the file
  plainedit cat -n -w notes.txt             With row numbers and visible whitespace
  plainedit cat --keys '{Home}# ' notes.txt Preview an edit with its cursor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.lineNumbers, "line-numbers", "n", false, "prefix rows with their number")
	cmd.Flags().BoolVarP(&flags.showWhitespace, "show-whitespace", "w", false, "render spaces and tabs visibly")
	cmd.Flags().BoolVar(&flags.showCursor, "cursor", false, "mark the cursor position")
	cmd.Flags().BoolVar(&flags.truncate, "truncate", false, "cut rows at the terminal width")
	cmd.Flags().StringVar(&flags.keys, "keys", "", "key script to type before rendering (implies --cursor)")

	return cmd
}

func runCat(cmd *cobra.Command, path string, flags *catFlags) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	logger := logging.Default()

	sess, err := session.Open(ctx, path, session.Options{Config: cfg, Saver: readOnly(), Logger: logger})
	if err != nil {
		return err
	}
	defer logClose(ctx, logger, path, sess.Close)

	doc := sess.Document()
	if flags.keys != "" {
		if doc, err = sess.Type(ctx, flags.keys); err != nil {
			return fmt.Errorf("type keys: %w", err)
		}
		flags.showCursor = true
	}

	out := cmd.OutOrStdout()
	colorEnabled := pretty.IsColorEnabled(string(cfg.Color), out)
	opts := pretty.DocumentOptions{
		TabWidth:       cfg.Editor.TabWidth,
		LineNumbers:    flags.lineNumbers,
		ShowWhitespace: flags.showWhitespace,
		ShowCursor:     flags.showCursor,
	}
	if !colorEnabled {
		opts.CursorMarker = "|"
	}
	if flags.truncate {
		opts.Width = pretty.TerminalWidth(out)
	}

	_, err = fmt.Fprint(out, pretty.NewStyles(colorEnabled).FormatDocument(doc, opts))
	return err
}
