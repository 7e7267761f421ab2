package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yaklabco/plainedit/internal/logging"
	"github.com/yaklabco/plainedit/internal/ui/pretty"
	"github.com/yaklabco/plainedit/pkg/filehandle"
	"github.com/yaklabco/plainedit/pkg/fsutil"
	"github.com/yaklabco/plainedit/pkg/session"
	"github.com/yaklabco/plainedit/pkg/textdetect"
)

func newInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>...",
		Short: "Describe files",
		Long: `Print what the editor knows about each file: its language, row count,
longest row, row terminator and size. Files that cannot be edited as plain
text say why.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args)
		},
	}
	return cmd
}

func runInfo(cmd *cobra.Command, paths []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	logger := logging.Default()
	styles := newStyles(cmd, cfg)
	out := cmd.OutOrStdout()

	var failed error
	for _, path := range paths {
		sess, err := session.Open(ctx, path, session.Options{Config: cfg, Saver: readOnly(), Logger: logger})
		switch {
		case errors.Is(err, filehandle.ErrNotText), errors.Is(err, session.ErrBareCarriageReturn):
			content, info, readErr := fsutil.ReadFile(ctx, path)
			if readErr != nil {
				failed = errors.Join(failed, readErr)
				continue
			}
			describe := textdetect.Describe(path, content)
			writeInfo(out, styles, path, [][2]string{
				{"language", describe.Language},
				{"size", strconv.FormatInt(info.Size, 10) + " bytes"},
				{"editable", "no (" + reason(err) + ")"},
			})
			continue
		case err != nil:
			failed = errors.Join(failed, err)
			continue
		}

		handle := sess.Handle()
		describe := sess.Info()
		fields := [][2]string{
			{"language", describe.Language},
			{"rows", strconv.Itoa(handle.PhysicalRowCount())},
			{"longest row", strconv.Itoa(handle.PhysicalCharacterLengthOfLongestRow())},
			{"newline", newlineName(handle.Newline())},
			{"size", strconv.FormatInt(handle.Info().Size, 10) + " bytes"},
			{"editable", "yes"},
		}
		if describe.Generated {
			fields = append(fields, [2]string{"generated", "yes"})
		}
		if describe.Vendored {
			fields = append(fields, [2]string{"vendored", "yes"})
		}
		writeInfo(out, styles, path, fields)
		logClose(ctx, logger, path, sess.Close)
	}
	return failed
}

func writeInfo(out io.Writer, styles *pretty.Styles, path string, fields [][2]string) {
	fmt.Fprintln(out, styles.FormatFileHeader(path, 0))
	for _, field := range fields {
		fmt.Fprintf(out, "  %s %s\n", styles.Dim.Render(fmt.Sprintf("%-12s", field[0]+":")), field[1])
	}
}

func reason(err error) string {
	if errors.Is(err, session.ErrBareCarriageReturn) {
		return "bare carriage return"
	}
	return "binary or not UTF-8"
}

func newlineName(newline string) string {
	switch newline {
	case "\r\n":
		return "crlf"
	case "\n":
		return "lf"
	default:
		return "none"
	}
}
