package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/plainedit/pkg/splice"
)

// FormatDiff renders a unified diff with header, hunk and line styles.
// A nil diff renders as the empty string.
func (s *Styles) FormatDiff(diff *splice.Unified) string {
	if diff == nil {
		return ""
	}

	var builder strings.Builder
	path := strings.TrimPrefix(diff.Path, "/")
	builder.WriteString(s.DiffHeader.Render("--- a/"+path) + "\n")
	builder.WriteString(s.DiffHeader.Render("+++ b/"+path) + "\n")

	for _, hunk := range diff.Hunks {
		builder.WriteString(s.DiffHunk.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			hunk.BeforeStart, hunk.BeforeCount, hunk.AfterStart, hunk.AfterCount)) + "\n")
		for _, line := range hunk.Lines {
			switch line.Kind {
			case splice.LineAdd:
				builder.WriteString(s.DiffAdd.Render("+" + line.Text))
			case splice.LineRemove:
				builder.WriteString(s.DiffRemove.Render("-" + line.Text))
			default:
				builder.WriteString(s.DiffContext.Render(" " + line.Text))
			}
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// FormatEdit formats one journal entry as "path:row:col  insert "x"" with
// 1-based row and column like editors display them.
func (s *Styles) FormatEdit(path string, edit splice.Edit) string {
	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(path), edit.Row+1, edit.Column+1)

	var action string
	switch {
	case edit.Remove == 0:
		action = "insert " + fmt.Sprintf("%q", edit.Insert)
	case edit.Insert == "":
		action = fmt.Sprintf("remove %d", edit.Remove)
	default:
		action = fmt.Sprintf("replace %d with %q", edit.Remove, edit.Insert)
	}
	return fmt.Sprintf("  %s  %s\n", location, s.Edit.Render(action))
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, editCount int) string {
	header := s.FilePath.Render(path)
	if editCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", editCount, plural(editCount, "edit", "edits")))
	}
	return header
}
