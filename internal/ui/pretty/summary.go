package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/plainedit/pkg/batch"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files changed (+4 -1 rows, 12 edits), 2 written, 1 skipped".
func (s *Styles) FormatSummaryOneLine(stats batch.Stats) string {
	if stats.FilesChanged == 0 && stats.FilesErrored == 0 {
		msg := s.Success.Render("No changes") + s.Dim.Render(fmt.Sprintf(" (%d %s processed)",
			stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles)))
		if stats.FilesSkipped > 0 {
			msg += ", " + s.TableSkipped.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped))
		}
		return msg + "\n"
	}

	var parts []string

	changed := fmt.Sprintf("%d %s changed", stats.FilesChanged, plural(stats.FilesChanged, wordFile, wordFiles))
	detail := []string{
		s.DiffAdd.Render(fmt.Sprintf("+%d", stats.RowsAdded)) + " " +
			s.DiffRemove.Render(fmt.Sprintf("-%d", stats.RowsRemoved)) + " rows",
		fmt.Sprintf("%d %s", stats.EditsTotal, plural(stats.EditsTotal, "edit", "edits")),
	}
	parts = append(parts, changed+" ("+strings.Join(detail, ", ")+")")

	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.TableSkipped.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats batch.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files discovered:  " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files processed:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesChanged > 0 {
		builder.WriteString("  Files changed:     " +
			s.SummaryValue.Render(strconv.Itoa(stats.FilesChanged)) + "\n")
	}
	if stats.FilesWritten > 0 {
		builder.WriteString("  Files written:     " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " +
			s.TableSkipped.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")

	builder.WriteString("  Edits applied:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.EditsTotal)) + "\n")
	builder.WriteString("    Rows added:      " +
		s.DiffAdd.Render(strconv.Itoa(stats.RowsAdded)) + "\n")
	builder.WriteString("    Rows removed:    " +
		s.DiffRemove.Render(strconv.Itoa(stats.RowsRemoved)) + "\n")

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Replay failed"))
	case stats.FilesChanged > stats.FilesWritten:
		builder.WriteString(s.Warning.Render("Replay completed, changes not written"))
	default:
		builder.WriteString(s.Success.Render("Replay completed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
