package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/plainedit/pkg/batch"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minFileWidth     = 20
	minStatusWidth   = 9
	minEditsWidth    = 5
	minRowsWidth     = 8
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// Outcome statuses shown in the STATUS column.
const (
	StatusWritten   = "written"
	StatusChanged   = "changed"
	StatusUnchanged = "unchanged"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// TableRow represents a single row in the outcome table.
type TableRow struct {
	File   string
	Status string
	Edits  int
	Added  int
	Remove int
	Detail string
}

// OutcomeToTableRow converts a batch outcome to a table row.
func OutcomeToTableRow(outcome batch.FileOutcome) TableRow {
	row := TableRow{File: outcome.Path, Edits: len(outcome.Edits)}
	if outcome.Diff != nil {
		row.Added = outcome.Diff.Additions
		row.Remove = outcome.Diff.Deletions
	}

	switch {
	case outcome.Error != nil:
		row.Status = StatusFailed
		row.Detail = outcome.Error.Error()
	case outcome.Skipped:
		row.Status = StatusSkipped
		row.Detail = outcome.Reason
	case outcome.Written:
		row.Status = StatusWritten
	case outcome.Changed:
		row.Status = StatusChanged
	default:
		row.Status = StatusUnchanged
	}
	return row
}

type columnWidths struct {
	file   int
	status int
	edits  int
	rows   int
}

// TableFormatter formats batch outcomes as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// FormatTable formats batch results as a styled table followed by a one
// line summary.
func (t *TableFormatter) FormatTable(result *batch.Result) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(result.Files))
	for _, outcome := range result.Files {
		rows = append(rows, OutcomeToTableRow(outcome))
	}
	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")
	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}
	builder.WriteString(t.formatSeparator(widths, lightSeparator))
	builder.WriteString("\n")
	builder.WriteString(t.styles.FormatSummaryOneLine(result.Stats))
	return builder.String()
}

// calculateColumnWidths sizes columns to their content, then shrinks the
// file column until the table fits the terminal.
func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		file:   minFileWidth,
		status: minStatusWidth,
		edits:  minEditsWidth,
		rows:   minRowsWidth,
	}
	for _, row := range rows {
		widths.file = max(widths.file, runewidth.StringWidth(row.File))
		widths.edits = max(widths.edits, len(strconv.Itoa(row.Edits)))
		widths.rows = max(widths.rows, len(rowsCell(row)))
	}

	fixed := widths.status + widths.edits + widths.rows + 3*tablePadding
	if fixed+widths.file > t.termWidth {
		widths.file = max(t.termWidth-fixed, minFileWidth)
	}
	return widths
}

func (t *TableFormatter) totalWidth(widths columnWidths) int {
	return widths.file + widths.status + widths.edits + widths.rows + 3*tablePadding
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	pad := strings.Repeat(" ", tablePadding)
	header := padRight("FILE", widths.file) + pad +
		padRight("STATUS", widths.status) + pad +
		padLeft("EDITS", widths.edits) + pad +
		padLeft("ROWS", widths.rows)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, t.totalWidth(widths)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	pad := strings.Repeat(" ", tablePadding)

	line := padRight(TruncatePath(row.File, widths.file), widths.file) + pad +
		t.statusStyle(row.Status).Render(padRight(row.Status, widths.status)) + pad +
		padLeft(strconv.Itoa(row.Edits), widths.edits) + pad +
		padLeft(rowsCell(row), widths.rows)
	if row.Detail != "" {
		line += "\n" + strings.Repeat(" ", tablePadding) + t.styles.Dim.Render(row.Detail)
	}
	return line
}

func (t *TableFormatter) statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusFailed:
		return t.styles.Failure
	case StatusSkipped:
		return t.styles.TableSkipped
	case StatusWritten:
		return t.styles.Success
	case StatusChanged:
		return t.styles.Warning
	default:
		return t.styles.Dim
	}
}

func rowsCell(row TableRow) string {
	return fmt.Sprintf("+%d -%d", row.Added, row.Remove)
}

func padRight(str string, width int) string {
	return runewidth.FillRight(str, width)
}

func padLeft(str string, width int) string {
	return runewidth.FillLeft(str, width)
}
