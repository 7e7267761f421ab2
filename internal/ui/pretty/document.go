package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/plainedit/pkg/document"
)

const (
	ellipsis        = "…"
	visibleSpace    = "·"
	visibleTab      = "→"
	gutterSeparator = " │ "
)

// DocumentOptions configures FormatDocument.
type DocumentOptions struct {
	// TabWidth is the tab stop distance. Values below 1 mean 1.
	TabWidth int

	// Width limits each rendered line, gutter included. Zero means no limit.
	Width int

	// LineNumbers prefixes rows with their 1-based number.
	LineNumbers bool

	// ShowWhitespace renders spaces and tabs with visible glyphs.
	ShowWhitespace bool

	// ShowCursor highlights the character after the cursor.
	ShowCursor bool

	// CursorMarker, when set, is inserted at the cursor position instead of
	// highlighting. Useful when colors are off.
	CursorMarker string
}

// FormatDocument renders every row of doc, one output line per row.
func (s *Styles) FormatDocument(doc *document.Document, opts DocumentOptions) string {
	var builder strings.Builder

	gutterWidth := len(strconv.Itoa(doc.RowCount()))
	for index := range doc.RowCount() {
		limit := opts.Width
		if opts.LineNumbers {
			builder.WriteString(s.Gutter.Render(fmt.Sprintf("%*d", gutterWidth, index+1) + gutterSeparator))
			if limit > 0 {
				limit = max(limit-gutterWidth-runewidth.StringWidth(gutterSeparator), 1)
			}
		}

		cursor := -1
		if opts.ShowCursor && index == doc.CurrentRowIndex() {
			cursor = doc.CursorColumn()
		}
		builder.WriteString(s.formatRow(doc.Row(index).Text(), cursor, limit, opts))
		builder.WriteString("\n")
	}
	return builder.String()
}

func (s *Styles) formatRow(text string, cursor, limit int, opts DocumentOptions) string {
	cells := LayoutRow(text, opts.TabWidth)

	budget := limit
	if limit > 0 && DisplayWidth(cells) > limit {
		budget = limit - runewidth.StringWidth(ellipsis)
	}

	var builder strings.Builder
	used := 0
	fits := func(width int) bool {
		return limit <= 0 || used+width <= budget
	}

	for _, cell := range cells {
		if cell.Column == cursor && opts.CursorMarker != "" {
			builder.WriteString(opts.CursorMarker)
			used += runewidth.StringWidth(opts.CursorMarker)
		}
		if !fits(cell.Width) {
			builder.WriteString(s.Dim.Render(ellipsis))
			return builder.String()
		}

		rendered := s.renderCell(cell, opts.ShowWhitespace)
		if cell.Column == cursor && opts.CursorMarker == "" {
			rendered = s.Cursor.Render(plainCell(cell))
		}
		builder.WriteString(rendered)
		used += cell.Width
	}

	if cursor >= len(cells) {
		switch {
		case opts.CursorMarker != "":
			builder.WriteString(opts.CursorMarker)
		case fits(1):
			builder.WriteString(s.Cursor.Render(" "))
		}
	}
	return builder.String()
}

func (s *Styles) renderCell(cell Cell, showWhitespace bool) string {
	switch {
	case showWhitespace && cell.Tab:
		return s.Whitespace.Render(visibleTab + strings.Repeat(" ", cell.Width-1))
	case showWhitespace && cell.Rune == ' ':
		return s.Whitespace.Render(visibleSpace)
	default:
		return plainCell(cell)
	}
}

func plainCell(cell Cell) string {
	if cell.Tab {
		return strings.Repeat(" ", cell.Width)
	}
	return string(cell.Rune)
}

// Truncate shortens str to fit width display columns, marking the cut with
// an ellipsis.
func Truncate(str string, width int) string {
	return runewidth.Truncate(str, width, ellipsis)
}

// TruncatePath shortens a path from the left so the file name stays visible.
func TruncatePath(path string, width int) string {
	if runewidth.StringWidth(path) <= width {
		return path
	}
	if width <= runewidth.StringWidth(ellipsis) {
		return Truncate(path, width)
	}
	runes := []rune(path)
	for i := range runes {
		tail := string(runes[i:])
		if runewidth.StringWidth(ellipsis+tail) <= width {
			return ellipsis + tail
		}
	}
	return ellipsis
}
