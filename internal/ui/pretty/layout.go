package pretty

import (
	"github.com/mattn/go-runewidth"
)

// Cell is one character of a row laid out for display.
type Cell struct {
	// Rune is the character shown. Tabs show as spaces.
	Rune rune

	// Column is the row column of the source character.
	Column int

	// X is the display column the cell starts at.
	X int

	// Width is the number of display columns the cell covers.
	Width int

	// Tab is set when the cell comes from a tab.
	Tab bool
}

// LayoutRow lays out text for display. A tab covers the columns up to the
// next multiple of tabWidth; wide characters cover two columns.
func LayoutRow(text string, tabWidth int) []Cell {
	if tabWidth < 1 {
		tabWidth = 1
	}

	cells := make([]Cell, 0, len(text))
	x, column := 0, 0
	for _, r := range text {
		switch {
		case r == '\t':
			span := tabWidth - x%tabWidth
			cells = append(cells, Cell{Rune: ' ', Column: column, X: x, Width: span, Tab: true})
			x += span
		default:
			width := runewidth.RuneWidth(r)
			if width == 0 {
				// Control and combining characters still take a cell so
				// every column stays addressable.
				width = 1
				if r < ' ' {
					r = '?'
				}
			}
			cells = append(cells, Cell{Rune: r, Column: column, X: x, Width: width})
			x += width
		}
		column++
	}
	return cells
}

// DisplayX returns the display column of row column in cells. Columns past
// the last cell map to the end of the row.
func DisplayX(cells []Cell, column int) int {
	if column < len(cells) {
		return cells[max(column, 0)].X
	}
	return DisplayWidth(cells)
}

// DisplayWidth returns the total display width of cells.
func DisplayWidth(cells []Cell) int {
	if len(cells) == 0 {
		return 0
	}
	last := cells[len(cells)-1]
	return last.X + last.Width
}

// ColumnAt maps display column x back to a row column. Positions inside a
// wide cell or a tab resolve to that cell; positions past the end resolve
// to the row length.
func ColumnAt(cells []Cell, x int) int {
	for _, cell := range cells {
		if x < cell.X+cell.Width {
			return cell.Column
		}
	}
	return len(cells)
}
