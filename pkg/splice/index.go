package splice

import (
	"slices"
	"sort"
)

// Index maps rows to rune offsets. It recognizes LF and CRLF terminators;
// a row's length includes its terminator. Content without any newline is a
// single row, so an empty text still has one row.
type Index struct {
	starts  []int
	terms   []int
	total   int
	longest int
}

// BuildIndex scans content once.
func BuildIndex(content []rune) *Index {
	idx := &Index{}
	starts, terms := scanRows(content, 0, len(content), true)
	idx.starts, idx.terms = starts, terms
	idx.total = len(content)
	idx.measure()
	return idx
}

// scanRows returns the row starts and terminator lengths of
// content[from:to]. from must be a row start. When open is set the region
// runs to the end of the content and its last row has no terminator;
// otherwise content[to-1] is the newline ending the region's last row.
func scanRows(content []rune, from, to int, open bool) ([]int, []int) {
	starts := []int{from}
	var terms []int
	for i := from; i < to; i++ {
		if content[i] != '\n' {
			continue
		}
		term := 1
		if i > from && content[i-1] == '\r' {
			term = 2
		}
		terms = append(terms, term)
		if i+1 < to || open {
			starts = append(starts, i+1)
		}
	}
	if open {
		terms = append(terms, 0)
	}
	return starts, terms
}

func (x *Index) measure() {
	x.longest = 0
	for row := range x.starts {
		x.longest = max(x.longest, x.RowLength(row))
	}
}

// RowCount returns the number of rows.
func (x *Index) RowCount() int { return len(x.starts) }

// Len returns the total number of characters indexed.
func (x *Index) Len() int { return x.total }

// Longest returns the length of the longest row, terminator included.
func (x *Index) Longest() int { return x.longest }

// RowStart returns the offset of the first character of row.
func (x *Index) RowStart(row int) int { return x.starts[row] }

// RowLength returns the length of row including its terminator.
func (x *Index) RowLength(row int) int {
	end := x.total
	if row+1 < len(x.starts) {
		end = x.starts[row+1]
	}
	return end - x.starts[row]
}

// Terminator returns the length of row's terminator: 0, 1 or 2.
func (x *Index) Terminator(row int) int { return x.terms[row] }

// TextLength returns the length of row without its terminator.
func (x *Index) TextLength(row int) int {
	return x.RowLength(row) - x.terms[row]
}

// Offset resolves a row/column address. Column may address any character
// of the row including its terminator, or the position just past it.
func (x *Index) Offset(row, column int) (int, error) {
	if row < 0 || row >= len(x.starts) {
		return 0, &RangeError{Row: row, Column: column, Message: "row does not exist"}
	}
	if column < 0 || column > x.RowLength(row) {
		return 0, &RangeError{Row: row, Column: column, Message: "column outside row"}
	}
	return x.starts[row] + column, nil
}

// RowAt returns the row containing offset.
func (x *Index) RowAt(offset int) int {
	row := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
	return max(row, 0)
}

// Splice updates the index after removed characters at offset were replaced
// by inserted characters. content is the text after the change.
func (x *Index) Splice(content []rune, offset, removed, inserted int) {
	first := x.RowAt(offset)
	end := offset + removed
	keep := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > end })
	delta := inserted - removed

	open := keep == len(x.starts)
	to := len(content)
	if !open {
		to = x.starts[keep] + delta
	}
	shrunk := false
	for row := first; row < keep; row++ {
		if x.RowLength(row) == x.longest {
			shrunk = true
			break
		}
	}
	starts, terms := scanRows(content, x.starts[first], to, open)

	tailStarts := slices.Clone(x.starts[keep:])
	for i := range tailStarts {
		tailStarts[i] += delta
	}

	x.starts = slices.Concat(x.starts[:first], starts, tailStarts)
	x.terms = slices.Concat(x.terms[:first], terms, x.terms[keep:])
	x.total = len(content)

	// Only the rescanned rows changed length. A full pass is needed only when
	// one of the replaced rows held the maximum and nothing new reaches it.
	longest := 0
	for row := first; row < first+len(starts); row++ {
		longest = max(longest, x.RowLength(row))
	}
	switch {
	case longest >= x.longest:
		x.longest = longest
	case shrunk:
		x.measure()
	}
}
