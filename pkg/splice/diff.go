package splice

import (
	"fmt"
	"strings"
)

// contextRows is the number of unchanged rows shown around a change.
const contextRows = 3

// LineKind tells whether a diff line is kept, added, or removed.
type LineKind uint8

const (
	LineKeep LineKind = iota
	LineAdd
	LineRemove
)

// Line is one row of a hunk.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk is a contiguous group of changes with surrounding context.
// Starts are 1-based row numbers.
type Hunk struct {
	BeforeStart int
	BeforeCount int
	AfterStart  int
	AfterCount  int
	Lines       []Line
}

// Unified is a row-level diff between two texts.
type Unified struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// Diff compares before and after row by row. It returns nil when the rows
// are identical. Row terminators are not compared, so a change from LF to
// CRLF alone produces no diff.
func Diff(path, before, after string) *Unified {
	a, b := rowsOf(before), rowsOf(after)
	ops := diffRows(a, b)

	unified := &Unified{Path: path}
	for _, op := range ops {
		switch op.Kind {
		case LineAdd:
			unified.Additions++
		case LineRemove:
			unified.Deletions++
		}
	}
	if unified.Additions == 0 && unified.Deletions == 0 {
		return nil
	}
	unified.Hunks = hunksOf(ops)
	return unified
}

func rowsOf(text string) []string {
	if text == "" {
		return nil
	}
	rows := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// diffRows walks an LCS table to produce keep/add/remove operations.
func diffRows(a, b []string) []Line {
	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	ops := make([]Line, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			ops = append(ops, Line{Kind: LineKeep, Text: a[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			ops = append(ops, Line{Kind: LineRemove, Text: a[i]})
			i++
		default:
			ops = append(ops, Line{Kind: LineAdd, Text: b[j]})
			j++
		}
	}
	for ; i < len(a); i++ {
		ops = append(ops, Line{Kind: LineRemove, Text: a[i]})
	}
	for ; j < len(b); j++ {
		ops = append(ops, Line{Kind: LineAdd, Text: b[j]})
	}
	return ops
}

func hunksOf(ops []Line) []Hunk {
	var hunks []Hunk
	beforeRow, afterRow := 1, 1

	for start := 0; start < len(ops); {
		if ops[start].Kind == LineKeep {
			beforeRow++
			afterRow++
			start++
			continue
		}

		// Extend the change while the next change is within two context windows.
		end := start
		for next := start; next < len(ops); next++ {
			if ops[next].Kind != LineKeep {
				end = next + 1
			} else if next-end >= 2*contextRows {
				break
			}
		}

		from := max(start-contextRows, 0)
		to := min(end+contextRows, len(ops))
		lead := start - from

		hunk := Hunk{BeforeStart: beforeRow - lead, AfterStart: afterRow - lead}
		for _, op := range ops[from:to] {
			hunk.Lines = append(hunk.Lines, op)
			if op.Kind != LineAdd {
				hunk.BeforeCount++
			}
			if op.Kind != LineRemove {
				hunk.AfterCount++
			}
		}
		hunks = append(hunks, hunk)

		for _, op := range ops[start:to] {
			if op.Kind != LineAdd {
				beforeRow++
			}
			if op.Kind != LineRemove {
				afterRow++
			}
		}
		start = to
	}
	return hunks
}

func (u *Unified) String() string {
	if u == nil {
		return ""
	}
	path := strings.TrimPrefix(u.Path, "/")

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, hunk := range u.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", hunk.BeforeStart, hunk.BeforeCount, hunk.AfterStart, hunk.AfterCount)
		for _, line := range hunk.Lines {
			switch line.Kind {
			case LineKeep:
				sb.WriteByte(' ')
			case LineAdd:
				sb.WriteByte('+')
			case LineRemove:
				sb.WriteByte('-')
			}
			sb.WriteString(line.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
