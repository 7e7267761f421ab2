package splice_test

import (
	"testing"
	"unicode/utf8"

	"github.com/yaklabco/plainedit/pkg/splice"
)

// FuzzIndexSplice checks that incremental index maintenance agrees with a
// full rebuild of the edited text.
func FuzzIndexSplice(f *testing.F) {
	f.Add("abc\r\ndef", 1, 0, "X")
	f.Add("ab\ncd\nef", 2, 3, "")
	f.Add("a\r\nb", 1, 1, "\n")
	f.Add("", 0, 0, "\r\n\r\n")
	f.Add("x\ny", 1, 0, "\r")
	f.Add("one\ntwo\n", 4, 4, "z\n")

	f.Fuzz(func(t *testing.T, content string, offset, removed int, inserted string) {
		if !utf8.ValidString(content) || !utf8.ValidString(inserted) {
			return
		}
		runes := []rune(content)
		if offset < 0 || removed < 0 || offset > len(runes) || removed > len(runes)-offset {
			return
		}

		idx := splice.BuildIndex(runes)
		ins := []rune(inserted)
		next := make([]rune, 0, len(runes)-removed+len(ins))
		next = append(next, runes[:offset]...)
		next = append(next, ins...)
		next = append(next, runes[offset+removed:]...)
		idx.Splice(next, offset, removed, len(ins))

		want := splice.BuildIndex(next)
		if idx.RowCount() != want.RowCount() {
			t.Fatalf("row count = %d, want %d", idx.RowCount(), want.RowCount())
		}
		for row := range want.RowCount() {
			if idx.RowStart(row) != want.RowStart(row) {
				t.Errorf("row %d start = %d, want %d", row, idx.RowStart(row), want.RowStart(row))
			}
			if idx.Terminator(row) != want.Terminator(row) {
				t.Errorf("row %d terminator = %d, want %d", row, idx.Terminator(row), want.Terminator(row))
			}
		}
		if idx.Longest() != want.Longest() {
			t.Errorf("longest = %d, want %d", idx.Longest(), want.Longest())
		}
	})
}
