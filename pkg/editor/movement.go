package editor

import (
	"github.com/yaklabco/plainedit/pkg/document"
	"github.com/yaklabco/plainedit/pkg/keyboard"
)

// position addresses a cursor location.
type position struct {
	row, token, offset int
}

func handleMovement(doc *document.Document, ks keyboard.Keystroke) (*document.Document, error) {
	offset, err := cursorOf(doc)
	if err != nil {
		return nil, err
	}
	at := position{row: doc.CurrentRowIndex(), token: doc.CurrentTokenIndex(), offset: offset}

	var (
		to position
		ok bool
	)
	switch ks.Key {
	case keyboard.KeyArrowLeft:
		to, ok = previousPosition(doc, at)
	case keyboard.KeyArrowRight:
		to, ok = nextPosition(doc, at)
	case keyboard.KeyArrowUp:
		to, ok = verticalPosition(doc, at.row-1)
	case keyboard.KeyArrowDown:
		to, ok = verticalPosition(doc, at.row+1)
	case keyboard.KeyHome:
		to, ok = position{row: at.row}, true
	case keyboard.KeyEnd:
		row := doc.CurrentRow()
		last := row.TokenCount() - 1
		to, ok = position{row: at.row, token: last, offset: row.Token(last).LastIndex()}, true
	}
	if !ok || to == at {
		return doc, nil
	}
	return doc.MoveCursor(to.row, to.token, to.offset)
}

// previousPosition steps one character back. The start of the first row is
// absorbing.
func previousPosition(doc *document.Document, at position) (position, bool) {
	row := doc.Row(at.row)
	if row.Token(at.token).IsText() && at.offset > 0 {
		return position{row: at.row, token: at.token, offset: at.offset - 1}, true
	}
	if at.token > 0 {
		prev := at.token - 1
		return position{row: at.row, token: prev, offset: row.Token(prev).LastIndex()}, true
	}
	if at.row > 0 {
		above := doc.Row(at.row - 1)
		last := above.TokenCount() - 1
		return position{row: at.row - 1, token: last, offset: above.Token(last).LastIndex()}, true
	}
	return at, false
}

// nextPosition steps one character forward. The end of the last row is
// absorbing.
func nextPosition(doc *document.Document, at position) (position, bool) {
	row := doc.Row(at.row)
	if tok := row.Token(at.token); tok.IsText() && at.offset < tok.LastIndex() {
		return position{row: at.row, token: at.token, offset: at.offset + 1}, true
	}
	if at.token+1 < row.TokenCount() {
		return position{row: at.row, token: at.token + 1}, true
	}
	if at.row+1 < doc.RowCount() {
		return position{row: at.row + 1}, true
	}
	return at, false
}

// verticalPosition keeps the cursor column on an adjacent row, clamped to
// that row's end.
func verticalPosition(doc *document.Document, target int) (position, bool) {
	if target < 0 || target >= doc.RowCount() {
		return position{}, false
	}
	token, offset := doc.Row(target).TokenAtColumn(doc.CursorColumn())
	return position{row: target, token: token, offset: offset}, true
}

func atDocumentEnd(doc *document.Document) bool {
	if doc.CurrentRowIndex() != doc.RowCount()-1 {
		return false
	}
	row := doc.CurrentRow()
	return doc.CurrentTokenIndex() == row.TokenCount()-1 && doc.CurrentToken().AtEnd()
}
