package editor

import (
	"github.com/yaklabco/plainedit/pkg/document"
	"github.com/yaklabco/plainedit/pkg/keyboard"
)

// handleDefault inserts a printable character. The cases are tried in order:
//  1. the current token is a default token: splice the character in;
//  2. the cursor ends a non-default token followed by a default token on the
//     same row: prepend the character to that token;
//  3. the cursor sits inside a non-default token: split it around a new
//     one-character default token;
//  4. otherwise insert a new one-character default token after the current one.
func handleDefault(doc *document.Document, ks keyboard.Keystroke) (*document.Document, effect, error) {
	offset, err := cursorOf(doc)
	if err != nil {
		return nil, effect{}, err
	}

	cur := doc.CurrentToken()
	row := doc.CurrentRow()
	index := doc.CurrentTokenIndex()
	eff := insertAt(doc.CurrentRowIndex(), doc.CursorColumn(), ks.Key)

	if cur.Kind() == document.KindDefault {
		content := insertRunes(cur.Content(), offset+1, ks.Key)
		return doc.ReplaceCurrentTokenWith(cur.WithContent(content).WithCursor(offset + 1)), eff, nil
	}

	tokens := row.Tokens()
	if cur.AtEnd() && index+1 < len(tokens) && tokens[index+1].Kind() == document.KindDefault {
		next := tokens[index+1]
		tokens[index] = cur.WithoutCursor()
		tokens[index+1] = next.WithContent(ks.Key + next.Content()).WithCursor(0)
		return replaceCurrentRow(doc, tokens, index+1), eff, nil
	}

	inserted := document.NewDefault(ks.Key).WithCursor(0)
	if !cur.AtEnd() {
		left, right := cur.Split(offset)
		tokens = splice(tokens, index, index+1, left, inserted, right)
		return replaceCurrentRow(doc, tokens, index+1), eff, nil
	}

	tokens[index] = cur.WithoutCursor()
	tokens = splice(tokens, index+1, index+1, inserted)
	return replaceCurrentRow(doc, tokens, index+1), eff, nil
}

func (m *Machine) handleWhitespace(doc *document.Document, ks keyboard.Keystroke) (*document.Document, effect, error) {
	ws := ks.Whitespace()
	if ws == document.WhitespaceNewLine {
		return m.insertNewLine(doc)
	}
	return insertWhitespace(doc, ws)
}

// insertWhitespace places a single whitespace token at the cursor, splitting
// the current token when the cursor is inside it.
func insertWhitespace(doc *document.Document, ws document.Whitespace) (*document.Document, effect, error) {
	offset, err := cursorOf(doc)
	if err != nil {
		return nil, effect{}, err
	}

	cur := doc.CurrentToken()
	index := doc.CurrentTokenIndex()
	tokens := doc.CurrentRow().Tokens()
	inserted := document.NewWhitespace(ws).WithCursor(0)
	eff := insertAt(doc.CurrentRowIndex(), doc.CursorColumn(), ws.Text())

	if cur.AtEnd() {
		tokens[index] = cur.WithoutCursor()
		tokens = splice(tokens, index+1, index+1, inserted)
	} else {
		left, right := cur.Split(offset)
		tokens = splice(tokens, index, index+1, left, inserted, right)
	}
	return replaceCurrentRow(doc, tokens, index+1), eff, nil
}

// insertNewLine ends the current row at the cursor. Tokens after the cursor
// move to a new row whose start-of-row token takes the cursor.
func (m *Machine) insertNewLine(doc *document.Document) (*document.Document, effect, error) {
	offset, err := cursorOf(doc)
	if err != nil {
		return nil, effect{}, err
	}

	r := doc.CurrentRowIndex()
	cur := doc.CurrentToken()
	index := doc.CurrentTokenIndex()
	tokens := doc.CurrentRow().Tokens()
	eff := insertAt(r, doc.CursorColumn(), m.newline)

	var before, after []document.Token
	if cur.AtEnd() {
		before = append(tokens[:index:index], cur.WithoutCursor())
		after = tokens[index+1:]
	} else {
		left, right := cur.Split(offset)
		before = append(tokens[:index:index], left)
		after = append([]document.Token{right}, tokens[index+1:]...)
	}

	head := doc.CurrentRow().WithTokens(before)
	tail := document.NewRow(append([]document.Token{document.NewStartOfRow().WithCursor(0)}, after...)...)
	return doc.ReplaceRows(r, r+1, []*document.Row{head, tail}, r+1, 0), eff, nil
}
