package editor

import (
	"github.com/yaklabco/plainedit/pkg/document"
	"github.com/yaklabco/plainedit/pkg/keyboard"
)

func (m *Machine) handleMeta(doc *document.Document, ks keyboard.Keystroke) (*document.Document, effect, error) {
	if ks.Ctrl || ks.Alt {
		return doc, effect{}, nil
	}
	switch ks.Key {
	case keyboard.KeyBackspace:
		return m.backspace(doc)
	case keyboard.KeyDelete:
		return m.deleteForward(doc)
	default:
		return doc, effect{}, nil
	}
}

// backspace removes the character before the cursor. At the start of a row
// the row is merged into the end of the previous one.
func (m *Machine) backspace(doc *document.Document) (*document.Document, effect, error) {
	offset, err := cursorOf(doc)
	if err != nil {
		return nil, effect{}, err
	}

	cur := doc.CurrentToken()
	if cur.Kind() == document.KindStartOfRow {
		if doc.CurrentRowIndex() == 0 {
			return doc, effect{}, nil
		}
		return m.mergeWithPreviousRow(doc)
	}

	r := doc.CurrentRowIndex()
	index := doc.CurrentTokenIndex()
	eff := removeAt(r, doc.CursorColumn()-1, 1)
	content := removeRune(cur.Content(), offset)
	tokens := doc.CurrentRow().Tokens()

	switch {
	case content != "" && offset > 0:
		return doc.ReplaceCurrentTokenWith(cur.WithContent(content).WithCursor(offset - 1)), eff, nil
	case content != "":
		tokens[index] = cur.WithContent(content).WithoutCursor()
	default:
		tokens = splice(tokens, index, index+1)
	}

	prev := index - 1
	at := tokens[prev].LastIndex()
	tokens = mergeDefaults(tokens, prev)
	tokens[prev] = tokens[prev].WithCursor(at)
	return replaceCurrentRow(doc, tokens, prev), eff, nil
}

// mergeWithPreviousRow appends the current row's tokens to the previous row
// and puts the cursor where the two rows meet.
func (m *Machine) mergeWithPreviousRow(doc *document.Document) (*document.Document, effect, error) {
	r := doc.CurrentRowIndex()
	above := doc.Row(r - 1)
	eff := joinRows(r-1, above.Len())

	tokens := above.Tokens()
	join := len(tokens) - 1
	at := tokens[join].LastIndex()
	tokens = append(tokens, doc.CurrentRow().Tokens()[1:]...)
	tokens = mergeDefaults(tokens, join)
	tokens[join] = tokens[join].WithCursor(at)

	merged := above.WithTokens(tokens)
	return doc.ReplaceRows(r-1, r+1, []*document.Row{merged}, r-1, join), eff, nil
}

// deleteForward removes the character after the cursor. It is a no-op at the
// end of the document.
func (m *Machine) deleteForward(doc *document.Document) (*document.Document, effect, error) {
	if atDocumentEnd(doc) {
		return doc, effect{}, nil
	}
	moved, err := handleMovement(doc, keyboard.Keystroke{Key: keyboard.KeyArrowRight})
	if err != nil {
		return nil, effect{}, err
	}
	return m.backspace(moved)
}

// mergeDefaults joins tokens[index] with tokens[index+1] when both are
// default tokens. The left token keeps its key and index.
func mergeDefaults(tokens []document.Token, index int) []document.Token {
	if index+1 >= len(tokens) {
		return tokens
	}
	left, right := tokens[index], tokens[index+1]
	if left.Kind() != document.KindDefault || right.Kind() != document.KindDefault {
		return tokens
	}
	joined := left.WithContent(left.Content() + right.Content())
	return splice(tokens, index, index+2, joined)
}
