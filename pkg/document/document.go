package document

import (
	"fmt"
	"slices"
	"strings"
)

// Document is an immutable snapshot of an editable text.
type Document struct {
	rows         []*Row
	currentRow   int
	currentToken int
	sequence     Key
	longest      int
}

// New returns an empty document: one row holding only a start-of-row token
// with the cursor on it.
func New() *Document {
	row := NewRow(NewStartOfRow().WithCursor(0))
	return build([]*Row{row}, 0, 0)
}

// FromRows returns a document over rows with the cursor at the given
// indices. Exactly one token must already carry the cursor.
func FromRows(rows []*Row, currentRow, currentToken int) (*Document, error) {
	doc := build(slices.Clone(rows), currentRow, currentToken)
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func build(rows []*Row, currentRow, currentToken int) *Document {
	longest := 0
	for _, row := range rows {
		longest = max(longest, row.Len())
	}
	return &Document{
		rows:         rows,
		currentRow:   currentRow,
		currentToken: currentToken,
		sequence:     NextKey(),
		longest:      longest,
	}
}

// RowCount returns the number of rows. It is never zero.
func (d *Document) RowCount() int { return len(d.rows) }

// Row returns the row at index.
func (d *Document) Row(index int) *Row { return d.rows[index] }

// Rows returns a copy of the row list. The rows themselves are shared.
func (d *Document) Rows() []*Row { return slices.Clone(d.rows) }

// CurrentRowIndex returns the row holding the cursor.
func (d *Document) CurrentRowIndex() int { return d.currentRow }

// CurrentTokenIndex returns the index of the cursor token within its row.
func (d *Document) CurrentTokenIndex() int { return d.currentToken }

// CurrentRow returns the row holding the cursor.
func (d *Document) CurrentRow() *Row { return d.rows[d.currentRow] }

// CurrentToken returns the token holding the cursor.
func (d *Document) CurrentToken() Token { return d.CurrentRow().Token(d.currentToken) }

// SequenceKey returns the revision key, renewed on every transition.
func (d *Document) SequenceKey() Key { return d.sequence }

// LongestRowLength returns the character count of the longest row.
func (d *Document) LongestRowLength() int { return d.longest }

// CurrentTokenStart returns the row column where the current token starts.
func (d *Document) CurrentTokenStart() int {
	return d.CurrentRow().TokenStart(d.currentToken)
}

// CursorColumn returns the row column the cursor sits at: the number of
// characters of the current row before the cursor.
func (d *Document) CursorColumn() int {
	tok := d.CurrentToken()
	if tok.Kind() == KindStartOfRow {
		return 0
	}
	offset, _ := tok.Cursor()
	return d.CurrentTokenStart() + offset + 1
}

// ReplaceCurrentTokenWith returns a document whose current token is tok.
// Only the current row is rebuilt; all other rows are shared.
func (d *Document) ReplaceCurrentTokenWith(tok Token) *Document {
	rows := slices.Clone(d.rows)
	rows[d.currentRow] = d.CurrentRow().ReplaceToken(d.currentToken, tok)
	return build(rows, d.currentRow, d.currentToken)
}

// ReplaceRows returns a document with rows[start:end] replaced by
// replacement and the cursor indices set to currentRow and currentToken.
// The caller is responsible for the cursor flag on the tokens.
func (d *Document) ReplaceRows(start, end int, replacement []*Row, currentRow, currentToken int) *Document {
	rows := make([]*Row, 0, len(d.rows)-(end-start)+len(replacement))
	rows = append(rows, d.rows[:start]...)
	rows = append(rows, replacement...)
	rows = append(rows, d.rows[end:]...)
	return build(rows, currentRow, currentToken)
}

// MoveCursor returns a document with the cursor on the given token and
// offset. Rows not touched by the move are shared.
func (d *Document) MoveCursor(rowIndex, tokenIndex, offset int) (*Document, error) {
	if rowIndex < 0 || rowIndex >= len(d.rows) {
		return nil, fmt.Errorf("row %d of %d: %w", rowIndex, len(d.rows), ErrOutOfRange)
	}
	target := d.rows[rowIndex]
	if tokenIndex < 0 || tokenIndex >= target.TokenCount() {
		return nil, fmt.Errorf("token %d of %d in row %d: %w", tokenIndex, target.TokenCount(), rowIndex, ErrOutOfRange)
	}
	if tok := target.Token(tokenIndex); offset < 0 || offset > tok.LastIndex() {
		return nil, fmt.Errorf("offset %d in %s: %w", offset, tok, ErrOutOfRange)
	}

	rows := slices.Clone(d.rows)
	current := rows[d.currentRow]
	rows[d.currentRow] = current.ReplaceToken(d.currentToken, current.Token(d.currentToken).WithoutCursor())
	target = rows[rowIndex]
	rows[rowIndex] = target.ReplaceToken(tokenIndex, target.Token(tokenIndex).WithCursor(offset))
	return build(rows, rowIndex, tokenIndex), nil
}

// PlainText flattens the document, joining rows with newline.
func (d *Document) PlainText(newline string) string {
	var sb strings.Builder
	for i, row := range d.rows {
		if i > 0 {
			sb.WriteString(newline)
		}
		sb.WriteString(row.Text())
	}
	return sb.String()
}
