package document

import "fmt"

// Validate checks the structural invariants of the document and returns an
// error wrapping ErrInvariant for the first violation found.
func (d *Document) Validate() error {
	if len(d.rows) == 0 {
		return fmt.Errorf("%w: document has no rows", ErrInvariant)
	}
	if d.currentRow < 0 || d.currentRow >= len(d.rows) {
		return fmt.Errorf("%w: current row %d of %d", ErrInvariant, d.currentRow, len(d.rows))
	}

	cursors := 0
	for r, row := range d.rows {
		if row.TokenCount() == 0 {
			return fmt.Errorf("%w: row %d is empty", ErrInvariant, r)
		}
		for i, tok := range row.tokens {
			if err := validateToken(r, i, tok); err != nil {
				return err
			}
			if !tok.HasCursor() {
				continue
			}
			cursors++
			if r != d.currentRow || i != d.currentToken {
				return fmt.Errorf("%w: cursor on row %d token %d, current is row %d token %d",
					ErrInvariant, r, i, d.currentRow, d.currentToken)
			}
		}
	}
	if cursors != 1 {
		return fmt.Errorf("%w: %d tokens hold the cursor", ErrInvariant, cursors)
	}
	return nil
}

func validateToken(rowIndex, index int, tok Token) error {
	isStart := tok.Kind() == KindStartOfRow
	switch {
	case index == 0 && !isStart:
		return fmt.Errorf("%w: row %d does not begin with a start-of-row token", ErrInvariant, rowIndex)
	case index > 0 && isStart:
		return fmt.Errorf("%w: row %d has a start-of-row token at index %d", ErrInvariant, rowIndex, index)
	case !isStart && tok.Len() == 0:
		return fmt.Errorf("%w: row %d token %d is empty", ErrInvariant, rowIndex, index)
	case tok.Whitespace() == WhitespaceNewLine:
		return fmt.Errorf("%w: row %d token %d is a newline", ErrInvariant, rowIndex, index)
	}
	if offset, ok := tok.Cursor(); ok && (offset < 0 || offset > tok.LastIndex()) {
		return fmt.Errorf("%w: cursor offset %d outside %s", ErrInvariant, offset, tok)
	}
	return nil
}
