package document

import (
	"slices"
	"strings"
)

// Row is an ordered sequence of tokens starting with a start-of-row token.
type Row struct {
	key      Key
	sequence Key
	tokens   []Token
	length   int
}

// NewRow returns a row holding tokens. A start-of-row token is prepended
// when the first token is not one. The tokens slice is copied.
func NewRow(tokens ...Token) *Row {
	if len(tokens) == 0 || tokens[0].Kind() != KindStartOfRow {
		tokens = append([]Token{NewStartOfRow()}, tokens...)
	} else {
		tokens = slices.Clone(tokens)
	}
	return buildRow(NextKey(), tokens)
}

func buildRow(key Key, tokens []Token) *Row {
	length := 0
	for _, tok := range tokens {
		length += tok.Len()
	}
	return &Row{
		key:      key,
		sequence: NextKey(),
		tokens:   tokens,
		length:   length,
	}
}

// Key returns the row identity, stable across modifications.
func (r *Row) Key() Key { return r.key }

// Sequence returns the revision key, renewed on every modification.
func (r *Row) Sequence() Key { return r.sequence }

// TokenCount returns the number of tokens including the start-of-row token.
func (r *Row) TokenCount() int { return len(r.tokens) }

// Token returns the token at index.
func (r *Row) Token(index int) Token { return r.tokens[index] }

// Tokens returns a copy of the row's tokens.
func (r *Row) Tokens() []Token { return slices.Clone(r.tokens) }

// Len returns the number of characters in the row.
func (r *Row) Len() int { return r.length }

// Text returns the row's characters without a line terminator.
func (r *Row) Text() string {
	var sb strings.Builder
	for _, tok := range r.tokens {
		sb.WriteString(tok.Content())
	}
	return sb.String()
}

// WithTokens returns a new revision of the row holding tokens. The key is
// kept and the slice is copied.
func (r *Row) WithTokens(tokens []Token) *Row {
	return buildRow(r.key, slices.Clone(tokens))
}

// ReplaceToken returns a new revision with the token at index replaced.
func (r *Row) ReplaceToken(index int, tok Token) *Row {
	tokens := slices.Clone(r.tokens)
	tokens[index] = tok
	return buildRow(r.key, tokens)
}

// TokenStart returns the column of the first character of the token at
// index, counted from the row start.
func (r *Row) TokenStart(index int) int {
	column := 0
	for _, tok := range r.tokens[:index] {
		column += tok.Len()
	}
	return column
}

// TokenAtColumn returns the token index and cursor offset that place the
// cursor at column. Columns past the row end clamp to the last token.
func (r *Row) TokenAtColumn(column int) (int, int) {
	if column <= 0 || len(r.tokens) == 1 {
		return 0, 0
	}
	start := 0
	for i, tok := range r.tokens {
		if tok.Kind() == KindStartOfRow {
			continue
		}
		if column <= start+tok.Len() {
			return i, column - start - 1
		}
		start += tok.Len()
	}
	last := len(r.tokens) - 1
	return last, r.tokens[last].LastIndex()
}
