// Package document implements the immutable token/row model of an editable
// plain text document.
//
// Every value in this package is treated as immutable once constructed.
// Modifications return new values and share everything that did not change,
// so an older *Document stays valid as a snapshot.
package document

import (
	"fmt"
	"unicode/utf8"
)

// Kind classifies a token.
type Kind uint8

const (
	// KindStartOfRow marks the beginning of a row. It carries no text.
	KindStartOfRow Kind = iota

	// KindDefault is a run of non-whitespace characters.
	KindDefault

	// KindWhitespace is a single whitespace character.
	KindWhitespace
)

func (k Kind) String() string {
	switch k {
	case KindStartOfRow:
		return "start-of-row"
	case KindDefault:
		return "default"
	case KindWhitespace:
		return "whitespace"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Whitespace is the sub-kind of a whitespace token.
type Whitespace uint8

const (
	WhitespaceNone Whitespace = iota
	WhitespaceSpace
	WhitespaceTab
	WhitespaceNewLine
)

func (w Whitespace) String() string {
	switch w {
	case WhitespaceNone:
		return "none"
	case WhitespaceSpace:
		return "space"
	case WhitespaceTab:
		return "tab"
	case WhitespaceNewLine:
		return "newline"
	default:
		return fmt.Sprintf("whitespace(%d)", uint8(w))
	}
}

// Text returns the character a whitespace sub-kind stands for.
func (w Whitespace) Text() string {
	switch w {
	case WhitespaceSpace:
		return " "
	case WhitespaceTab:
		return "\t"
	case WhitespaceNewLine:
		return "\n"
	default:
		return ""
	}
}

// Token is the smallest unit of a row.
//
// Exactly one token in a document carries a cursor offset. The offset is the
// inclusive index of the character after which the cursor sits; a
// start-of-row token holds offset 0 meaning "row start".
type Token struct {
	key        Key
	kind       Kind
	whitespace Whitespace
	content    string
	length     int
	cursor     int
	hasCursor  bool
}

// NewStartOfRow returns a start-of-row token without a cursor.
func NewStartOfRow() Token {
	return Token{key: NextKey(), kind: KindStartOfRow}
}

// NewDefault returns a default token holding content.
func NewDefault(content string) Token {
	return Token{
		key:     NextKey(),
		kind:    KindDefault,
		content: content,
		length:  utf8.RuneCountInString(content),
	}
}

// NewWhitespace returns a single-character whitespace token.
func NewWhitespace(ws Whitespace) Token {
	text := ws.Text()
	return Token{
		key:        NextKey(),
		kind:       KindWhitespace,
		whitespace: ws,
		content:    text,
		length:     utf8.RuneCountInString(text),
	}
}

// Key returns the token identity. It survives WithContent and WithCursor.
func (t Token) Key() Key { return t.key }

// Kind returns the token kind.
func (t Token) Kind() Kind { return t.kind }

// Whitespace returns the whitespace sub-kind, or WhitespaceNone.
func (t Token) Whitespace() Whitespace { return t.whitespace }

// Content returns the literal text of the token.
func (t Token) Content() string { return t.content }

// Len returns the number of characters in the token.
func (t Token) Len() int { return t.length }

// IsText reports whether the token holds characters.
func (t Token) IsText() bool { return t.kind != KindStartOfRow }

// Cursor returns the cursor offset and whether the token holds the cursor.
func (t Token) Cursor() (int, bool) { return t.cursor, t.hasCursor }

// HasCursor reports whether the token holds the cursor.
func (t Token) HasCursor() bool { return t.hasCursor }

// LastIndex returns the offset that places the cursor after the last
// character. A start-of-row token returns 0.
func (t Token) LastIndex() int {
	if t.kind == KindStartOfRow {
		return 0
	}
	return t.length - 1
}

// AtEnd reports whether the cursor sits after the last character.
func (t Token) AtEnd() bool {
	return t.hasCursor && t.cursor == t.LastIndex()
}

// WithCursor returns a copy of the token holding the cursor at offset.
func (t Token) WithCursor(offset int) Token {
	t.cursor = offset
	t.hasCursor = true
	return t
}

// WithoutCursor returns a copy of the token with the cursor cleared.
func (t Token) WithoutCursor() Token {
	t.cursor = 0
	t.hasCursor = false
	return t
}

// WithContent returns a copy of the token holding content. The key is kept.
func (t Token) WithContent(content string) Token {
	t.content = content
	t.length = utf8.RuneCountInString(content)
	return t
}

// Split cuts a text token after the character at offset. The left half keeps
// the token key; the right half gets a new one. Neither half holds the cursor.
func (t Token) Split(offset int) (Token, Token) {
	runes := []rune(t.content)
	left := t.WithoutCursor().WithContent(string(runes[:offset+1]))
	right := t.WithoutCursor().WithContent(string(runes[offset+1:]))
	right.key = NextKey()
	return left, right
}

func (t Token) String() string {
	cursor := ""
	if t.hasCursor {
		cursor = fmt.Sprintf("@%d", t.cursor)
	}
	if t.kind == KindWhitespace {
		return fmt.Sprintf("%s(%s)%s", t.kind, t.whitespace, cursor)
	}
	return fmt.Sprintf("%s(%q)%s", t.kind, t.content, cursor)
}
