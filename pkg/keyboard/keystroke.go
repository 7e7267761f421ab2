// Package keyboard describes key-down events and classifies them for the
// edit state machine.
package keyboard

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/plainedit/pkg/document"
)

// Key names, following the KeyboardEvent.key vocabulary.
const (
	KeyEnter      = "Enter"
	KeyTab        = "Tab"
	KeySpace      = " "
	KeyBackspace  = "Backspace"
	KeyDelete     = "Delete"
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyHome       = "Home"
	KeyEnd        = "End"
)

// Physical key codes used for whitespace classification.
const (
	CodeSpace       = "Space"
	CodeTab         = "Tab"
	CodeEnter       = "Enter"
	CodeNumpadEnter = "NumpadEnter"
)

// Class is the dispatch category of a keystroke.
type Class uint8

const (
	ClassDefault Class = iota
	ClassWhitespace
	ClassMovement
	ClassMeta
)

func (c Class) String() string {
	switch c {
	case ClassWhitespace:
		return "whitespace"
	case ClassMovement:
		return "movement"
	case ClassMeta:
		return "meta"
	default:
		return "default"
	}
}

// Keystroke is a single key-down event.
//
// Forced keystrokes update the document without touching the backing store;
// they are used when loading a file into an editor.
type Keystroke struct {
	Key    string
	Code   string
	Shift  bool
	Ctrl   bool
	Alt    bool
	Forced bool
}

// Class returns the dispatch category. Whitespace wins over movement, which
// wins over meta; anything left is a default character insert. A raw "\n"
// or "\r\n" key is Enter, and any other control character is meta so it
// never lands inside a token.
func (k Keystroke) Class() Class {
	switch {
	case k.isWhitespace():
		return ClassWhitespace
	case isMovementKey(k.Key):
		return ClassMovement
	case k.Ctrl || k.Alt || utf8.RuneCountInString(k.Key) != 1 || isControlKey(k.Key):
		return ClassMeta
	default:
		return ClassDefault
	}
}

func (k Keystroke) isWhitespace() bool {
	if k.Ctrl || k.Alt {
		return false
	}
	switch k.Code {
	case CodeSpace, CodeTab, CodeEnter, CodeNumpadEnter:
		return true
	}
	switch k.Key {
	case KeySpace, KeyTab, KeyEnter, "\t", "\n", "\r\n":
		return true
	}
	return false
}

func isControlKey(key string) bool {
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.IsControl(r)
}

func isMovementKey(key string) bool {
	switch key {
	case KeyArrowLeft, KeyArrowRight, KeyArrowUp, KeyArrowDown, KeyHome, KeyEnd:
		return true
	}
	return false
}

// Whitespace returns the whitespace sub-kind a whitespace keystroke inserts.
func (k Keystroke) Whitespace() document.Whitespace {
	switch {
	case k.Key == KeyEnter || k.Key == "\n" || k.Key == "\r\n" ||
		k.Code == CodeEnter || k.Code == CodeNumpadEnter:
		return document.WhitespaceNewLine
	case k.Key == KeyTab || k.Key == "\t" || k.Code == CodeTab:
		return document.WhitespaceTab
	case k.Key == KeySpace || k.Code == CodeSpace:
		return document.WhitespaceSpace
	default:
		return document.WhitespaceNone
	}
}

// AsForced returns a copy of the keystroke with Forced set.
func (k Keystroke) AsForced() Keystroke {
	k.Forced = true
	return k
}

func (k Keystroke) String() string {
	var sb strings.Builder
	if k.Ctrl {
		sb.WriteString("Ctrl+")
	}
	if k.Alt {
		sb.WriteString("Alt+")
	}
	if k.Shift && utf8.RuneCountInString(k.Key) != 1 {
		sb.WriteString("Shift+")
	}
	switch k.Key {
	case KeySpace:
		sb.WriteString("Space")
	default:
		sb.WriteString(k.Key)
	}
	return sb.String()
}

// FromRune returns the keystroke that types r. Newline, tab and space map to
// their named keys.
func FromRune(r rune) Keystroke {
	switch r {
	case '\n':
		return Keystroke{Key: KeyEnter, Code: CodeEnter}
	case '\t':
		return Keystroke{Key: KeyTab, Code: CodeTab}
	case ' ':
		return Keystroke{Key: KeySpace, Code: CodeSpace}
	}

	ks := Keystroke{Key: string(r)}
	switch {
	case r >= 'a' && r <= 'z':
		ks.Code = "Key" + string(unicode.ToUpper(r))
	case r >= 'A' && r <= 'Z':
		ks.Code = "Key" + string(r)
		ks.Shift = true
	case r >= '0' && r <= '9':
		ks.Code = "Digit" + string(r)
	}
	return ks
}

// FromText returns one keystroke per character of text. A carriage return
// directly followed by a newline is folded into it; a lone carriage return is
// dropped.
func FromText(text string, forced bool) []Keystroke {
	keys := make([]Keystroke, 0, len(text))
	for _, r := range text {
		if r == '\r' {
			continue
		}
		ks := FromRune(r)
		ks.Forced = forced
		keys = append(keys, ks)
	}
	return keys
}
