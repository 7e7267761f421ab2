package keyboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownKeyName reports a {Name} escape that names no key.
var ErrUnknownKeyName = errors.New("unknown key name")

// ScriptError describes a malformed keystroke script.
type ScriptError struct {
	Offset  int
	Message string
	Err     error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script offset %d: %s", e.Offset, e.Message)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

//nolint:gochecknoglobals // Static lookup table.
var namedKeys = map[string]Keystroke{
	"enter":     {Key: KeyEnter, Code: CodeEnter},
	"tab":       {Key: KeyTab, Code: CodeTab},
	"space":     {Key: KeySpace, Code: CodeSpace},
	"backspace": {Key: KeyBackspace, Code: "Backspace"},
	"delete":    {Key: KeyDelete, Code: "Delete"},
	"escape":    {Key: KeyEscape, Code: "Escape"},
	"left":      {Key: KeyArrowLeft, Code: "ArrowLeft"},
	"right":     {Key: KeyArrowRight, Code: "ArrowRight"},
	"up":        {Key: KeyArrowUp, Code: "ArrowUp"},
	"down":      {Key: KeyArrowDown, Code: "ArrowDown"},
	"home":      {Key: KeyHome, Code: "Home"},
	"end":       {Key: KeyEnd, Code: "End"},
}

// Named returns the keystroke for a key name such as "Enter" or "Left".
// Names are case-insensitive and may carry "Ctrl+", "Alt+" or "Shift+"
// prefixes.
func Named(name string) (Keystroke, error) {
	var ks Keystroke
	rest := name
	for {
		prefix, tail, found := strings.Cut(rest, "+")
		if !found || tail == "" {
			break
		}
		switch strings.ToLower(prefix) {
		case "ctrl":
			ks.Ctrl = true
		case "alt":
			ks.Alt = true
		case "shift":
			ks.Shift = true
		default:
			return Keystroke{}, fmt.Errorf("%w: modifier %q", ErrUnknownKeyName, prefix)
		}
		rest = tail
	}

	if base, ok := namedKeys[strings.ToLower(rest)]; ok {
		base.Ctrl, base.Alt = ks.Ctrl, ks.Alt
		base.Shift = base.Shift || ks.Shift
		return base, nil
	}
	if runes := []rune(rest); len(runes) == 1 && (ks.Ctrl || ks.Alt) {
		base := FromRune(runes[0])
		base.Ctrl, base.Alt = ks.Ctrl, ks.Alt
		return base, nil
	}
	return Keystroke{}, fmt.Errorf("%w: %q", ErrUnknownKeyName, name)
}

// KeyNames returns the names accepted inside {} escapes, sorted.
func KeyNames() []string {
	names := make([]string, 0, len(namedKeys))
	for name := range namedKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseScript turns a keystroke script into keystrokes.
//
// Characters are typed literally; "\n" presses Enter and "\r" is ignored.
// {Name} presses a named key, for example {Backspace} or {Ctrl+s}, and {{}
// types a literal "{".
func ParseScript(script string) ([]Keystroke, error) {
	var keys []Keystroke
	for offset := 0; offset < len(script); {
		if script[offset] != '{' {
			end := strings.IndexByte(script[offset:], '{')
			if end < 0 {
				end = len(script) - offset
			}
			keys = append(keys, FromText(script[offset:offset+end], false)...)
			offset += end
			continue
		}

		if strings.HasPrefix(script[offset:], "{{}") {
			keys = append(keys, FromRune('{'))
			offset += len("{{}")
			continue
		}

		closing := strings.IndexByte(script[offset:], '}')
		if closing < 0 {
			return nil, &ScriptError{Offset: offset, Message: "unterminated key name"}
		}
		name := script[offset+1 : offset+closing]
		ks, err := Named(name)
		if err != nil {
			return nil, &ScriptError{Offset: offset, Message: err.Error(), Err: err}
		}
		keys = append(keys, ks)
		offset += closing + 1
	}
	return keys, nil
}
