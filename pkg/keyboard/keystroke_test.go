package keyboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/plainedit/pkg/document"
	"github.com/yaklabco/plainedit/pkg/keyboard"
)

func TestClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ks       keyboard.Keystroke
		expected keyboard.Class
	}{
		{"letter", keyboard.FromRune('a'), keyboard.ClassDefault},
		{"uppercase", keyboard.FromRune('Q'), keyboard.ClassDefault},
		{"punctuation", keyboard.FromRune(';'), keyboard.ClassDefault},
		{"space", keyboard.FromRune(' '), keyboard.ClassWhitespace},
		{"tab", keyboard.FromRune('\t'), keyboard.ClassWhitespace},
		{"enter", keyboard.FromRune('\n'), keyboard.ClassWhitespace},
		{"numpad enter by code", keyboard.Keystroke{Key: "Enter", Code: keyboard.CodeNumpadEnter}, keyboard.ClassWhitespace},
		{"arrow left", keyboard.Keystroke{Key: keyboard.KeyArrowLeft}, keyboard.ClassMovement},
		{"shift end", keyboard.Keystroke{Key: keyboard.KeyEnd, Shift: true}, keyboard.ClassMovement},
		{"backspace", keyboard.Keystroke{Key: keyboard.KeyBackspace}, keyboard.ClassMeta},
		{"escape", keyboard.Keystroke{Key: keyboard.KeyEscape}, keyboard.ClassMeta},
		{"function key", keyboard.Keystroke{Key: "F5"}, keyboard.ClassMeta},
		{"ctrl chord", keyboard.Keystroke{Key: "s", Ctrl: true}, keyboard.ClassMeta},
		{"ctrl space", keyboard.Keystroke{Key: " ", Code: keyboard.CodeSpace, Ctrl: true}, keyboard.ClassMeta},
		{"raw newline", keyboard.Keystroke{Key: "\n"}, keyboard.ClassWhitespace},
		{"raw crlf", keyboard.Keystroke{Key: "\r\n"}, keyboard.ClassWhitespace},
		{"raw carriage return", keyboard.Keystroke{Key: "\r"}, keyboard.ClassMeta},
		{"nul", keyboard.Keystroke{Key: "\x00"}, keyboard.ClassMeta},
		{"bell from rune", keyboard.FromRune('\a'), keyboard.ClassMeta},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, testCase.ks.Class())
		})
	}
}

func TestWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, document.WhitespaceSpace, keyboard.FromRune(' ').Whitespace())
	assert.Equal(t, document.WhitespaceTab, keyboard.FromRune('\t').Whitespace())
	assert.Equal(t, document.WhitespaceNewLine, keyboard.FromRune('\n').Whitespace())
	assert.Equal(t, document.WhitespaceNone, keyboard.FromRune('x').Whitespace())
	assert.Equal(t, document.WhitespaceNewLine, keyboard.Keystroke{Key: "\n"}.Whitespace())
	assert.Equal(t, document.WhitespaceNewLine, keyboard.Keystroke{Key: "\r\n"}.Whitespace())
}

func TestFromText(t *testing.T) {
	t.Parallel()

	keys := keyboard.FromText("a\r\nb\rc", true)

	require.Len(t, keys, 4)
	assert.Equal(t, "a", keys[0].Key)
	assert.Equal(t, keyboard.KeyEnter, keys[1].Key)
	assert.Equal(t, "b", keys[2].Key)
	assert.Equal(t, "c", keys[3].Key)
	for _, ks := range keys {
		assert.True(t, ks.Forced)
	}
}

func TestParseScript(t *testing.T) {
	t.Parallel()

	keys, err := keyboard.ParseScript("hi{Enter}{backspace}{{}x{Ctrl+s}")
	require.NoError(t, err)

	require.Len(t, keys, 7)
	assert.Equal(t, "h", keys[0].Key)
	assert.Equal(t, "i", keys[1].Key)
	assert.Equal(t, keyboard.KeyEnter, keys[2].Key)
	assert.Equal(t, keyboard.KeyBackspace, keys[3].Key)
	assert.Equal(t, "{", keys[4].Key)
	assert.Equal(t, "x", keys[5].Key)
	assert.Equal(t, "s", keys[6].Key)
	assert.True(t, keys[6].Ctrl)
}

func TestParseScriptErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		offset int
	}{
		{"unterminated", "ab{Enter", 2},
		{"unknown name", "{Nope}", 0},
		{"unknown modifier", "x{Hyper+a}", 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := keyboard.ParseScript(testCase.script)
			var scriptErr *keyboard.ScriptError
			require.ErrorAs(t, err, &scriptErr)
			assert.Equal(t, testCase.offset, scriptErr.Offset)
		})
	}
}

func TestNamed(t *testing.T) {
	t.Parallel()

	ks, err := keyboard.Named("Shift+Left")
	require.NoError(t, err)
	assert.Equal(t, keyboard.KeyArrowLeft, ks.Key)
	assert.True(t, ks.Shift)

	_, err = keyboard.Named("Nope")
	require.ErrorIs(t, err, keyboard.ErrUnknownKeyName)

	assert.Contains(t, keyboard.KeyNames(), "backspace")
}
