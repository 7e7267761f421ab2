package editor_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/plainedit/pkg/document"
	"github.com/yaklabco/plainedit/pkg/editor"
	"github.com/yaklabco/plainedit/pkg/keyboard"
	"github.com/yaklabco/plainedit/pkg/splice"
)

func press(t *testing.T, machine *editor.Machine, doc *document.Document, script string) *document.Document {
	t.Helper()

	keys, err := keyboard.ParseScript(script)
	require.NoError(t, err)
	next, err := machine.Replay(context.Background(), doc, keys)
	require.NoError(t, err)
	require.NoError(t, next.Validate())
	return next
}

func kinds(row *document.Row) []document.Kind {
	out := make([]document.Kind, 0, row.TokenCount())
	for _, tok := range row.Tokens() {
		out = append(out, tok.Kind())
	}
	return out
}

func contents(row *document.Row) []string {
	out := make([]string, 0, row.TokenCount())
	for _, tok := range row.Tokens()[1:] {
		out = append(out, tok.Content())
	}
	return out
}

func cursor(t *testing.T, doc *document.Document) int {
	t.Helper()

	offset, ok := doc.CurrentToken().Cursor()
	require.True(t, ok)
	return offset
}

func TestTypingIntoEmptyDocument(t *testing.T) {
	t.Parallel()

	machine := editor.New(editor.Options{Strict: true})
	doc := press(t, machine, document.New(), "hi")

	require.Equal(t, 1, doc.RowCount())
	assert.Equal(t, []document.Kind{document.KindStartOfRow, document.KindDefault}, kinds(doc.Row(0)))
	assert.Equal(t, []string{"hi"}, contents(doc.Row(0)))
	assert.Equal(t, 1, doc.CurrentTokenIndex())
	assert.Equal(t, 1, cursor(t, doc))
	assert.Equal(t, 2, doc.LongestRowLength())
}

func TestEnterAtRowEnd(t *testing.T) {
	t.Parallel()

	machine := editor.New(editor.Options{Strict: true})
	doc := press(t, machine, document.New(), "hi{Enter}")

	require.Equal(t, 2, doc.RowCount())
	assert.Equal(t, []string{"hi"}, contents(doc.Row(0)))
	assert.False(t, doc.Row(0).Token(1).HasCursor())
	assert.Equal(t, 1, doc.Row(1).TokenCount())
	assert.Equal(t, 1, doc.CurrentRowIndex())
	assert.Equal(t, 0, doc.CurrentTokenIndex())
	assert.Equal(t, document.KindStartOfRow, doc.CurrentToken().Kind())
	assert.Equal(t, 0, doc.CursorColumn())
}

func TestDefaultInsertCases(t *testing.T) {
	t.Parallel()

	t.Run("prepends to the following default token", func(t *testing.T) {
		t.Parallel()

		machine := editor.New(editor.Options{Strict: true})
		doc := press(t, machine, document.New(), "ab{Home}x")

		assert.Equal(t, []string{"xab"}, contents(doc.Row(0)))
		assert.Equal(t, 1, doc.CurrentTokenIndex())
		assert.Equal(t, 0, cursor(t, doc))
	})

	t.Run("splits a non-default token around the insert", func(t *testing.T) {
		t.Parallel()

		wide := document.NewWhitespace(document.WhitespaceSpace).WithContent("  ").WithCursor(0)
		doc, err := document.FromRows([]*document.Row{document.NewRow(wide)}, 0, 1)
		require.NoError(t, err)

		machine := editor.New(editor.Options{Strict: true})
		doc = press(t, machine, doc, "x")

		assert.Equal(t, []string{" ", "x", " "}, contents(doc.Row(0)))
		assert.Equal(t, document.KindDefault, doc.CurrentToken().Kind())
		assert.Equal(t, 2, doc.CurrentTokenIndex())
		assert.Equal(t, 2, doc.CursorColumn())
	})

	t.Run("appends a new token after whitespace", func(t *testing.T) {
		t.Parallel()

		machine := editor.New(editor.Options{Strict: true})
		doc := press(t, machine, document.New(), "a b")

		assert.Equal(t, []string{"a", " ", "b"}, contents(doc.Row(0)))
		assert.Equal(t, 3, doc.CurrentTokenIndex())
	})
}

func TestWhitespaceSplitsWord(t *testing.T) {
	t.Parallel()

	machine := editor.New(editor.Options{Strict: true})
	doc := press(t, machine, document.New(), "abcd{Left}{Left} ")

	assert.Equal(t, []string{"ab", " ", "cd"}, contents(doc.Row(0)))
	assert.Equal(t, document.KindWhitespace, doc.CurrentToken().Kind())
	assert.Equal(t, 3, doc.CursorColumn())

	doc = press(t, machine, doc, "{Backspace}")
	assert.Equal(t, []string{"abcd"}, contents(doc.Row(0)))
	assert.Equal(t, 1, cursor(t, doc))
	assert.Equal(t, 2, doc.CursorColumn())
}

func TestEnterSplitsWord(t *testing.T) {
	t.Parallel()

	machine := editor.New(editor.Options{Strict: true})
	doc := press(t, machine, document.New(), "abcd{Left}{Left}{Enter}")

	require.Equal(t, 2, doc.RowCount())
	assert.Equal(t, []string{"ab"}, contents(doc.Row(0)))
	assert.Equal(t, []string{"cd"}, contents(doc.Row(1)))
	assert.Equal(t, 0, doc.CursorColumn())

	doc = press(t, machine, doc, "{Backspace}")
	require.Equal(t, 1, doc.RowCount())
	assert.Equal(t, []string{"abcd"}, contents(doc.Row(0)))
	assert.Equal(t, 2, doc.CursorColumn())
}

func TestBackspace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		text   string
		column int
	}{
		{"round trip", "hi x{Backspace}", "hi ", 3},
		{"middle of word", "abc{Left}{Backspace}", "ac", 1},
		{"first character of word", "ab{Left}{Backspace}", "b", 0},
		{"whole token", "a b{Backspace}", "a ", 2},
		{"row start merges rows", "ab{Enter}{Enter}{Backspace}", "ab\n", 0},
		{"tab", "a{Tab}{Backspace}", "a", 1},
		{"row start merges into empty row", "{Enter}x{Home}{Backspace}", "x", 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			machine := editor.New(editor.Options{Strict: true})
			doc := press(t, machine, document.New(), testCase.script)

			assert.Equal(t, testCase.text, doc.PlainText("\n"))
			assert.Equal(t, testCase.column, doc.CursorColumn())
		})
	}
}

func TestBackspaceAtDocumentStartIsNoop(t *testing.T) {
	t.Parallel()

	machine := editor.New(editor.Options{})
	doc := document.New()

	next, err := machine.HandleKeyDownEvent(context.Background(), doc, keyboard.Keystroke{Key: keyboard.KeyBackspace})
	require.NoError(t, err)
	assert.Same(t, doc, next)
}

func TestDeleteForward(t *testing.T) {
	t.Parallel()

	machine := editor.New(editor.Options{Strict: true})

	doc := press(t, machine, document.New(), "ab{Home}{Delete}")
	assert.Equal(t, "b", doc.PlainText("\n"))
	assert.Equal(t, 0, doc.CursorColumn())

	doc = press(t, machine, document.New(), "ab{Enter}cd{Up}{End}{Delete}")
	assert.Equal(t, "abcd", doc.PlainText("\n"))
	assert.Equal(t, 2, doc.CursorColumn())

	end := press(t, machine, document.New(), "ab")
	next, err := machine.HandleKeyDownEvent(context.Background(), end, keyboard.Keystroke{Key: keyboard.KeyDelete})
	require.NoError(t, err)
	assert.Same(t, end, next)
}

func TestMovement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		row    int
		column int
	}{
		{"left at document start", "{Left}", 0, 0},
		{"right at document end", "ab{Right}", 0, 2},
		{"left crosses row", "ab{Enter}{Left}", 0, 2},
		{"right crosses row", "ab{Enter}{Up}{End}{Right}", 1, 0},
		{"right through tokens", "a b{Home}{Right}{Right}", 0, 2},
		{"up keeps column", "abcdef{Enter}xy{Up}", 0, 2},
		{"up clamps to row end", "xy{Enter}abcdef{Up}", 0, 2},
		{"down at last row", "ab{Down}", 0, 2},
		{"up at first row", "ab{Up}", 0, 2},
		{"home", "ab cd{Home}", 0, 0},
		{"end", "ab cd{Home}{End}", 0, 5},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			machine := editor.New(editor.Options{Strict: true})
			doc := press(t, machine, document.New(), testCase.script)

			assert.Equal(t, testCase.row, doc.CurrentRowIndex())
			assert.Equal(t, testCase.column, doc.CursorColumn())
		})
	}
}

func TestMetaKeysAreNoops(t *testing.T) {
	t.Parallel()

	machine := editor.New(editor.Options{})
	doc := press(t, machine, document.New(), "ab")

	for _, ks := range []keyboard.Keystroke{
		{Key: keyboard.KeyEscape},
		{Key: "F2"},
		{Key: "s", Ctrl: true},
		{Key: "x", Alt: true},
	} {
		next, err := machine.HandleKeyDownEvent(context.Background(), doc, ks)
		require.NoError(t, err)
		assert.Same(t, doc, next, ks.String())
	}
}

func TestHandleOnClickEvent(t *testing.T) {
	t.Parallel()

	machine := editor.New(editor.Options{})
	doc, err := machine.Load(context.Background(), "ab cd\nef")
	require.NoError(t, err)

	clicked, err := machine.HandleOnClickEvent(doc, editor.At(0, 3, 0))
	require.NoError(t, err)
	require.NoError(t, clicked.Validate())
	assert.Equal(t, 0, clicked.CurrentRowIndex())
	assert.Equal(t, 4, clicked.CursorColumn())

	clicked, err = machine.HandleOnClickEvent(doc, editor.Placement{Row: 0, Token: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, cursor(t, clicked))
	assert.Equal(t, 2, clicked.CursorColumn())

	for _, placement := range []editor.Placement{
		{Row: 2, Token: 0},
		{Row: 0, Token: 9},
		editor.At(0, 1, 5),
		editor.At(0, 1, -1),
	} {
		_, err := machine.HandleOnClickEvent(doc, placement)
		require.ErrorIs(t, err, editor.ErrPlacementOutOfRange)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	machine := editor.New(editor.Options{Strict: true})
	text := "ab cd\r\nef\n"

	doc, err := machine.Load(context.Background(), text)
	require.NoError(t, err)
	require.NoError(t, doc.Validate())

	require.Equal(t, 3, doc.RowCount())
	assert.Equal(t, []string{"ab", " ", "cd"}, contents(doc.Row(0)))
	assert.Equal(t, []string{"ef"}, contents(doc.Row(1)))
	assert.Equal(t, 2, doc.CurrentRowIndex())
	assert.Equal(t, "ab cd\nef\n", doc.PlainText("\n"))

	replayed, err := machine.Replay(context.Background(), document.New(), keyboard.FromText(text, true))
	require.NoError(t, err)
	require.Equal(t, replayed.RowCount(), doc.RowCount())
	for i := range doc.RowCount() {
		assert.Equal(t, contents(replayed.Row(i)), contents(doc.Row(i)))
	}
	assert.Equal(t, replayed.CursorColumn(), doc.CursorColumn())

	empty, err := machine.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, empty.RowCount())
}

func TestStoreReceivesMatchingEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		initial string
		newline string
		script  string
	}{
		{
			name:   "typing and editing",
			script: "hello world{Enter}second{Left}{Left}{Backspace}X{Up}{End} tail{Home}{Delete}{Down}{End}{Enter}{Enter}{Backspace}z{Tab}q",
		},
		{
			name:    "crlf file",
			initial: "ab\tc\r\nde",
			newline: "\r\n",
			script:  "{Up}{End}{Backspace}{Enter}x{Down}{Home}{Backspace}",
		},
		{
			name:    "delete across rows",
			initial: "one\ntwo\nthree",
			script:  "{Up}{Up}{End}{Delete}{Delete}{Down}{Home}{Backspace}",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			newline := testCase.newline
			if newline == "" {
				newline = "\n"
			}
			recorder := splice.NewRecorder()
			machine := editor.New(editor.Options{Store: recorder, Newline: newline, Strict: true})

			doc, err := machine.Load(context.Background(), testCase.initial)
			require.NoError(t, err)
			assert.Zero(t, recorder.Len(), "forced keystrokes do not reach the store")

			doc = press(t, machine, doc, testCase.script)

			got, err := splice.Apply(testCase.initial, recorder.Edits())
			require.NoError(t, err)
			assert.Equal(t, doc.PlainText(newline), got)
		})
	}
}

// textStore applies edits to indexed text and reports its real terminators.
type textStore struct {
	text *splice.Text
}

func (s *textStore) Insert(_ context.Context, row, column int, text string) error {
	return s.text.Apply(splice.Edit{Row: row, Column: column, Insert: text})
}

func (s *textStore) Remove(_ context.Context, row, column, count int) error {
	return s.text.Apply(splice.Edit{Row: row, Column: column, Remove: count})
}

func (s *textStore) Terminator(row int) (int, error) {
	return s.text.Index().Terminator(row), nil
}

func TestRowMergeRemovesActualTerminator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		initial  string
		newline  string
		script   string
		expected string
	}{
		{"crlf newline over lf row", "a\r\nb\nc", "\r\n", "{Home}{Backspace}", "a\r\nbc"},
		{"lf newline over crlf row", "a\nb\r\nc", "\n", "{Home}{Backspace}", "a\nbc"},
		{"delete at crlf row end", "a\nb\r\nc", "\n", "{Up}{End}{Delete}", "a\nbc"},
		{"delete at lf row end", "a\r\nb\nc", "\r\n", "{Up}{End}{Delete}", "a\r\nbc"},
		{"merge then enter", "x\ny\r\nz", "\r\n", "{Home}{Backspace}{Enter}", "x\ny\r\nz"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			store := &textStore{text: splice.NewText(testCase.initial)}
			machine := editor.New(editor.Options{Store: store, Newline: testCase.newline, Strict: true})

			doc, err := machine.Load(context.Background(), testCase.initial)
			require.NoError(t, err)
			doc = press(t, machine, doc, testCase.script)

			assert.Equal(t, testCase.expected, store.text.String())
			rows := make([]string, 0, doc.RowCount())
			for _, row := range doc.Rows() {
				rows = append(rows, row.Text())
			}
			assert.Equal(t, strings.ReplaceAll(testCase.expected, "\r\n", "\n"), strings.Join(rows, "\n"))
		})
	}
}

func TestRawControlKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		expected string
		rows     int
	}{
		{"newline splits the row", "\n", "ab\n", 2},
		{"crlf splits the row", "\r\n", "ab\n", 2},
		{"carriage return is ignored", "\r", "ab", 1},
		{"nul is ignored", "\x00", "ab", 1},
		{"escape character is ignored", "\x1b", "ab", 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			store := &textStore{text: splice.NewText("ab")}
			machine := editor.New(editor.Options{Store: store, Strict: true})
			doc, err := machine.Load(context.Background(), "ab")
			require.NoError(t, err)

			doc, err = machine.HandleKeyDownEvent(context.Background(), doc, keyboard.Keystroke{Key: testCase.key})
			require.NoError(t, err)

			assert.Equal(t, testCase.rows, doc.RowCount())
			assert.Equal(t, testCase.expected, store.text.String())
			for _, row := range doc.Rows() {
				assert.NotContains(t, row.Text(), testCase.key)
			}
		})
	}
}

type failingStore struct{}

func (failingStore) Insert(context.Context, int, int, string) error { return errors.New("disk full") }
func (failingStore) Remove(context.Context, int, int, int) error    { return errors.New("disk full") }

func TestStoreFailureAbortsTransition(t *testing.T) {
	t.Parallel()

	machine := editor.New(editor.Options{Store: failingStore{}})
	doc := document.New()

	_, err := machine.HandleKeyDownEvent(context.Background(), doc, keyboard.FromRune('a'))
	require.ErrorIs(t, err, editor.ErrStore)
	assert.Empty(t, doc.PlainText("\n"))

	next, err := machine.HandleKeyDownEvent(context.Background(), doc, keyboard.FromRune('a').AsForced())
	require.NoError(t, err)
	assert.Equal(t, "a", next.PlainText("\n"))
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	machine := editor.New(editor.Options{})
	_, err := machine.HandleKeyDownEvent(ctx, document.New(), keyboard.FromRune('a'))
	require.ErrorIs(t, err, context.Canceled)
}
