// Package editor implements the key-event-driven edit state machine over
// document snapshots.
//
// A Machine never mutates a document. Each keystroke produces a new snapshot
// and, unless the keystroke is forced, one Insert or Remove call against the
// backing Store describing the same change in row/column terms.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/plainedit/internal/logging"
	"github.com/yaklabco/plainedit/pkg/document"
	"github.com/yaklabco/plainedit/pkg/keyboard"
)

// Sentinel errors for the state machine.
var (
	// ErrPlacementOutOfRange reports a click placement outside the document.
	ErrPlacementOutOfRange = errors.New("placement out of range")

	// ErrStore wraps failures reported by the backing store.
	ErrStore = errors.New("backing store")
)

// Store receives the row/column description of every unforced edit.
type Store interface {
	Insert(ctx context.Context, row, column int, text string) error
	Remove(ctx context.Context, row, column, count int) error
}

// Terminators is implemented by stores that know the terminator of each
// row. Row merges then remove the terminator the row really has, which may
// differ from the configured newline in files with mixed endings.
type Terminators interface {
	Terminator(row int) (int, error)
}

// Options configures a Machine.
type Options struct {
	// Store receives unforced edits. Nil disables the side channel.
	Store Store

	// Newline is written to the store for Enter and removed on row merges.
	// Defaults to "\n".
	Newline string

	// Strict validates every produced document.
	Strict bool

	// Logger receives debug output. Defaults to logging.Default().
	Logger *log.Logger
}

// Machine dispatches keystrokes to edit transitions.
type Machine struct {
	store   Store
	newline string
	strict  bool
	logger  *log.Logger
}

// New creates a Machine.
func New(opts Options) *Machine {
	if opts.Newline == "" {
		opts.Newline = "\n"
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Machine{
		store:   opts.Store,
		newline: opts.Newline,
		strict:  opts.Strict,
		logger:  opts.Logger,
	}
}

// Newline returns the newline sequence the machine writes for Enter.
func (m *Machine) Newline() string {
	return m.newline
}

type effectKind uint8

const (
	effectNone effectKind = iota
	effectInsert
	effectRemove
	effectJoinRows
)

// effect is the store call matching a transition.
type effect struct {
	kind   effectKind
	row    int
	column int
	text   string
	count  int
}

func insertAt(row, column int, text string) effect {
	return effect{kind: effectInsert, row: row, column: column, text: text}
}

func removeAt(row, column, count int) effect {
	return effect{kind: effectRemove, row: row, column: column, count: count}
}

// joinRows removes the terminator ending row, which has column characters
// of text.
func joinRows(row, column int) effect {
	return effect{kind: effectJoinRows, row: row, column: column}
}

// HandleKeyDownEvent applies one keystroke to doc and returns the resulting
// document. Keystrokes that change nothing return doc itself.
//
// When the store rejects the edit the error wraps ErrStore and doc remains
// the latest valid state.
func (m *Machine) HandleKeyDownEvent(ctx context.Context, doc *document.Document, ks keyboard.Keystroke) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		next *document.Document
		eff  effect
		err  error
	)
	switch ks.Class() {
	case keyboard.ClassWhitespace:
		next, eff, err = m.handleWhitespace(doc, ks)
	case keyboard.ClassMovement:
		next, err = handleMovement(doc, ks)
	case keyboard.ClassMeta:
		next, eff, err = m.handleMeta(doc, ks)
	default:
		next, eff, err = handleDefault(doc, ks)
	}
	if err != nil {
		return nil, fmt.Errorf("key %s: %w", ks, err)
	}

	if m.strict {
		if err := next.Validate(); err != nil {
			return nil, fmt.Errorf("key %s: %w", ks, err)
		}
	}

	if ks.Forced || m.store == nil {
		return next, nil
	}
	if err := m.apply(ctx, eff); err != nil {
		return nil, fmt.Errorf("key %s: %w: %w", ks, ErrStore, err)
	}

	if eff.kind != effectNone {
		m.logger.Debug("edit applied",
			logging.FieldKey, ks.String(),
			logging.FieldRow, eff.row,
			logging.FieldColumn, eff.column,
		)
	}
	return next, nil
}

func (m *Machine) apply(ctx context.Context, eff effect) error {
	switch eff.kind {
	case effectInsert:
		return m.store.Insert(ctx, eff.row, eff.column, eff.text)
	case effectRemove:
		return m.store.Remove(ctx, eff.row, eff.column, eff.count)
	case effectJoinRows:
		count, err := m.terminatorLen(eff.row)
		if err != nil {
			return err
		}
		return m.store.Remove(ctx, eff.row, eff.column, count)
	default:
		return nil
	}
}

// terminatorLen returns the length of row's terminator in the store, falling
// back to the configured newline for stores that cannot tell.
func (m *Machine) terminatorLen(row int) (int, error) {
	store, ok := m.store.(Terminators)
	if !ok {
		return newlineLen(m.newline), nil
	}
	count, err := store.Terminator(row)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, invariant("row %d has no terminator to join", row)
	}
	return count, nil
}

// Replay applies keystrokes in order.
func (m *Machine) Replay(ctx context.Context, doc *document.Document, keys []keyboard.Keystroke) (*document.Document, error) {
	for _, ks := range keys {
		next, err := m.HandleKeyDownEvent(ctx, doc, ks)
		if err != nil {
			return nil, err
		}
		doc = next
	}
	return doc, nil
}

// Load builds a document from text by replaying every character as a forced
// keystroke. "\r\n" and "\n" both end a row; a lone "\r" is dropped. The
// cursor ends after the last character.
//
// Rows are replayed independently and then joined, which yields the same
// tokens as one continuous replay.
func (m *Machine) Load(ctx context.Context, text string) (*document.Document, error) {
	lines := strings.Split(text, "\n")
	rows := make([]*document.Row, 0, len(lines))
	lastToken := 0

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := m.Replay(ctx, document.New(), keyboard.FromText(line, true))
		if err != nil {
			return nil, fmt.Errorf("load row %d: %w", i, err)
		}

		row := doc.CurrentRow()
		if i < len(lines)-1 {
			row = row.ReplaceToken(doc.CurrentTokenIndex(), doc.CurrentToken().WithoutCursor())
		} else {
			lastToken = doc.CurrentTokenIndex()
		}
		rows = append(rows, row)
	}

	return document.FromRows(rows, len(rows)-1, lastToken)
}

func newlineLen(newline string) int {
	return utf8.RuneCountInString(newline)
}

func invariant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", document.ErrInvariant, fmt.Sprintf(format, args...))
}

func cursorOf(doc *document.Document) (int, error) {
	offset, ok := doc.CurrentToken().Cursor()
	if !ok {
		return 0, invariant("current token %s holds no cursor", doc.CurrentToken())
	}
	return offset, nil
}

func splice(tokens []document.Token, start, end int, replacement ...document.Token) []document.Token {
	out := make([]document.Token, 0, len(tokens)-(end-start)+len(replacement))
	out = append(out, tokens[:start]...)
	out = append(out, replacement...)
	return append(out, tokens[end:]...)
}

func replaceCurrentRow(doc *document.Document, tokens []document.Token, tokenIndex int) *document.Document {
	r := doc.CurrentRowIndex()
	row := doc.CurrentRow().WithTokens(tokens)
	return doc.ReplaceRows(r, r+1, []*document.Row{row}, r, tokenIndex)
}

func insertRunes(content string, index int, text string) string {
	runes := []rune(content)
	return string(runes[:index]) + text + string(runes[index:])
}

func removeRune(content string, index int) string {
	runes := []rune(content)
	return string(runes[:index]) + string(runes[index+1:])
}
