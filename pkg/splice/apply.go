package splice

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is matched by every RangeError.
var ErrOutOfRange = errors.New("address out of range")

// RangeError describes an edit address outside the text.
type RangeError struct {
	Row     int
	Column  int
	Message string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("row %d column %d: %s", e.Row, e.Column, e.Message)
}

// Is makes errors.Is(err, ErrOutOfRange) hold for any RangeError.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// Validate checks that edit can be applied to text indexed by idx.
func Validate(idx *Index, edit Edit) (int, error) {
	if edit.Remove < 0 {
		return 0, &RangeError{Row: edit.Row, Column: edit.Column, Message: "negative removal count"}
	}
	offset, err := idx.Offset(edit.Row, edit.Column)
	if err != nil {
		return 0, err
	}
	if edit.Remove > idx.Len()-offset {
		return 0, &RangeError{
			Row:     edit.Row,
			Column:  edit.Column,
			Message: fmt.Sprintf("removing %d characters runs past the end of the text", edit.Remove),
		}
	}
	return offset, nil
}

// Text is plain text with a maintained row index.
type Text struct {
	runes []rune
	index *Index
}

// NewText indexes content.
func NewText(content string) *Text {
	runes := []rune(content)
	return &Text{runes: runes, index: BuildIndex(runes)}
}

// Index returns the row index. It is updated in place by Apply.
func (t *Text) Index() *Index { return t.index }

// Runes returns the current content. The slice must not be modified.
func (t *Text) Runes() []rune { return t.runes }

func (t *Text) String() string { return string(t.runes) }

// Apply performs edit. On error the text is unchanged.
func (t *Text) Apply(edit Edit) error {
	offset, err := Validate(t.index, edit)
	if err != nil {
		return err
	}
	inserted := []rune(edit.Insert)

	next := make([]rune, 0, len(t.runes)-edit.Remove+len(inserted))
	next = append(next, t.runes[:offset]...)
	next = append(next, inserted...)
	next = append(next, t.runes[offset+edit.Remove:]...)

	t.runes = next
	t.index.Splice(next, offset, edit.Remove, len(inserted))
	return nil
}

// Apply replays edits in order against content. Each edit is addressed
// against the text produced by the edits before it.
func Apply(content string, edits []Edit) (string, error) {
	text := NewText(content)
	for i, edit := range edits {
		if err := text.Apply(edit); err != nil {
			return "", fmt.Errorf("edit %d (%s): %w", i, edit, err)
		}
	}
	return text.String(), nil
}
