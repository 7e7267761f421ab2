// Package splice provides row/column addressed text edits: the edit log
// produced by an editor, a row index over rune offsets, and sequential
// replay of edits against plain text.
package splice

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Edit is a single splice addressed by row and column. Remove characters
// starting at the address are deleted, then Insert is placed there.
// Columns count characters from the row start.
type Edit struct {
	Row    int
	Column int
	Remove int
	Insert string
}

// IsInsert reports whether the edit only adds text.
func (e Edit) IsInsert() bool {
	return e.Remove == 0 && e.Insert != ""
}

func (e Edit) String() string {
	switch {
	case e.Remove == 0:
		return fmt.Sprintf("insert %d:%d %q", e.Row, e.Column, e.Insert)
	case e.Insert == "":
		return fmt.Sprintf("remove %d:%d %d", e.Row, e.Column, e.Remove)
	default:
		return fmt.Sprintf("replace %d:%d %d %q", e.Row, e.Column, e.Remove, e.Insert)
	}
}

// Recorder collects edits in arrival order. It satisfies the editor's
// backing store port, which makes it usable as a dry-run store.
type Recorder struct {
	mu    sync.Mutex
	edits []Edit
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{edits: make([]Edit, 0)}
}

// Insert records an insertion.
func (r *Recorder) Insert(_ context.Context, row, column int, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edits = append(r.edits, Edit{Row: row, Column: column, Insert: text})
	return nil
}

// Remove records a removal.
func (r *Recorder) Remove(_ context.Context, row, column, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edits = append(r.edits, Edit{Row: row, Column: column, Remove: count})
	return nil
}

// Edits returns a copy of the recorded edits.
func (r *Recorder) Edits() []Edit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.edits)
}

// Len returns the number of recorded edits.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.edits)
}

// Reset discards all recorded edits.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edits = r.edits[:0]
}
