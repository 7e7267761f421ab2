// Package filehandle implements random-access editing of a text file by row
// and column.
//
// A Handle loads the file once, keeps a row-start offset index over its
// characters, and applies Insert and Remove splices in memory. Rows keep
// their LF or CRLF terminators verbatim, so joining every row read back
// reproduces the bytes a flush would persist.
package filehandle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/plainedit/internal/logging"
	"github.com/yaklabco/plainedit/pkg/fsutil"
	"github.com/yaklabco/plainedit/pkg/splice"
	"github.com/yaklabco/plainedit/pkg/textdetect"
)

// Sentinel errors for file handles.
var (
	// ErrOutOfRange reports a row or column outside the file.
	ErrOutOfRange = errors.New("position out of range")

	// ErrClosed reports use of a disposed handle.
	ErrClosed = errors.New("file handle is closed")

	// ErrNotText reports a file that is binary or not valid UTF-8.
	ErrNotText = errors.New("file is not plain text")
)

// Saver persists the full content of a file.
type Saver interface {
	Save(ctx context.Context, path, content string) error
}

// Options configures Open.
type Options struct {
	// Saver persists content on Flush. Nil writes the file atomically in place.
	Saver Saver

	// Logger defaults to the logger attached to the context.
	Logger *log.Logger
}

// Handle is an open text file. All methods are safe for concurrent use; the
// handle serializes them with a single lock.
type Handle struct {
	mu      sync.Mutex
	path    string
	text    *splice.Text
	info    *fsutil.FileInfo
	journal []splice.Edit
	dirty   bool
	closed  bool

	saver  Saver
	logger *log.Logger

	disposeOnce sync.Once
	disposeErr  error
}

// Open reads path and builds its row index.
func Open(ctx context.Context, path string, opts Options) (*Handle, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if !textdetect.IsText(content) {
		return nil, fmt.Errorf("open %s: %w", path, ErrNotText)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	h := &Handle{
		path:    path,
		text:    splice.NewText(string(content)),
		info:    info,
		journal: make([]splice.Edit, 0),
		saver:   opts.Saver,
		logger:  logger,
	}
	logger.Debug("file opened",
		logging.FieldPath, path,
		logging.FieldRows, h.text.Index().RowCount(),
		logging.FieldLongestRow, h.text.Index().Longest(),
	)
	return h, nil
}

// Path returns the path the handle was opened from.
func (h *Handle) Path() string {
	return h.path
}

// Info returns the file metadata captured at open time.
func (h *Handle) Info() *fsutil.FileInfo {
	return h.info
}

// PhysicalRowCount returns the number of rows. An empty file has one row.
func (h *Handle) PhysicalRowCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text.Index().RowCount()
}

// PhysicalCharacterLengthOfLongestRow returns the character count of the
// longest row, terminator included.
func (h *Handle) PhysicalCharacterLengthOfLongestRow() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text.Index().Longest()
}

// RowStart returns the character offset at which row begins.
func (h *Handle) RowStart(row int) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkRow(row); err != nil {
		return 0, err
	}
	return h.text.Index().RowStart(row), nil
}

// Terminator returns the length of row's terminator: 0 for the last row,
// 1 for "\n" and 2 for "\r\n".
func (h *Handle) Terminator(row int) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkOpen(); err != nil {
		return 0, err
	}
	if err := h.checkRow(row); err != nil {
		return 0, err
	}
	return h.text.Index().Terminator(row), nil
}

// Read returns up to rowCount rows starting at row, each windowed to
// columnCount characters starting at column. Row terminators are part of
// the row text. Read checks ctx between rows and never changes the handle.
func (h *Handle) Read(ctx context.Context, row, column, rowCount, columnCount int) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	if err := h.checkRow(row); err != nil {
		return nil, err
	}
	if column < 0 || rowCount < 0 || columnCount < 0 {
		return nil, fmt.Errorf("read row %d column %d: %w", row, column, ErrOutOfRange)
	}

	idx := h.text.Index()
	runes := h.text.Runes()
	last := row + min(rowCount, idx.RowCount()-row)
	rows := make([]string, 0, last-row)

	for r := row; r < last; r++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		start := idx.RowStart(r)
		length := idx.RowLength(r)
		if column >= length {
			rows = append(rows, "")
			continue
		}
		width := min(length-column, columnCount)
		rows = append(rows, string(runes[start+column:start+column+width]))
	}
	return rows, nil
}

// Insert splices text in at row and column. Newlines in text split the row.
func (h *Handle) Insert(ctx context.Context, row, column int, text string) error {
	return h.apply(ctx, splice.Edit{Row: row, Column: column, Insert: text})
}

// Remove deletes count characters starting at row and column. The range may
// extend over row terminators, merging rows.
func (h *Handle) Remove(ctx context.Context, row, column, count int) error {
	return h.apply(ctx, splice.Edit{Row: row, Column: column, Remove: count})
}

// RemoveRows deletes rowCount whole rows starting at row. When the removed
// rows run to the end of the file, the terminator of the row before them is
// removed too, so no empty trailing row is left behind.
func (h *Handle) RemoveRows(ctx context.Context, row, rowCount int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkOpen(); err != nil {
		return err
	}
	if err := h.checkRow(row); err != nil {
		return err
	}
	idx := h.text.Index()
	if rowCount < 1 || rowCount > idx.RowCount()-row {
		return fmt.Errorf("remove %d rows at row %d of %d: %w", rowCount, row, idx.RowCount(), ErrOutOfRange)
	}

	end := row + rowCount
	edit := splice.Edit{Row: row, Column: 0}
	switch {
	case end < idx.RowCount():
		edit.Remove = idx.RowStart(end) - idx.RowStart(row)
	case row > 0:
		edit.Row = row - 1
		edit.Column = idx.TextLength(row - 1)
		edit.Remove = idx.Len() - (idx.RowStart(row-1) + edit.Column)
	default:
		edit.Remove = idx.Len()
	}
	return h.applyLocked(ctx, edit)
}

func (h *Handle) apply(ctx context.Context, edit splice.Edit) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.applyLocked(ctx, edit)
}

func (h *Handle) applyLocked(ctx context.Context, edit splice.Edit) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	if err := h.checkOpen(); err != nil {
		return err
	}
	if err := h.checkRow(edit.Row); err != nil {
		return err
	}
	if limit := h.text.Index().TextLength(edit.Row); edit.Column < 0 || edit.Column > limit {
		return fmt.Errorf("%s: column outside 0..%d: %w", edit, limit, ErrOutOfRange)
	}

	if err := h.text.Apply(edit); err != nil {
		if errors.Is(err, splice.ErrOutOfRange) {
			return fmt.Errorf("%s: %w: %w", edit, ErrOutOfRange, err)
		}
		return fmt.Errorf("%s: %w", edit, err)
	}
	h.journal = append(h.journal, edit)
	h.dirty = true
	return nil
}

func (h *Handle) checkOpen() error {
	if h.closed {
		return fmt.Errorf("%s: %w", h.path, ErrClosed)
	}
	return nil
}

func (h *Handle) checkRow(row int) error {
	if count := h.text.Index().RowCount(); row < 0 || row >= count {
		return fmt.Errorf("row %d of %d: %w", row, count, ErrOutOfRange)
	}
	return nil
}

// Content returns the current text of the file.
func (h *Handle) Content() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text.String()
}

// Newline returns the terminator of the first terminated row, or "" when
// the file has a single row.
func (h *Handle) Newline() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	idx := h.text.Index()
	for row := range idx.RowCount() {
		switch idx.Terminator(row) {
		case 1:
			return "\n"
		case 2:
			return "\r\n"
		}
	}
	return ""
}

// Journal returns the edits applied since the last flush.
func (h *Handle) Journal() []splice.Edit {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.journal)
}

// Dirty reports whether edits were applied since the last flush.
func (h *Handle) Dirty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dirty
}

// Flush persists the content if it changed and clears the journal.
func (h *Handle) Flush(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkOpen(); err != nil {
		return err
	}
	return h.flushLocked(ctx)
}

func (h *Handle) flushLocked(ctx context.Context) error {
	if !h.dirty {
		return nil
	}

	content := h.text.String()
	var err error
	if h.saver != nil {
		err = h.saver.Save(ctx, h.path, content)
	} else {
		err = fsutil.WriteAtomic(ctx, h.path, []byte(content), 0)
	}
	if err != nil {
		return fmt.Errorf("flush %s: %w", h.path, err)
	}

	h.logger.Debug("file flushed",
		logging.FieldPath, h.path,
		logging.FieldEdits, len(h.journal),
	)
	h.journal = h.journal[:0]
	h.dirty = false
	return nil
}

// Dispose flushes pending edits and closes the handle. Later calls return
// the result of the first one.
func (h *Handle) Dispose(ctx context.Context) error {
	h.disposeOnce.Do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.disposeErr = h.flushLocked(ctx)
		h.closed = true
	})
	return h.disposeErr
}

// String renders the handle for debugging.
func (h *Handle) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d rows", h.path, h.text.Index().RowCount())
	if h.dirty {
		sb.WriteString(", modified")
	}
	sb.WriteString(")")
	return sb.String()
}
