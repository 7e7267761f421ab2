// Package session binds an open file handle to the edit state machine.
//
// A Session owns the latest document snapshot for one file. Every keystroke
// goes through the machine, which applies the matching splice to the handle,
// so the in-memory rows and the handle's rows stay equal at all times.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/plainedit/internal/logging"
	"github.com/yaklabco/plainedit/pkg/config"
	"github.com/yaklabco/plainedit/pkg/document"
	"github.com/yaklabco/plainedit/pkg/editor"
	"github.com/yaklabco/plainedit/pkg/filehandle"
	"github.com/yaklabco/plainedit/pkg/fsutil"
	"github.com/yaklabco/plainedit/pkg/keyboard"
	"github.com/yaklabco/plainedit/pkg/textdetect"
)

// Sentinel errors for sessions.
var (
	// ErrBareCarriageReturn reports a '\r' that does not start a CRLF pair.
	// Such files cannot be edited because the keyboard never produces one.
	ErrBareCarriageReturn = errors.New("file contains a carriage return outside a CRLF pair")

	// ErrOutOfSync reports that the document and the file handle disagree.
	ErrOutOfSync = errors.New("document and file are out of sync")

	// ErrClosed reports use of a closed session.
	ErrClosed = errors.New("session is closed")
)

// Listener is told about every new document snapshot.
type Listener interface {
	DocumentChanged(doc *document.Document)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(*document.Document)

// DocumentChanged calls f.
func (f ListenerFunc) DocumentChanged(doc *document.Document) { f(doc) }

// Options configures Open.
type Options struct {
	// Config defaults to config.NewConfig().
	Config *config.Config

	// Saver persists content on Save. Nil writes the file atomically in place.
	Saver filehandle.Saver

	Listener Listener

	Logger *log.Logger
}

// Session is an editable file. It is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	handle   *filehandle.Handle
	machine  *editor.Machine
	doc      *document.Document
	info     textdetect.Info
	listener Listener
	logger   *log.Logger
	closed   bool
}

// Open reads path, builds its document and binds the two together.
func Open(ctx context.Context, path string, opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	handle, err := filehandle.Open(ctx, path, filehandle.Options{Saver: opts.Saver, Logger: logger})
	if err != nil {
		return nil, err
	}

	content := handle.Content()
	if hasBareCarriageReturn(content) {
		_ = handle.Dispose(ctx)
		return nil, fmt.Errorf("open %s: %w", path, ErrBareCarriageReturn)
	}

	machine := editor.New(editor.Options{
		Store:   handle,
		Newline: cfg.Newline.Sequence(handle.Newline()),
		Strict:  cfg.Editor.Strict,
		Logger:  logger,
	})
	doc, err := machine.Load(ctx, content)
	if err != nil {
		_ = handle.Dispose(ctx)
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	s := &Session{
		handle:   handle,
		machine:  machine,
		doc:      doc,
		info:     textdetect.Describe(path, []byte(content)),
		listener: opts.Listener,
		logger:   logger,
	}
	logger.Debug("session opened",
		logging.FieldPath, path,
		logging.FieldLanguage, s.info.Language,
		logging.FieldRows, doc.RowCount(),
		logging.FieldNewline, fmt.Sprintf("%q", machine.Newline()),
	)
	return s, nil
}

func hasBareCarriageReturn(content string) bool {
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && (i+1 == len(content) || content[i+1] != '\n') {
			return true
		}
	}
	return false
}

// Path returns the file path.
func (s *Session) Path() string {
	return s.handle.Path()
}

// Document returns the latest snapshot.
func (s *Session) Document() *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Handle returns the underlying file handle.
func (s *Session) Handle() *filehandle.Handle {
	return s.handle
}

// Info describes the file as it was when opened.
func (s *Session) Info() textdetect.Info {
	return s.info
}

// Newline returns the terminator written for Enter.
func (s *Session) Newline() string {
	return s.machine.Newline()
}

// HandleKey applies one keystroke. On error the previous snapshot is kept
// and returned alongside the error.
func (s *Session) HandleKey(ctx context.Context, ks keyboard.Keystroke) (*document.Document, error) {
	return s.transition(func(doc *document.Document) (*document.Document, error) {
		return s.machine.HandleKeyDownEvent(ctx, doc, ks)
	})
}

// Type parses a key script and applies its keystrokes in order. Keystrokes
// before a failing one stay applied.
func (s *Session) Type(ctx context.Context, script string) (*document.Document, error) {
	keys, err := keyboard.ParseScript(script)
	if err != nil {
		return s.Document(), err
	}
	return s.transition(func(doc *document.Document) (*document.Document, error) {
		for _, ks := range keys {
			next, err := s.machine.HandleKeyDownEvent(ctx, doc, ks)
			if err != nil {
				return doc, err
			}
			doc = next
		}
		return doc, nil
	})
}

// Click moves the cursor to placement.
func (s *Session) Click(placement editor.Placement) (*document.Document, error) {
	return s.transition(func(doc *document.Document) (*document.Document, error) {
		return s.machine.HandleOnClickEvent(doc, placement)
	})
}

// transition runs step against the current snapshot and publishes the
// result. The listener is called without the lock held.
func (s *Session) transition(step func(*document.Document) (*document.Document, error)) (*document.Document, error) {
	s.mu.Lock()
	if s.closed {
		doc := s.doc
		s.mu.Unlock()
		return doc, fmt.Errorf("%s: %w", s.handle.Path(), ErrClosed)
	}

	prev := s.doc
	next, err := step(prev)
	if next == nil {
		next = prev
	}
	s.doc = next
	listener := s.listener
	s.mu.Unlock()

	if next != prev && listener != nil {
		listener.DocumentChanged(next)
	}
	return next, err
}

// Save flushes pending edits. A file changed on disk since it was opened is
// overwritten with a warning.
func (s *Session) Save(ctx context.Context) error {
	if modified, err := fsutil.CheckModified(ctx, s.handle.Info()); err == nil && modified {
		s.logger.Warn("file changed on disk since it was opened; overwriting", logging.FieldPath, s.handle.Path())
	}
	return s.handle.Flush(ctx)
}

// Verify checks the document against the handle row by row.
func (s *Session) Verify(ctx context.Context) error {
	doc := s.Document()
	rows, err := s.handle.Read(ctx, 0, 0, s.handle.PhysicalRowCount(), s.handle.PhysicalCharacterLengthOfLongestRow())
	if err != nil {
		return err
	}
	if len(rows) != doc.RowCount() {
		return fmt.Errorf("%w: document has %d rows, file has %d", ErrOutOfSync, doc.RowCount(), len(rows))
	}
	for i, raw := range rows {
		text := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if got := doc.Row(i).Text(); got != text {
			return fmt.Errorf("%w: row %d is %q in the document and %q in the file", ErrOutOfSync, i, got, text)
		}
	}
	return nil
}

// Close flushes pending edits and releases the handle.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.handle.Dispose(ctx)
}
