// Package throttle coalesces save requests per file path.
//
// Each path has at most one consumer goroutine and at most one pending
// request. A request that arrives while a write is in flight replaces the
// pending one, so storage only ever sees the latest content and slow writes
// never queue up unbounded work.
package throttle

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/plainedit/internal/logging"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("writer is closed")

// Notice messages.
const (
	MessageNotFound  = "file not found, cannot save"
	MessageUnchanged = "no changes to write out"
)

// Storage performs the physical writes.
type Storage interface {
	Exists(ctx context.Context, path string) (bool, error)
	WriteAllText(ctx context.Context, path, content string) error
}

// Notice is an informational condition meant for the user.
type Notice struct {
	Path    string
	Message string
}

func (n Notice) String() string {
	return n.Message + ": " + n.Path
}

// Notifier receives notices.
type Notifier interface {
	Notify(notice Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f.
func (f NotifierFunc) Notify(notice Notice) { f(notice) }

// Result reports what happened to one submitted request.
type Result struct {
	Path    string
	Written bool
	Err     error
}

// Request asks for content to be saved at Path. OnSaved, when set, is
// called from the consumer goroutine once the request is written or
// skipped. Requests superseded before they were picked up are never
// reported.
type Request struct {
	Path    string
	Content string
	OnSaved func(Result)
}

// Options configures a Writer.
type Options struct {
	Storage Storage

	// Notifier defaults to logging notices at info level.
	Notifier Notifier

	// SkipUnchanged skips writes whose content equals the last content
	// written for the same path.
	SkipUnchanged bool

	Logger *log.Logger
}

type slot struct {
	pending *Request
}

// Writer coalesces saves. It is safe for concurrent use.
type Writer struct {
	storage  Storage
	notifier Notifier
	skip     bool
	logger   *log.Logger

	mu     sync.Mutex
	slots  map[string]*slot
	last   map[string][32]byte
	closed bool

	wg     sync.WaitGroup
	writes atomic.Int64
}

// New creates a Writer.
func New(opts Options) *Writer {
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	w := &Writer{
		storage:  opts.Storage,
		notifier: opts.Notifier,
		skip:     opts.SkipUnchanged,
		logger:   opts.Logger,
		slots:    make(map[string]*slot),
		last:     make(map[string][32]byte),
	}
	if w.notifier == nil {
		w.notifier = NotifierFunc(func(n Notice) {
			w.logger.Info(n.Message, logging.FieldPath, n.Path)
		})
	}
	return w
}

// Save submits content for path without a completion callback.
func (w *Writer) Save(ctx context.Context, path, content string) error {
	return w.Submit(ctx, Request{Path: path, Content: content})
}

// Submit hands req to the consumer of its path, starting one if none is
// running. It never waits for IO. Cancelling ctx does not cancel the write.
func (w *Writer) Submit(ctx context.Context, req Request) error {
	req.Path = normalize(req.Path)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return fmt.Errorf("save %s: %w", req.Path, ErrClosed)
	}
	if s, running := w.slots[req.Path]; running {
		s.pending = &req
		w.mu.Unlock()
		return nil
	}
	w.slots[req.Path] = &slot{}
	w.wg.Add(1)
	w.mu.Unlock()

	go w.consume(context.WithoutCancel(ctx), req)
	return nil
}

func (w *Writer) consume(ctx context.Context, req Request) {
	defer w.wg.Done()

	for {
		result := w.write(ctx, req)
		if req.OnSaved != nil {
			req.OnSaved(result)
		}

		w.mu.Lock()
		s := w.slots[req.Path]
		if s.pending == nil {
			delete(w.slots, req.Path)
			w.mu.Unlock()
			return
		}
		req = *s.pending
		s.pending = nil
		w.mu.Unlock()
	}
}

func (w *Writer) write(ctx context.Context, req Request) Result {
	result := Result{Path: req.Path}

	exists, err := w.storage.Exists(ctx, req.Path)
	if err != nil {
		result.Err = fmt.Errorf("save %s: %w", req.Path, err)
		w.logger.Error("save failed", logging.FieldPath, req.Path, logging.FieldError, err)
		return result
	}
	if !exists {
		w.notifier.Notify(Notice{Path: req.Path, Message: MessageNotFound})
		return result
	}

	sum := sha256.Sum256([]byte(req.Content))
	if w.skip && w.lastWritten(req.Path) == sum {
		w.notifier.Notify(Notice{Path: req.Path, Message: MessageUnchanged})
		return result
	}

	if err := w.storage.WriteAllText(ctx, req.Path, req.Content); err != nil {
		result.Err = fmt.Errorf("save %s: %w", req.Path, err)
		w.logger.Error("save failed", logging.FieldPath, req.Path, logging.FieldError, err)
		return result
	}
	w.writes.Add(1)

	w.mu.Lock()
	w.last[req.Path] = sum
	w.mu.Unlock()

	w.logger.Debug("file saved", logging.FieldPath, req.Path, logging.FieldBytes, len(req.Content))
	result.Written = true
	return result
}

func (w *Writer) lastWritten(path string) [32]byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last[path]
}

// Writes returns the number of physical writes performed so far.
func (w *Writer) Writes() int64 {
	return w.writes.Load()
}

// Pending reports whether any consumer is still running.
func (w *Writer) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.slots) > 0
}

// Wait blocks until every consumer has exited or ctx is done.
func (w *Writer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for saves: %w", ctx.Err())
	}
}

// Close rejects further saves and waits for in-flight ones.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return w.Wait(ctx)
}

func normalize(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
