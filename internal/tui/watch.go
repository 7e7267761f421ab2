package tui

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/plainedit/internal/logging"
)

// Watcher messages.
const (
	MessageChangedOnDisk = "file changed on disk"
	MessageRemovedOnDisk = "file removed from disk"
)

// DefaultQuietPeriod is how long events are ignored after the application
// writes the file itself.
const DefaultQuietPeriod = 2 * time.Second

// Watcher reports changes other programs make to one file. It watches the
// parent directory so atomic replaces are seen too.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	notices chan string
	logger  *log.Logger

	mu          sync.Mutex
	quietUntil  time.Time
	closeOnce   sync.Once
	closeResult error
	done        chan struct{}
}

// Watch starts watching path.
func Watch(path string, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w := &Watcher{
		watcher: fsw,
		path:    abs,
		notices: make(chan string, 1),
		logger:  logger,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Notices delivers one message per burst of external changes.
func (w *Watcher) Notices() <-chan string {
	return w.notices
}

// Quiet ignores events for d, covering a write the application makes.
func (w *Watcher) Quiet(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.quietUntil = time.Now().Add(d)
}

func (w *Watcher) quiet() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Now().Before(w.quietUntil)
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || w.quiet() {
				continue
			}

			var message string
			switch {
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				message = MessageRemovedOnDisk
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				message = MessageChangedOnDisk
			default:
				continue
			}
			w.logger.Debug(message, logging.FieldPath, w.path)

			select {
			case w.notices <- message:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", logging.FieldPath, w.path, logging.FieldError, err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.closeResult = w.watcher.Close()
		<-w.done
	})
	return w.closeResult
}
