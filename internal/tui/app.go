// Package tui is the interactive terminal front end. It draws the document
// of a session with tcell and feeds terminal keys and clicks back into it.
package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/plainedit/internal/logging"
	"github.com/yaklabco/plainedit/internal/ui/pretty"
	"github.com/yaklabco/plainedit/pkg/document"
	"github.com/yaklabco/plainedit/pkg/editor"
	"github.com/yaklabco/plainedit/pkg/keyboard"
	"github.com/yaklabco/plainedit/pkg/session"
)

const helpMessage = "Ctrl+S save  Ctrl+Q quit"

var (
	styleText      = tcell.StyleDefault
	styleGutter    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatusBar = tcell.StyleDefault.Reverse(true)
	styleNotice    = tcell.StyleDefault.Reverse(true).Bold(true)
)

// Options configures an App.
type Options struct {
	// TabWidth defaults to config.DefaultTabWidth.
	TabWidth int

	LineNumbers bool

	// Watcher, when set, turns external file changes into status messages.
	Watcher *Watcher

	Logger *log.Logger
}

// App runs one session on one screen.
type App struct {
	screen  tcell.Screen
	session *session.Session
	opts    Options
	logger  *log.Logger

	top    int
	left   int
	status string
}

// New creates an App. The screen must already be initialized.
func New(screen tcell.Screen, sess *session.Session, opts Options) *App {
	if opts.TabWidth < 1 {
		opts.TabWidth = 4
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &App{
		screen:  screen,
		session: sess,
		opts:    opts,
		logger:  opts.Logger,
		status:  helpMessage,
	}
}

// Status returns the current status line message.
func (a *App) Status() string {
	return a.status
}

// Run processes events until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go a.screen.ChannelEvents(events, quit)

	var notices <-chan string
	if a.opts.Watcher != nil {
		notices = a.opts.Watcher.Notices()
	}

	a.draw()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("tui: %w", ctx.Err())
		case notice := <-notices:
			a.status = notice
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if a.handle(ctx, ev) {
				return nil
			}
		}
		a.draw()
	}
}

// handle reacts to one event and reports whether the app should stop.
func (a *App) handle(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			a.click(x, y)
		}
	case *tcell.EventKey:
		return a.key(ctx, Translate(ev))
	}
	return false
}

func (a *App) key(ctx context.Context, action Action) bool {
	switch action.Command {
	case CommandQuit:
		return true
	case CommandSave:
		a.save(ctx)
	case CommandPageUp, CommandPageDown:
		name := keyboard.KeyArrowDown
		if action.Command == CommandPageUp {
			name = keyboard.KeyArrowUp
		}
		for range max(a.textHeight()-1, 1) {
			if !a.send(ctx, keyboard.Keystroke{Key: name, Code: name}) {
				break
			}
		}
	case CommandKey:
		a.send(ctx, action.Key)
	}
	return false
}

func (a *App) send(ctx context.Context, ks keyboard.Keystroke) bool {
	if _, err := a.session.HandleKey(ctx, ks); err != nil {
		a.report("edit failed", err)
		return false
	}
	return true
}

func (a *App) save(ctx context.Context) {
	if a.opts.Watcher != nil {
		a.opts.Watcher.Quiet(DefaultQuietPeriod)
	}
	if err := a.session.Save(ctx); err != nil {
		a.report("save failed", err)
		return
	}
	a.status = "saved"
}

func (a *App) report(message string, err error) {
	a.logger.Error(message, logging.FieldPath, a.session.Path(), logging.FieldError, err)
	a.status = message + ": " + err.Error()
}

// click places the cursor at screen position x, y.
func (a *App) click(x, y int) {
	doc := a.session.Document()
	rowIndex := a.top + y
	if y >= a.textHeight() || rowIndex >= doc.RowCount() {
		return
	}
	gutter := a.gutterWidth(doc)
	if x < gutter {
		x = gutter
	}

	row := doc.Row(rowIndex)
	cells := pretty.LayoutRow(row.Text(), a.opts.TabWidth)
	column := pretty.ColumnAt(cells, x-gutter+a.left)
	token, offset := row.TokenAtColumn(column)
	if _, err := a.session.Click(editor.At(rowIndex, token, offset)); err != nil {
		a.report("click failed", err)
	}
}

func (a *App) textHeight() int {
	_, height := a.screen.Size()
	return max(height-1, 0)
}

func (a *App) gutterWidth(doc *document.Document) int {
	if !a.opts.LineNumbers {
		return 0
	}
	return len(strconv.Itoa(doc.RowCount())) + 1
}

// scroll keeps the cursor inside the text area.
func (a *App) scroll(doc *document.Document, cursorX int) {
	width, _ := a.screen.Size()
	textWidth := max(width-a.gutterWidth(doc), 1)
	height := max(a.textHeight(), 1)

	row := doc.CurrentRowIndex()
	switch {
	case row < a.top:
		a.top = row
	case row >= a.top+height:
		a.top = row - height + 1
	}
	switch {
	case cursorX < a.left:
		a.left = cursorX
	case cursorX >= a.left+textWidth:
		a.left = cursorX - textWidth + 1
	}
}

func (a *App) draw() {
	doc := a.session.Document()
	cursorCells := pretty.LayoutRow(doc.CurrentRow().Text(), a.opts.TabWidth)
	cursorX := pretty.DisplayX(cursorCells, doc.CursorColumn())
	a.scroll(doc, cursorX)

	a.screen.Clear()
	width, _ := a.screen.Size()
	gutter := a.gutterWidth(doc)

	for y := range a.textHeight() {
		index := a.top + y
		if index >= doc.RowCount() {
			break
		}
		if gutter > 0 {
			drawString(a.screen, 0, y, fmt.Sprintf("%*d", gutter-1, index+1), styleGutter)
		}
		for _, cell := range pretty.LayoutRow(doc.Row(index).Text(), a.opts.TabWidth) {
			x := gutter + cell.X - a.left
			if cell.X < a.left {
				continue
			}
			if x+cell.Width > width {
				break
			}
			a.screen.SetContent(x, y, cell.Rune, nil, styleText)
			for fill := 1; cell.Tab && fill < cell.Width; fill++ {
				a.screen.SetContent(x+fill, y, ' ', nil, styleText)
			}
		}
	}

	a.drawStatusBar(doc, width)
	a.screen.ShowCursor(gutter+cursorX-a.left, doc.CurrentRowIndex()-a.top)
	a.screen.Show()
}

func (a *App) drawStatusBar(doc *document.Document, width int) {
	_, height := a.screen.Size()
	y := height - 1
	for x := range width {
		a.screen.SetContent(x, y, ' ', nil, styleStatusBar)
	}

	name := pretty.TruncatePath(a.session.Path(), max(width/3, 1))
	if a.session.Handle().Dirty() {
		name += " [+]"
	}
	info := a.session.Info()
	right := fmt.Sprintf("%d:%d  %s  %s ", doc.CurrentRowIndex()+1, doc.CursorColumn()+1,
		newlineName(a.session.Newline()), info.Language)

	left := " " + name + "  "
	drawString(a.screen, 0, y, left, styleStatusBar)
	drawString(a.screen, runewidth.StringWidth(left), y,
		pretty.Truncate(a.status, max(width-runewidth.StringWidth(left)-runewidth.StringWidth(right), 0)),
		styleNotice)
	drawString(a.screen, max(width-runewidth.StringWidth(right), 0), y, right, styleStatusBar)
}

func drawString(screen tcell.Screen, x, y int, str string, style tcell.Style) {
	for _, r := range str {
		screen.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
}

func newlineName(newline string) string {
	if newline == "\r\n" {
		return "CRLF"
	}
	return "LF"
}
