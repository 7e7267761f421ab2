package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/yaklabco/plainedit/pkg/keyboard"
)

// Command is what a terminal key asks the application to do.
type Command uint8

const (
	// CommandNone ignores the key.
	CommandNone Command = iota
	// CommandKey sends Action.Key to the editor.
	CommandKey
	CommandSave
	CommandQuit
	CommandPageUp
	CommandPageDown
)

// Action is a translated terminal key.
type Action struct {
	Command Command
	Key     keyboard.Keystroke
}

// namedKeys maps tcell keys to keystroke names. Tab, Enter and Backspace
// share codes with Ctrl+I, Ctrl+M and Ctrl+H, so they are looked up first.
var namedKeys = map[tcell.Key]string{
	tcell.KeyEnter:      "enter",
	tcell.KeyTab:        "tab",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyDelete:     "delete",
	tcell.KeyEscape:     "escape",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
}

// Translate turns a terminal key event into an action.
func Translate(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyCtrlS:
		return Action{Command: CommandSave}
	case tcell.KeyCtrlQ:
		return Action{Command: CommandQuit}
	case tcell.KeyPgUp:
		return Action{Command: CommandPageUp}
	case tcell.KeyPgDn:
		return Action{Command: CommandPageDown}
	case tcell.KeyRune:
		ks := keyboard.FromRune(ev.Rune())
		ks.Alt = ev.Modifiers()&tcell.ModAlt != 0
		return Action{Command: CommandKey, Key: ks}
	}

	if name, ok := namedKeys[ev.Key()]; ok {
		ks, err := keyboard.Named(name)
		if err != nil {
			return Action{}
		}
		ks.Shift = ev.Modifiers()&tcell.ModShift != 0
		ks.Alt = ev.Modifiers()&tcell.ModAlt != 0
		return Action{Command: CommandKey, Key: ks}
	}

	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		letter := rune('a' + ev.Key() - tcell.KeyCtrlA)
		ks, err := keyboard.Named("Ctrl+" + string(letter))
		if err != nil {
			return Action{}
		}
		return Action{Command: CommandKey, Key: ks}
	}
	return Action{}
}
