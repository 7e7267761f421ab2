// Package config defines core configuration types for plainedit.
// These types are pure data structures; discovery and merging live in
// internal/configloader.
package config

import "fmt"

// NewlineMode selects the row terminator used when text is flattened.
type NewlineMode string

const (
	NewlineLF   NewlineMode = "lf"
	NewlineCRLF NewlineMode = "crlf"
	NewlineAuto NewlineMode = "auto" // keep whatever the file already uses
)

// IsValid returns true if the newline mode is known.
func (m NewlineMode) IsValid() bool {
	switch m {
	case NewlineLF, NewlineCRLF, NewlineAuto:
		return true
	default:
		return false
	}
}

// Sequence returns the terminator for the mode. For NewlineAuto it returns
// detected, falling back to LF when detected is empty.
func (m NewlineMode) Sequence(detected string) string {
	switch m {
	case NewlineCRLF:
		return "\r\n"
	case NewlineLF:
		return "\n"
	default:
		if detected == "" {
			return "\n"
		}
		return detected
	}
}

// ColorMode controls styled terminal output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is known.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever, "":
		return true
	default:
		return false
	}
}

// EditorConfig tunes the editing engine and its renderers.
type EditorConfig struct {
	// TabWidth is the display width of a tab in rendered output.
	TabWidth int `mapstructure:"tab_width" yaml:"tab_width"`

	// Strict validates every document after each keystroke.
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// BackupsConfig controls backup behavior when saving files.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar" or "none"
}

// SaveConfig controls the throttled writer.
type SaveConfig struct {
	// SkipUnchanged skips writes whose content matches the last write.
	SkipUnchanged bool `mapstructure:"skip_unchanged" yaml:"skip_unchanged"`

	Backups BackupsConfig `mapstructure:"backups" yaml:"backups"`
}

// Config is the root configuration structure for plainedit.
type Config struct {
	// Newline is "lf", "crlf" or "auto".
	Newline NewlineMode `mapstructure:"newline" yaml:"newline"`

	// LogLevel is "debug", "info", "warn" or "error".
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	Editor EditorConfig `mapstructure:"editor" yaml:"editor"`

	Save SaveConfig `mapstructure:"save" yaml:"save"`

	// Ignore contains glob patterns skipped by batch replays.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers. 0 means GOMAXPROCS.
	Jobs int `mapstructure:"-" yaml:"-"`

	// Color controls styled output.
	Color ColorMode `mapstructure:"-" yaml:"-"`
}

// Default values.
const (
	DefaultTabWidth = 4
	DefaultLogLevel = "info"
	MaxTabWidth     = 16
)

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Newline:  NewlineAuto,
		LogLevel: DefaultLogLevel,
		Editor: EditorConfig{
			TabWidth: DefaultTabWidth,
		},
		Save: SaveConfig{
			SkipUnchanged: true,
			Backups: BackupsConfig{
				Enabled: false,
				Mode:    "sidecar",
			},
		},
		Color: ColorAuto,
	}
}

// String renders a one-line summary for debug logs.
func (c *Config) String() string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("newline=%s tab_width=%d strict=%t skip_unchanged=%t backups=%t/%s",
		c.Newline, c.Editor.TabWidth, c.Editor.Strict,
		c.Save.SkipUnchanged, c.Save.Backups.Enabled, c.Save.Backups.Mode)
}
