package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/plainedit/pkg/config"
	"github.com/yaklabco/plainedit/pkg/fsutil"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "editor.tab_width").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	"":        true,
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Newline != "" && !cfg.Newline.IsValid() {
		result.fail("newline", cfg.Newline, "invalid newline %q; must be one of: lf, crlf, auto", cfg.Newline)
	}
	if !knownLogLevels[strings.ToLower(cfg.LogLevel)] {
		result.fail("log_level", cfg.LogLevel, "invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}
	if cfg.Editor.TabWidth < 1 || cfg.Editor.TabWidth > config.MaxTabWidth {
		result.fail("editor.tab_width", cfg.Editor.TabWidth, "tab width must be between 1 and %d", config.MaxTabWidth)
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if !cfg.Color.IsValid() {
		result.fail("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}

	switch mode := fsutil.BackupMode(cfg.Save.Backups.Mode); mode {
	case "", fsutil.BackupModeSidecar:
	case fsutil.BackupModeNone:
		if cfg.Save.Backups.Enabled {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "save.backups",
				Value:   mode,
				Message: "backups are enabled but mode is none; no backups will be written",
			})
		}
	default:
		result.fail("save.backups.mode", mode, "invalid backup mode %q; must be one of: sidecar, none", mode)
	}

	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	return result
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
