package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/plainedit/pkg/config"
)

// envVarPrefix is the prefix for all plainedit environment variables.
const envVarPrefix = "PLAINEDIT_"

// envVar describes one supported environment variable.
type envVar struct {
	suffix      string
	description string
	apply       func(cfg *config.Config, value string) error
}

//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []envVar{
	{"NEWLINE", "Row terminator when saving: lf, crlf, or auto", func(cfg *config.Config, v string) error {
		cfg.Newline = config.NewlineMode(strings.ToLower(v))
		return nil
	}},
	{"LOG_LEVEL", "Log level: debug, info, warn, or error", func(cfg *config.Config, v string) error {
		cfg.LogLevel = v
		return nil
	}},
	{"TAB_WIDTH", "Display width of a tab", intSetter(func(cfg *config.Config, n int) { cfg.Editor.TabWidth = n })},
	{"STRICT", "Validate the document after every keystroke: true or false",
		boolSetter(func(cfg *config.Config, b bool) { cfg.Editor.Strict = b })},
	{"SKIP_UNCHANGED", "Skip writes of unchanged content: true or false",
		boolSetter(func(cfg *config.Config, b bool) { cfg.Save.SkipUnchanged = b })},
	{"BACKUPS_ENABLED", "Write a backup before the first save: true or false",
		boolSetter(func(cfg *config.Config, b bool) { cfg.Save.Backups.Enabled = b })},
	{"BACKUPS_MODE", "Backup mode: sidecar or none", func(cfg *config.Config, v string) error {
		cfg.Save.Backups.Mode = v
		return nil
	}},
	{"IGNORE", "Comma-separated list of ignore patterns", func(cfg *config.Config, v string) error {
		cfg.Ignore = parseSliceValue(v)
		return nil
	}},
	{"JOBS", "Number of parallel workers (0 = auto)", intSetter(func(cfg *config.Config, n int) { cfg.Jobs = n })},
	{"COLOR", "Styled output: auto, always, or never", func(cfg *config.Config, v string) error {
		cfg.Color = config.ColorMode(strings.ToLower(v))
		return nil
	}},
}

func intSetter(set func(*config.Config, int)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		set(cfg, n)
		return nil
	}
}

func boolSetter(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		set(cfg, b)
		return nil
	}
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with PLAINEDIT_ (e.g., PLAINEDIT_NEWLINE).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, v := range envVars {
		name := envVarPrefix + v.suffix
		value := strings.TrimSpace(os.Getenv(name))
		if value == "" {
			continue
		}
		if err := v.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns all supported environment variables with their
// descriptions, sorted by name.
func ListEnvVars() [][2]string {
	list := make([][2]string, 0, len(envVars))
	for _, v := range envVars {
		list = append(list, [2]string{envVarPrefix + v.suffix, v.description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i][0] < list[j][0] })
	return list
}
