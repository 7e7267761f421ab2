package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every option. If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return []byte(fullTemplate()), nil
	}
	return []byte(minimalTemplate), nil
}

const minimalTemplate = `# plainedit configuration
# See: https://github.com/yaklabco/plainedit

# Row terminator when saving: lf, crlf, or auto (keep the file's own)
newline: auto

# editor:
#   tab_width: 4
#   strict: false

# save:
#   skip_unchanged: true
#   backups:
#     enabled: false
#     mode: sidecar
`

func fullTemplate() string {
	var sb strings.Builder
	sb.WriteString(DefaultTemplateHeader())
	sb.WriteString(`
#
# Every option is listed with its default value.

# Row terminator when saving: lf, crlf, or auto (keep the file's own)
newline: auto

# Log level: debug, info, warn, or error
log_level: info

editor:
`)
	fmt.Fprintf(&sb, "  # Display width of a tab (1-%d)\n", MaxTabWidth)
	fmt.Fprintf(&sb, "  tab_width: %d\n", DefaultTabWidth)
	sb.WriteString(`  # Validate the document after every keystroke
  strict: false

save:
  # Skip writes whose content matches the previous write
  skip_unchanged: true
  backups:
    enabled: false
    # sidecar writes <file>.plainedit.bak next to the file
    mode: sidecar

# Glob patterns skipped by replay
ignore:
  - ".git/**"
  - "vendor/**"
`)
	return sb.String()
}

// templateToJSON renders the defaults as JSON. JSON cannot carry comments,
// so the full and minimal templates are the same.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	cfg.Ignore = []string{".git/**", "vendor/**"}

	jsonBytes, err := json.MarshalIndent(map[string]any{
		"newline":   cfg.Newline,
		"log_level": cfg.LogLevel,
		"editor": map[string]any{
			"tab_width": cfg.Editor.TabWidth,
			"strict":    cfg.Editor.Strict,
		},
		"save": map[string]any{
			"skip_unchanged": cfg.Save.SkipUnchanged,
			"backups": map[string]any{
				"enabled": cfg.Save.Backups.Enabled,
				"mode":    cfg.Save.Backups.Mode,
			},
		},
		"ignore": cfg.Ignore,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# plainedit configuration
# See: https://github.com/yaklabco/plainedit`
}
