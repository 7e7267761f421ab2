package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/yaklabco/plainedit/internal/ui/pretty"
	"github.com/yaklabco/plainedit/pkg/keyboard"
)

// Command groups of the root help.
const (
	groupEditing    = "editing"
	groupInspection = "inspection"
	groupSetup      = "setup"
)

// annotationKeyScript marks commands that take a key script. Their help
// carries the script syntax and the accepted key names.
const annotationKeyScript = "plainedit/key-script"

const keyNamesPerLine = 6

func commandGroups() []*cobra.Group {
	return []*cobra.Group{
		{ID: groupEditing, Title: "Editing Commands:"},
		{ID: groupInspection, Title: "Inspection Commands:"},
		{ID: groupSetup, Title: "Setup Commands:"},
	}
}

// takesKeyScript marks cmd as reading a key script.
func takesKeyScript(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationKeyScript] = "true"
	return cmd
}

// helpStyles holds the lipgloss styles of the help output.
type helpStyles struct {
	command    lipgloss.Style
	heading    lipgloss.Style
	subcommand lipgloss.Style
	flag       lipgloss.Style
	key        lipgloss.Style
	dim        lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{plain, plain, plain, plain, plain, plain}
	}
	return helpStyles{
		command:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		heading:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		subcommand: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flag:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		key:        lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders command help with grouped commands, styled flags
// and, for commands that take one, a key script reference.
type HelpFormatter struct {
	styles helpStyles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: newHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}{{$cmds := .Commands}}
{{- range $group := .Groups}}

{{ heading $group.Title }}{{range $cmds}}{{if and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}
{{- if not .AllChildCommandsHaveGroup}}

{{ if .Groups}}{{ heading "Additional Commands:" }}{{else}}{{ heading "Commands:" }}{{end}}{{range $cmds}}{{if and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}
{{- end}}

{{- if takesKeyScript .}}

{{ heading "Key Scripts:" }}
{{ keyScript }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}` + usageTemplate

// flagLine splits a pflag usage line into indent, flag names with type, and
// description.
var flagLine = regexp.MustCompile(`^(\s+)(\S.*?)(\s{2,})(\S.*)$`)

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":    h.styles.heading.Render,
		"command":    h.styles.command.Render,
		"subcommand": h.styles.subcommand.Render,
		"dim":        h.styles.dim.Render,
		"flags":      h.renderFlags,
		"keyScript":  h.renderKeyScript,
		"join":       strings.Join,
		"rpad":       rpad,
		"trimRight":  func(s string) string { return strings.TrimRight(s, " \t\n") },
		"takesKeyScript": func(cmd *cobra.Command) bool {
			return cmd.Annotations[annotationKeyScript] != ""
		},
	}
}

// renderFlags colors the flag names of pflag usage output and dims their
// value types. Descriptions are left as they are.
func (h *HelpFormatter) renderFlags(usages string) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, line := range lines {
		m := flagLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		tokens := strings.Fields(m[2])
		for j, token := range tokens {
			if name, comma := strings.CutSuffix(token, ","); strings.HasPrefix(name, "-") {
				tokens[j] = h.styles.flag.Render(name) + lo.Ternary(comma, ",", "")
			} else {
				tokens[j] = h.styles.dim.Render(token)
			}
		}
		lines[i] = m[1] + strings.Join(tokens, " ") + m[3] + m[4]
	}
	return strings.Join(lines, "\n")
}

// renderKeyScript describes the key script syntax and lists the names
// accepted inside {} escapes.
func (h *HelpFormatter) renderKeyScript() string {
	var sb strings.Builder
	sb.WriteString("  Characters are typed as written and a newline presses Enter.\n")
	sb.WriteString("  " + h.styles.key.Render("{Name}") + " presses a named key and " +
		h.styles.key.Render("{{}") + " types a literal \"{\".\n")
	sb.WriteString("  Names are case-insensitive and take Ctrl+, Alt+ or Shift+ prefixes,\n")
	sb.WriteString("  as in " + h.styles.key.Render("{Ctrl+s}") + " or " +
		h.styles.key.Render("{Shift+Left}") + ".\n\n")
	sb.WriteString("  Key names:")

	names := lo.Map(keyboard.KeyNames(), func(name string, _ int) string { return "{" + name + "}" })
	width := len(lo.MaxBy(names, func(a, b string) bool { return len(a) > len(b) }))
	for _, row := range lo.Chunk(names, keyNamesPerLine) {
		cells := lo.Map(row, func(name string, _ int) string {
			return h.styles.key.Render(name) + strings.Repeat(" ", width-len(name))
		})
		sb.WriteString("\n    " + strings.TrimRight(strings.Join(cells, " "), " "))
	}
	return sb.String()
}

// ApplyToCommand installs the help and usage output on cmd and, through
// cobra's inheritance, on all of its subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	usage := template.Must(template.New("usage").Funcs(h.funcs()).Parse(usageTemplate))
	help := template.Must(template.New("help").Funcs(h.funcs()).Parse(helpTemplate))

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		if err := usage.Execute(command.OutOrStderr(), command); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := help.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
