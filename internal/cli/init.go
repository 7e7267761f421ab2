package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/plainedit/internal/configloader"
	"github.com/yaklabco/plainedit/internal/logging"
	"github.com/yaklabco/plainedit/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new plainedit configuration file",
		Long: `Create a new .plainedit.yml configuration file in the current directory
with sensible defaults.

Examples:
  plainedit init                     Create minimal .plainedit.yml
  plainedit init --full              Create full config with every option documented
  plainedit init --format json       Create .plainedit.json instead
  plainedit init --output custom.yml Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with every option documented")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .plainedit.yml or .plainedit.json)")

	return cmd
}

func runInit(flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".plainedit.yml"
		if flags.format == formatJSON {
			outputPath = ".plainedit.json"
		}
	}
	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := configloader.WriteConfig(absPath, content, flags.force); err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if flags.format == formatJSON {
		logger.Info("json files are not discovered automatically; pass them with --config")
	}
	logger.Info("run 'plainedit config show' to see the resolved configuration")

	return nil
}
