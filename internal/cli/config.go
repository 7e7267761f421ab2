package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/plainedit/internal/configloader"
	"github.com/yaklabco/plainedit/pkg/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect the configuration plainedit resolves from its config files,
PLAINEDIT_* environment variables and flags.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			content, err := cfg.ToYAMLWithHeader("Resolved plainedit configuration")
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "paths",
		Short: "Print where configuration files are looked up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := configloader.DiscoverPaths(commandContext(cmd), "")
			if err != nil {
				return fmt.Errorf("discover config paths: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, entry := range [][2]string{
				{"system", paths.System},
				{"user", paths.User},
				{"project", paths.Project},
			} {
				location := entry[1]
				if location == "" {
					location = "(none)"
				}
				fmt.Fprintf(out, "%-8s %s\n", entry[0], location)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "env",
		Short: "List supported environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, entry := range configloader.ListEnvVars() {
				fmt.Fprintf(out, "%-28s %s\n", entry[0], entry[1])
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "defaults",
		Short: "Print the built-in defaults as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := config.NewConfig().ToYAML()
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	})

	return cmd
}
