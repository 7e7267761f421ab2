// Package cli provides the Cobra command structure for plainedit.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/plainedit/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root plainedit command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "plainedit",
		Short: "A keystroke-driven plain text editor",
		Long: `plainedit edits plain text files the way a keyboard does.

Every edit is a keystroke replayed through a token-based state machine that
keeps an in-memory document and the file on disk in step. Files can be
edited interactively in the terminal, scripted one at a time, or replayed
in bulk across a directory tree.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			switch {
			case debug:
				logging.SetLevel("debug")
			case logLevel != "":
				logging.SetLevel(logLevel)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level: debug, info, warn, error")

	// Add subcommands.
	rootCmd.AddGroup(commandGroups()...)
	addToGroup(rootCmd, groupEditing,
		takesKeyScript(newEditCommand()),
		takesKeyScript(newReplayCommand()),
		newTUICommand(),
	)
	addToGroup(rootCmd, groupInspection,
		takesKeyScript(newCatCommand()),
		newInfoCommand(),
		takesKeyScript(newKeysCommand()),
	)
	addToGroup(rootCmd, groupSetup,
		newConfigCommand(),
		newInitCommand(),
		newVersionCommand(info),
	)
	rootCmd.SetHelpCommandGroupID(groupSetup)
	rootCmd.SetCompletionCommandGroupID(groupSetup)

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

func addToGroup(parent *cobra.Command, groupID string, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.GroupID = groupID
		parent.AddCommand(cmd)
	}
}
