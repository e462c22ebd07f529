package server

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the 'vividoc server' command group.
func NewCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     "server",
		Short:   "ViviDoc server",
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	command.SuggestionsMinimumDistance = 1

	// Subcommands
	command.AddCommand(newStartServerCommand())

	return command
}
