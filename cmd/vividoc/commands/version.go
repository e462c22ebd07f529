package commands

import (
	"github.com/spf13/cobra"

	"github.com/vividoc-ai/vividoc/cmd/vividoc/internal/format"
	"github.com/vividoc-ai/vividoc/pkg/version"
)

// NewVersionCommand creates the 'vividoc version' command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print version information",
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)

			if flag := cmd.Flags().Lookup("output"); flag != nil && format.ParseMode(flag.Value.String()) == format.ModeJSON {
				return formatter.PrintJSON(version.Get())
			}

			cmd.Println(version.Info())
			return nil
		},
	}
}
