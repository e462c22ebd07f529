package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vividoc-ai/vividoc/cmd/vividoc/internal/format"
)

// NewSpecsCommand creates the 'vividoc specs' command group for
// inspecting and managing stored document specifications.
func NewSpecsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "specs",
		Short:   "Manage stored document specifications",
		GroupID: "core",
	}

	cmd.AddCommand(newSpecsListCommand())
	cmd.AddCommand(newSpecsShowCommand())
	cmd.AddCommand(newSpecsDeleteCommand())

	return cmd
}

func newSpecsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored specs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)

			deps, err := buildDeps(cmd)
			if err != nil {
				return formatter.PrintError(err)
			}

			rows := [][]string{}
			for _, meta := range deps.Store.List() {
				rows = append(rows, []string{meta.SpecID, meta.Topic, meta.CreatedAt.Format("2006-01-02 15:04")})
			}
			return formatter.PrintTable([]string{"ID", "Topic", "Created"}, rows)
		},
	}
}

func newSpecsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <spec-id>",
		Short: "Show a stored spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)

			deps, err := buildDeps(cmd)
			if err != nil {
				return formatter.PrintError(err)
			}

			doc, err := deps.Store.Get(args[0])
			if err != nil {
				return formatter.PrintError(err)
			}
			return formatter.PrintJSON(doc)
		},
	}
}

func newSpecsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <spec-id>",
		Short: "Delete a stored spec and its generated output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)

			deps, err := buildDeps(cmd)
			if err != nil {
				return formatter.PrintError(err)
			}

			if err := deps.Store.Delete(args[0]); err != nil {
				return formatter.PrintError(err)
			}
			return formatter.PrintSummary(fmt.Sprintf("Spec %s deleted", args[0]))
		},
	}
}
