package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vividoc-ai/vividoc/cmd/vividoc/internal/format"
	"github.com/vividoc-ai/vividoc/pkg/spec"
)

// NewPlanCommand creates the 'vividoc plan' command.
//
// Plan runs the educational planner synchronously: it asks the backend
// for a document specification, validates it, and stores it in the
// workspace. The spec can then be reviewed or edited before running
// 'vividoc generate'.
func NewPlanCommand() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:     "plan <topic>",
		Short:   "Plan a document specification for a topic",
		GroupID: "generate",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)
			topic := strings.TrimSpace(strings.Join(args, " "))

			deps, err := buildDeps(cmd)
			if err != nil {
				return formatter.PrintError(err)
			}

			planner := spec.NewPlanner(deps.Client, deps.Config.Generation.Model)
			doc, err := planner.Run(cmd.Context(), topic)
			if err != nil {
				return formatter.PrintError(fmt.Errorf("plan topic %q: %w", topic, err))
			}

			id := spec.IDForTopic(doc.Topic)
			if err := deps.Store.Save(id, doc); err != nil {
				return formatter.PrintError(fmt.Errorf("store spec: %w", err))
			}

			if asYAML {
				encoded, err := yaml.Marshal(doc)
				if err != nil {
					return formatter.PrintError(err)
				}
				cmd.Print(string(encoded))
				return formatter.PrintSummary(fmt.Sprintf("Spec %s stored (%d units)", id, len(doc.Units)))
			}

			rows := make([][]string, 0, len(doc.Units))
			for _, unit := range doc.Units {
				rows = append(rows, []string{unit.ID, unit.Summary})
			}
			if err := formatter.PrintTable([]string{"Unit", "Summary"}, rows); err != nil {
				return err
			}

			return formatter.PrintSummary(fmt.Sprintf("Spec %s stored (%d units)", id, len(doc.Units)))
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the planned spec as YAML")

	return cmd
}
