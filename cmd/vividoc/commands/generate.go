package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/vividoc-ai/vividoc/cmd/vividoc/internal/format"
	"github.com/vividoc-ai/vividoc/pkg/jobs"
	"github.com/vividoc-ai/vividoc/pkg/spec"
)

// progressPollInterval is how often generate polls job state for display.
const progressPollInterval = 500 * time.Millisecond

// NewGenerateCommand creates the 'vividoc generate' command.
//
// Generate runs a full document generation for a stored spec and blocks
// until the job finishes, printing progress as units complete. If the
// argument does not match a stored spec id it is treated as a topic and
// planned first, so 'vividoc generate "gravity"' works end to end.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate <spec-id | topic>",
		Short:   "Generate an interactive document from a spec or topic",
		GroupID: "generate",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)

			deps, err := buildDeps(cmd)
			if err != nil {
				return formatter.PrintError(err)
			}

			specID := args[0]
			doc, err := deps.Store.Get(specID)
			if err != nil {
				// Fall back to treating the argument as a topic.
				planner := spec.NewPlanner(deps.Client, deps.Config.Generation.Model)
				planned, planErr := planner.Run(cmd.Context(), specID)
				if planErr != nil {
					return formatter.PrintError(fmt.Errorf("no spec %q and planning failed: %w", specID, planErr))
				}
				specID = spec.IDForTopic(planned.Topic)
				if err := deps.Store.Save(specID, planned); err != nil {
					return formatter.PrintError(fmt.Errorf("store spec: %w", err))
				}
				doc = planned
				_ = formatter.PrintSummary(fmt.Sprintf("Planned spec %s (%d units)", specID, len(doc.Units)))
			}

			jobID := deps.Service.StartGeneration(specID, doc)

			job, err := waitForJob(cmd, deps.Registry, jobID, formatter)
			if err != nil {
				return formatter.PrintError(err)
			}

			documentID := cast.ToString(job.Result["document_id"])
			meta, err := deps.Service.GetDocument(documentID)
			if err != nil {
				return formatter.PrintError(err)
			}

			return formatter.PrintSummary(fmt.Sprintf("Document %s written to %s", documentID, meta.HTMLPath))
		},
	}

	return cmd
}

// waitForJob polls the registry until the job reaches a terminal state,
// printing progress transitions along the way.
func waitForJob(cmd *cobra.Command, registry *jobs.Registry, jobID string, formatter format.Formatter) (jobs.Job, error) {
	lastPercent := -1.0
	for {
		select {
		case <-cmd.Context().Done():
			return jobs.Job{}, cmd.Context().Err()
		case <-time.After(progressPollInterval):
		}

		job, ok := registry.Get(jobID)
		if !ok {
			return jobs.Job{}, fmt.Errorf("job %s disappeared from registry", jobID)
		}

		if job.Progress.OverallPercent != lastPercent {
			lastPercent = job.Progress.OverallPercent
			_ = formatter.PrintProgress(
				job.Progress.OverallPercent,
				string(job.Progress.Phase),
				job.Progress.CurrentUnit,
				string(job.Progress.CurrentStage),
			)
		}

		switch job.Status {
		case jobs.StatusCompleted:
			return job, nil
		case jobs.StatusFailed:
			return job, fmt.Errorf("generation failed: %s", job.Error)
		}
	}
}
