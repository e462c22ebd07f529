package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	serverCmd "github.com/vividoc-ai/vividoc/cmd/vividoc/commands/server"
	"github.com/vividoc-ai/vividoc/pkg/appctx"
	"github.com/vividoc-ai/vividoc/pkg/config"
	"github.com/vividoc-ai/vividoc/pkg/logging"
	"github.com/vividoc-ai/vividoc/pkg/workspace"
)

const cliExecutable = "vividoc"

// NewCommand constructs the top-level vividoc CLI command, wiring global
// flags, configuration loading, and shared workspace preparation.
func NewCommand() *cobra.Command {
	var (
		configFile        string
		workspaceDir      string
		workspaceDisabled bool
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "ViviDoc generates interactive educational documents",
		Long: `ViviDoc turns a topic into a self-contained interactive HTML document.

It plans a document specification with a generative backend, fills each
knowledge unit in two stages (text, then interactivity), and validates
the result before writing it to the workspace.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			manager := config.NewManager()
			if err := manager.Load(cmd.Flags(), configFile); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			cfg := manager.Get()
			if err := logging.Configure(cfg.Log.Level, cfg.Log.Format, cfg.Log.File); err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			ctx := appctx.WithConfig(cmd.Context(), manager)

			if !workspaceDisabled {
				root := workspaceDir
				if root == "" {
					root = cfg.Server.WorkspaceDir
				}
				prepared, err := workspace.Prepare(root)
				if err != nil {
					return fmt.Errorf("prepare workspace: %w", err)
				}
				ctx = workspace.WithContext(ctx, prepared)
				log.Info().Str("workspace", prepared).Msg("workspace ready")
			} else {
				log.Info().Msg("workspace disabled for this run")
			}

			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}
			return nil
		},
	}

	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().StringVar(&workspaceDir, "workspace-dir", "", "Override workspace root directory")
	cmd.PersistentFlags().BoolVar(&workspaceDisabled, "no-workspace", false, "Disable workspace persistence for this run")
	cmd.PersistentFlags().String("output", "table", "Output format (table, json)")
	cmd.PersistentFlags().Bool("quiet", false, "Suppress summary output")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddGroup(&cobra.Group{ID: "generate", Title: "Generation Commands"})
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands"})

	cmd.AddCommand(serverCmd.NewCommand())
	cmd.AddCommand(NewPlanCommand())
	cmd.AddCommand(NewGenerateCommand())
	cmd.AddCommand(NewSpecsCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
