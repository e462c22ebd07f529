// Package server provides the Cobra command implementation for the ViviDoc
// server lifecycle. It wires CLI flags to the server runtime and handles the
// start command.
package server

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vividoc-ai/vividoc/cmd/vividoc/internal/format"
	"github.com/vividoc-ai/vividoc/pkg/appctx"
	"github.com/vividoc-ai/vividoc/pkg/config"
	"github.com/vividoc-ai/vividoc/pkg/evaluator"
	"github.com/vividoc-ai/vividoc/pkg/generation"
	"github.com/vividoc-ai/vividoc/pkg/jobs"
	"github.com/vividoc-ai/vividoc/pkg/llm"
	"github.com/vividoc-ai/vividoc/pkg/server/app"
	"github.com/vividoc-ai/vividoc/pkg/spec"
	"github.com/vividoc-ai/vividoc/pkg/workspace"
)

// newStartServerCommand creates and returns the 'vividoc server start' command.
//
// This command initializes the ViviDoc server runtime, which includes:
//   - HTTP API server with REST endpoints (/api/v1/specs, /api/v1/documents, ...)
//   - Health and readiness endpoints (/healthz, /readyz)
//   - Background generation jobs with bounded concurrency
//
// The server runs until interrupted (SIGINT/SIGTERM) or context cancellation,
// then performs graceful shutdown.
//
// Example usage:
//
//	vividoc server start
//	vividoc server start --server.addr 0.0.0.0 --server.port 8080
//	vividoc server start --workspace-dir /data/vividoc
func newStartServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the ViviDoc server",
		Long: `Start the ViviDoc server process.

The server hosts the REST API for planning specs, running document
generation jobs, polling progress, and retrieving generated documents.

The server runs until interrupted (Ctrl+C) or killed, performing graceful
shutdown to drain in-flight requests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)

			manager, ok := appctx.Config(cmd.Context())
			if !ok {
				return formatter.PrintError(fmt.Errorf("configuration unavailable on command context"))
			}
			cfg := manager.Get()

			root, ok := workspace.FromContext(cmd.Context())
			if !ok {
				return formatter.PrintError(fmt.Errorf("workspace unavailable; the server requires a workspace"))
			}

			// One server per workspace.
			lock, err := workspace.Lock(root)
			if err != nil {
				return formatter.PrintError(err)
			}
			defer func() { _ = lock.Unlock() }()

			store, err := spec.NewStore(workspace.OutputsDir(root))
			if err != nil {
				return formatter.PrintError(fmt.Errorf("open spec store: %w", err))
			}

			client, err := llm.NewClient(cfg.LLM.Provider, llm.ProviderConfig{
				BaseURL: cfg.LLM.BaseURL,
				APIKey:  cfg.LLM.APIKey,
				Timeout: cfg.LLM.Timeout,
			})
			if err != nil {
				return formatter.PrintError(fmt.Errorf("create backend client: %w", err))
			}

			registry := jobs.NewRegistry()
			svc := generation.NewService(generation.ServiceConfig{
				Model:             cfg.Generation.Model,
				MaxAttempts:       cfg.Generation.MaxAttempts,
				Resume:            cfg.Generation.Resume,
				MaxConcurrentJobs: cfg.Generation.MaxConcurrentJobs,
			}, registry, client, store, evaluator.New())

			deps := &app.Deps{
				Specs:      store,
				Generation: svc,
				Registry:   registry,
				Config:     manager,
				Logger:     log.With().Str("component", "server").Logger(),
			}

			application, err := app.New(cmd.Context(), cfg.Server, deps)
			if err != nil {
				return formatter.PrintError(fmt.Errorf("initialize server: %w", err))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := application.Run(ctx); err != nil {
				return formatter.PrintError(err)
			}
			return nil
		},
	}

	config.BindServerFlags(cmd.Flags())

	return cmd
}
