package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vividoc-ai/vividoc/pkg/appctx"
	"github.com/vividoc-ai/vividoc/pkg/config"
	"github.com/vividoc-ai/vividoc/pkg/evaluator"
	"github.com/vividoc-ai/vividoc/pkg/generation"
	"github.com/vividoc-ai/vividoc/pkg/jobs"
	"github.com/vividoc-ai/vividoc/pkg/llm"
	"github.com/vividoc-ai/vividoc/pkg/spec"
	"github.com/vividoc-ai/vividoc/pkg/workspace"
)

// cliDeps bundles the domain components a generation command needs.
type cliDeps struct {
	Config   config.Config
	Store    *spec.Store
	Client   llm.Client
	Registry *jobs.Registry
	Service  *generation.Service
}

// buildDeps assembles the spec store, backend client, and generation
// service from the command context. Requires the root command to have
// prepared the workspace and loaded configuration.
func buildDeps(cmd *cobra.Command) (*cliDeps, error) {
	manager, ok := appctx.Config(cmd.Context())
	if !ok {
		return nil, fmt.Errorf("configuration unavailable on command context")
	}
	cfg := manager.Get()

	root, ok := workspace.FromContext(cmd.Context())
	if !ok {
		return nil, fmt.Errorf("workspace unavailable; remove --no-workspace to use this command")
	}

	store, err := spec.NewStore(workspace.OutputsDir(root))
	if err != nil {
		return nil, fmt.Errorf("open spec store: %w", err)
	}

	client, err := llm.NewClient(cfg.LLM.Provider, llm.ProviderConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Timeout: cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}

	registry := jobs.NewRegistry()
	svc := generation.NewService(generation.ServiceConfig{
		Model:             cfg.Generation.Model,
		MaxAttempts:       cfg.Generation.MaxAttempts,
		Resume:            cfg.Generation.Resume,
		MaxConcurrentJobs: cfg.Generation.MaxConcurrentJobs,
	}, registry, client, store, evaluator.New())

	return &cliDeps{
		Config:   cfg,
		Store:    store,
		Client:   client,
		Registry: registry,
		Service:  svc,
	}, nil
}
