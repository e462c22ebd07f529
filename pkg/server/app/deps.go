package app

import (
	"github.com/rs/zerolog"

	"github.com/vividoc-ai/vividoc/pkg/config"
	"github.com/vividoc-ai/vividoc/pkg/generation"
	"github.com/vividoc-ai/vividoc/pkg/jobs"
	"github.com/vividoc-ai/vividoc/pkg/spec"
)

// Deps holds dependencies for the server application.
// This pattern enables dependency injection and easier testing.
type Deps struct {
	// Specs stores document specifications under the workspace
	Specs *spec.Store

	// Generation runs planning and document generation jobs
	Generation *generation.Service

	// Registry tracks asynchronous job state
	Registry *jobs.Registry

	// Config manager for runtime configuration
	Config *config.Manager

	// Logger for structured logging (injected by caller)
	Logger zerolog.Logger
}
