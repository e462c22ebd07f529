package api

import (
	"sync/atomic"

	"github.com/vividoc-ai/vividoc/pkg/generation"
	"github.com/vividoc-ai/vividoc/pkg/jobs"
	"github.com/vividoc-ai/vividoc/pkg/spec"
)

// Deps holds dependencies for API handlers.
// This pattern enables dependency injection and easier testing.
type Deps struct {
	// Specs stores document specifications on disk
	Specs *spec.Store

	// Generation runs planning and document generation jobs
	Generation *generation.Service

	// Registry tracks asynchronous job state for polling
	Registry *jobs.Registry

	// Config holds API-level settings (handler timeout)
	Config Config

	// Ready flag for readiness check
	Ready *atomic.Bool
}
