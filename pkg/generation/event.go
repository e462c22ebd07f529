// Package generation implements the document generation engine: a
// sequential per-unit state machine that drives the generative backend
// through a two-stage template-filling protocol, with bounded retries,
// structural validation and resume support. It also provides the
// progress bridge and the service that ties the engine to the job
// registry.
package generation

import "github.com/vividoc-ai/vividoc/pkg/jobs"

// Event is one engine progress transition. UnitID and Stage are empty
// for phase-only events (for example the single event emitted at run
// start, before any unit is in focus).
type Event struct {
	Phase  jobs.Phase
	UnitID string
	Stage  jobs.StageStatus
}

// EventFunc receives engine events. Calls are synchronous: the engine
// does not proceed to the next step until the callback returns.
type EventFunc func(Event)
