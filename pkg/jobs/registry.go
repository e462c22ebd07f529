package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Registry owns every Job for the life of the process. All access goes
// through its mutex; the lock is held only for the duration of a single
// map operation, never across backend calls or file I/O.
//
// Jobs are never deleted. Update, Complete and Fail against an unknown id
// are silent no-ops so a late worker can never crash a poller (or vice
// versa).
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

// NewRegistry creates an empty job registry.
func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]*Job),
	}
}

// Create allocates a fresh job in the running state and returns its id.
// Spec-generation jobs start in the planning phase, everything else in
// executing. Safe for concurrent use; ids never collide.
func (r *Registry) Create(kind Kind) string {
	id := uuid.NewString()

	phase := PhaseExecuting
	if kind == KindSpecGeneration {
		phase = PhasePlanning
	}

	r.mu.Lock()
	r.jobs[id] = &Job{
		ID:        id,
		Kind:      kind,
		Status:    StatusRunning,
		CreatedAt: time.Now(),
		Progress: Progress{
			Phase:          phase,
			OverallPercent: 0.0,
		},
	}
	r.mu.Unlock()

	log.Debug().
		Str("component", "jobs").
		Str("job_id", id).
		Str("job_type", string(kind)).
		Msg("Job created")

	return id
}

// Spawn runs worker on its own goroutine and returns immediately.
// The worker is expected to drive this job to a terminal state via
// Update/Complete/Fail.
func (r *Registry) Spawn(jobID string, worker func()) {
	log.Debug().
		Str("component", "jobs").
		Str("job_id", jobID).
		Msg("Spawning job worker")
	go worker()
}

// Update merges the provided fields into the stored progress. Nil fields
// are untouched; unknown job ids are ignored.
func (r *Registry) Update(jobID string, upd Update) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return
	}

	if upd.Phase != nil {
		job.Progress.Phase = *upd.Phase
	}
	if upd.OverallPercent != nil {
		job.Progress.OverallPercent = *upd.OverallPercent
	}
	if upd.CurrentUnit != nil {
		job.Progress.CurrentUnit = *upd.CurrentUnit
	}
	if upd.CurrentStage != nil {
		job.Progress.CurrentStage = *upd.CurrentStage
	}
	if upd.Units != nil {
		job.Progress.Units = cloneUnits(upd.Units)
	}
}

// Get returns an immutable snapshot of a job, or false when the id is
// unknown. The snapshot shares no mutable state with the registry, so a
// poller can never observe a torn write.
func (r *Registry) Get(jobID string) (Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return snapshot(job), true
}

// Complete marks a job completed, stores its result and forces overall
// percent to 100.
func (r *Registry) Complete(jobID string, result map[string]any) {
	r.mu.Lock()
	job, ok := r.jobs[jobID]
	if ok {
		job.Status = StatusCompleted
		job.Result = result
		job.Progress.OverallPercent = 100.0
	}
	r.mu.Unlock()

	if ok {
		log.Info().
			Str("component", "jobs").
			Str("job_id", jobID).
			Msg("Job completed")
	}
}

// Fail marks a job failed with a human-readable message. Progress fields
// keep their last recorded values.
func (r *Registry) Fail(jobID string, errMsg string) {
	r.mu.Lock()
	job, ok := r.jobs[jobID]
	if ok {
		job.Status = StatusFailed
		job.Error = errMsg
	}
	r.mu.Unlock()

	if ok {
		log.Error().
			Str("component", "jobs").
			Str("job_id", jobID).
			Str("error", errMsg).
			Msg("Job failed")
	}
}

func snapshot(job *Job) Job {
	out := *job
	out.Progress.Units = cloneUnits(job.Progress.Units)
	if job.Result != nil {
		result := make(map[string]any, len(job.Result))
		for k, v := range job.Result {
			result[k] = v
		}
		out.Result = result
	}
	return out
}

func cloneUnits(units []UnitProgress) []UnitProgress {
	if units == nil {
		return nil
	}
	out := make([]UnitProgress, len(units))
	copy(out, units)
	return out
}
