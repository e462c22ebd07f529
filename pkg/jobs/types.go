// Package jobs provides the in-memory registry that tracks long-running
// generation jobs and their progress. Workers mutate jobs exclusively
// through Registry methods; callers poll with Get.
package jobs

import "time"

// Kind identifies what a job produces.
type Kind string

const (
	// KindSpecGeneration is a planning job that produces a document spec.
	KindSpecGeneration Kind = "spec_generation"
	// KindDocumentGeneration is an execution job that produces a document.
	KindDocumentGeneration Kind = "document_generation"
)

// Status is the lifecycle state of a job.
// Transitions are running -> completed or running -> failed, exactly once.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Phase is the pipeline phase a job is currently in.
type Phase string

const (
	PhasePlanning   Phase = "planning"
	PhaseExecuting  Phase = "executing"
	PhaseEvaluating Phase = "evaluating"
)

// StageStatus tracks how far a single unit has progressed.
// A unit never regresses once it reaches StageCompleted.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageOne       StageStatus = "stage1"
	StageTwo       StageStatus = "stage2"
	StageCompleted StageStatus = "completed"
)

// UnitProgress is the progress record for a single unit of a document spec.
type UnitProgress struct {
	UnitID string      `json:"unit_id"`
	Title  string      `json:"title"`
	Status StageStatus `json:"status"`
}

// Progress is the progress snapshot stored on a job.
// Units is fixed-length for the life of a job (one entry per spec unit,
// spec order) once the worker seeds it.
type Progress struct {
	Phase          Phase          `json:"phase"`
	OverallPercent float64        `json:"overall_percent"`
	CurrentUnit    string         `json:"current_unit,omitempty"`
	CurrentStage   StageStatus    `json:"current_stage,omitempty"`
	Units          []UnitProgress `json:"units"`
}

// Job is one tracked asynchronous run.
// Result is present only when Status is completed, Error only when failed.
type Job struct {
	ID        string         `json:"job_id"`
	Kind      Kind           `json:"job_type"`
	Status    Status         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	Progress  Progress       `json:"progress"`
	Result    map[string]any `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Update carries a partial progress mutation. Nil fields are left
// untouched; a non-nil field overwrites the stored value. Units replaces
// the whole list when non-nil.
type Update struct {
	Phase          *Phase
	OverallPercent *float64
	CurrentUnit    *string
	CurrentStage   *StageStatus
	Units          []UnitProgress
}
