package generation

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/vividoc-ai/vividoc/pkg/jobs"
	"github.com/vividoc-ai/vividoc/pkg/llm"
	"github.com/vividoc-ai/vividoc/pkg/spec"
)

// Evaluator is the downstream quality-check collaborator. Its failure
// is captured as data on the document metadata, never propagated.
type Evaluator interface {
	Evaluate(doc spec.GeneratedDocument) (map[string]any, error)
}

// DocumentMetadata describes one generated document owned by the
// service.
type DocumentMetadata struct {
	DocumentID string         `json:"document_id"`
	CreatedAt  time.Time      `json:"created_at"`
	SpecID     string         `json:"spec_id"`
	HTMLPath   string         `json:"html_file_path"`
	Evaluation map[string]any `json:"evaluation,omitempty"`
}

// ServiceConfig configures the generation service.
type ServiceConfig struct {
	// Model passed to the backend for both planning and generation.
	Model string
	// MaxAttempts is the per-stage retry budget.
	MaxAttempts int
	// Resume enables snapshot-based stage skipping.
	Resume bool
	// MaxConcurrentJobs bounds generation jobs running at once.
	// <= 0 means unbounded is replaced with a default of 4.
	MaxConcurrentJobs int64
}

// Service composes the job registry, the generation engine and the
// progress bridge. It is the single place where engine failures are
// translated into registry state; the engine and the registry never
// call each other directly.
type Service struct {
	cfg       ServiceConfig
	registry  *jobs.Registry
	client    llm.Client
	store     *spec.Store
	planner   *spec.Planner
	evaluator Evaluator
	sem       *semaphore.Weighted

	mu        sync.RWMutex
	documents map[string]DocumentMetadata
	jobSpecs  map[string]string
}

// NewService creates a generation service. evaluator may be nil to skip
// the quality check.
func NewService(cfg ServiceConfig, registry *jobs.Registry, client llm.Client, store *spec.Store, evaluator Evaluator) *Service {
	limit := cfg.MaxConcurrentJobs
	if limit <= 0 {
		limit = 4
	}
	return &Service{
		cfg:       cfg,
		registry:  registry,
		client:    client,
		store:     store,
		planner:   spec.NewPlanner(client, cfg.Model),
		evaluator: evaluator,
		sem:       semaphore.NewWeighted(limit),
		documents: make(map[string]DocumentMetadata),
		jobSpecs:  make(map[string]string),
	}
}

// StartPlanning creates a spec-generation job for a topic and returns
// its id. The worker runs the planner, persists the spec under its
// deterministic id and completes the job with {spec_id}.
func (s *Service) StartPlanning(topic string) string {
	jobID := s.registry.Create(jobs.KindSpecGeneration)

	s.registry.Spawn(jobID, func() {
		doc, err := s.planner.Run(context.Background(), topic)
		if err != nil {
			s.registry.Fail(jobID, err.Error())
			return
		}

		specID := spec.IDForTopic(topic)
		if err := s.store.Save(specID, doc); err != nil {
			s.registry.Fail(jobID, err.Error())
			return
		}

		s.registry.Complete(jobID, map[string]any{"spec_id": specID})
	})

	return jobID
}

// StartGeneration creates a document-generation job for a stored spec
// and returns the job id immediately. Progress is observable through
// the registry while the worker runs.
func (s *Service) StartGeneration(specID string, doc spec.DocumentSpec) string {
	jobID := s.registry.Create(jobs.KindDocumentGeneration)

	s.mu.Lock()
	s.jobSpecs[jobID] = specID
	s.mu.Unlock()

	s.registry.Spawn(jobID, func() {
		s.runGeneration(jobID, specID, doc)
	})

	return jobID
}

// runGeneration is the job worker: it seeds the unit-progress list, runs
// the engine behind the bridge, evaluates best-effort, stores the
// document and drives the job to its terminal state. Any error escaping
// the engine fails the job with a human-readable message.
func (s *Service) runGeneration(jobID, specID string, doc spec.DocumentSpec) {
	if err := s.sem.Acquire(context.Background(), 1); err != nil {
		s.registry.Fail(jobID, fmt.Sprintf("acquire worker slot: %v", err))
		return
	}
	defer s.sem.Release(1)

	units := make([]jobs.UnitProgress, len(doc.Units))
	for i, unit := range doc.Units {
		units[i] = jobs.UnitProgress{
			UnitID: scopeID(i + 1),
			Title:  unit.ID,
			Status: jobs.StagePending,
		}
	}

	phase := jobs.PhaseExecuting
	zero := 0.0
	s.registry.Update(jobID, jobs.Update{
		Phase:          &phase,
		OverallPercent: &zero,
		Units:          units,
	})

	bridge := NewBridge(s.registry, jobID, units)

	outputDir := s.store.Dir(specID)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		s.registry.Fail(jobID, fmt.Sprintf("prepare output dir: %v", err))
		return
	}

	engine := NewEngine(EngineConfig{
		Model:       s.cfg.Model,
		MaxAttempts: s.cfg.MaxAttempts,
		OutputDir:   outputDir,
		Resume:      s.cfg.Resume,
	}, s.client)

	generated, err := engine.Run(context.Background(), doc, bridge.OnEvent)
	if err != nil {
		s.registry.Fail(jobID, err.Error())
		return
	}

	evaluating := jobs.PhaseEvaluating
	almostDone := 95.0
	empty := ""
	noStage := jobs.StageStatus("")
	s.registry.Update(jobID, jobs.Update{
		Phase:          &evaluating,
		OverallPercent: &almostDone,
		CurrentUnit:    &empty,
		CurrentStage:   &noStage,
		Units:          units,
	})

	evaluation := s.evaluate(generated)

	documentID := uuid.NewString()
	meta := DocumentMetadata{
		DocumentID: documentID,
		CreatedAt:  time.Now(),
		SpecID:     specID,
		HTMLPath:   generated.HTMLPath,
		Evaluation: evaluation,
	}

	s.mu.Lock()
	s.documents[documentID] = meta
	s.mu.Unlock()

	s.registry.Complete(jobID, map[string]any{"document_id": documentID})
}

// evaluate runs the quality check and converts a failure into data
// instead of propagating it; evaluation is supplementary and must not
// fail the job.
func (s *Service) evaluate(doc spec.GeneratedDocument) map[string]any {
	if s.evaluator == nil {
		return nil
	}
	result, err := s.evaluator.Evaluate(doc)
	if err != nil {
		log.Warn().Str("component", "generation").Err(err).Msg("Quality check failed, recording error")
		return map[string]any{"error": err.Error()}
	}
	return result
}

// GetDocument returns metadata for a generated document.
func (s *Service) GetDocument(documentID string) (DocumentMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.documents[documentID]
	if !ok {
		return DocumentMetadata{}, &NotFoundError{DocumentID: documentID}
	}
	return meta, nil
}

// GetHTML reads the generated HTML for a document.
func (s *Service) GetHTML(documentID string) (string, error) {
	meta, err := s.GetDocument(documentID)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(meta.HTMLPath)
	if err != nil {
		return "", fmt.Errorf("read document html: %w", err)
	}
	return string(content), nil
}

// SpecIDForJob returns the spec a generation job was started from, or
// "" when the job is unknown.
func (s *Service) SpecIDForJob(jobID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobSpecs[jobID]
}
