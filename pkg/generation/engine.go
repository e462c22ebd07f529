package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vividoc-ai/vividoc/pkg/htmlcheck"
	"github.com/vividoc-ai/vividoc/pkg/jobs"
	"github.com/vividoc-ai/vividoc/pkg/llm"
	"github.com/vividoc-ai/vividoc/pkg/spec"
)

// DefaultMaxAttempts is the stage retry budget when none is configured.
const DefaultMaxAttempts = 3

// EngineConfig configures one engine run.
type EngineConfig struct {
	// Model is the backend model identifier.
	Model string
	// MaxAttempts bounds retries per stage. <= 0 means DefaultMaxAttempts.
	MaxAttempts int
	// OutputDir receives document.html, states/ and generated_doc.json.
	OutputDir string
	// Resume skips stages that left a snapshot in a prior partial run.
	Resume bool
}

// Engine runs the two-stage generation state machine over a document
// spec. An Engine holds no state across runs; each Run is determined by
// (spec, on-disk snapshots).
//
// Units are processed strictly in spec order, sequentially. Per unit the
// machine is pending -> stage1 -> stage2 -> completed, with a validation
// sub-step between stage2 and completed that can only clear the unit's
// Validated flag, never block progression.
type Engine struct {
	cfg    EngineConfig
	client llm.Client
}

// NewEngine creates an engine bound to a backend client.
func NewEngine(cfg EngineConfig, client llm.Client) *Engine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	return &Engine{cfg: cfg, client: client}
}

// Run generates the document for doc, reporting each transition to
// report (which may be nil). Backend rejections are retried and then
// tolerated; only infrastructure failures (output dir creation, file
// I/O, metadata serialization) are returned as errors.
func (e *Engine) Run(ctx context.Context, doc spec.DocumentSpec, report EventFunc) (spec.GeneratedDocument, error) {
	emit := report
	if emit == nil {
		emit = func(Event) {}
	}

	emit(Event{Phase: jobs.PhaseExecuting})

	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return spec.GeneratedDocument{}, fmt.Errorf("create output dir: %w", err)
	}
	htmlPath := filepath.Join(e.cfg.OutputDir, "document.html")
	statesDir := filepath.Join(e.cfg.OutputDir, "states")
	if err := os.MkdirAll(statesDir, 0o755); err != nil {
		return spec.GeneratedDocument{}, fmt.Errorf("create states dir: %w", err)
	}

	if !e.cfg.Resume || !fileExists(htmlPath) {
		log.Info().Str("component", "engine").Msg("Creating HTML document skeleton")
		if err := writeSkeleton(doc, htmlPath); err != nil {
			return spec.GeneratedDocument{}, err
		}
	} else {
		log.Info().Str("component", "engine").Msg("Resuming from existing HTML document")
	}

	units := make([]spec.UnitState, 0, len(doc.Units))
	total := len(doc.Units)

	for idx, unit := range doc.Units {
		sid := scopeID(idx + 1)
		log.Info().
			Str("component", "engine").
			Str("unit", unit.ID).
			Str("scope", sid).
			Int("index", idx+1).
			Int("total", total).
			Msg("Processing knowledge unit")

		state, err := e.processUnit(ctx, htmlPath, statesDir, unit, sid, emit)
		if err != nil {
			return spec.GeneratedDocument{}, err
		}
		units = append(units, state)

		emit(Event{Phase: jobs.PhaseExecuting, UnitID: sid, Stage: jobs.StageCompleted})
	}

	result := spec.GeneratedDocument{
		Topic:    doc.Topic,
		HTMLPath: htmlPath,
		Units:    units,
	}

	if err := e.writeMetadata(result); err != nil {
		return spec.GeneratedDocument{}, err
	}

	log.Info().Str("component", "engine").Str("path", htmlPath).Msg("HTML document generated")
	return result, nil
}

// processUnit runs one unit through both stages, honoring snapshots when
// resume is enabled: a stage2 snapshot short-circuits the whole unit, a
// stage1 snapshot skips straight to stage 2. Stages are idempotent and
// side-effect free beyond their output files, so re-running is always
// safe; snapshots are purely an optimization.
func (e *Engine) processUnit(ctx context.Context, htmlPath, statesDir string, unit spec.UnitSpec, sid string, emit EventFunc) (spec.UnitState, error) {
	state := spec.UnitState{ID: unit.ID, Summary: unit.Summary}

	if e.cfg.Resume {
		if snapshot := loadState(statesDir, sid, "stage2"); snapshot != "" {
			log.Info().Str("component", "engine").Str("scope", sid).Msg("Resuming: stage 2 already completed")
			if err := os.WriteFile(htmlPath, []byte(snapshot), 0o644); err != nil {
				return state, fmt.Errorf("restore stage2 snapshot: %w", err)
			}
			emit(Event{Phase: jobs.PhaseExecuting, UnitID: sid, Stage: jobs.StageOne})
			emit(Event{Phase: jobs.PhaseExecuting, UnitID: sid, Stage: jobs.StageTwo})
			state.Stage1Completed = true
			state.Stage2Completed = true
			state.Validated = true
			return state, nil
		}

		if snapshot := loadState(statesDir, sid, "stage1"); snapshot != "" {
			log.Info().Str("component", "engine").Str("scope", sid).Msg("Resuming: starting from stage 2")
			if err := os.WriteFile(htmlPath, []byte(snapshot), 0o644); err != nil {
				return state, fmt.Errorf("restore stage1 snapshot: %w", err)
			}
			emit(Event{Phase: jobs.PhaseExecuting, UnitID: sid, Stage: jobs.StageOne})
			state.Stage1Completed = true

			emit(Event{Phase: jobs.PhaseExecuting, UnitID: sid, Stage: jobs.StageTwo})
			finalHTML, err := e.runStage2(ctx, htmlPath, unit, sid)
			if err != nil {
				return state, err
			}
			if err := saveState(statesDir, sid, "stage2", finalHTML); err != nil {
				return state, err
			}
			state.Stage2Completed = true
			state.Validated = e.validateUnit(finalHTML, sid)
			return state, nil
		}
	}

	emit(Event{Phase: jobs.PhaseExecuting, UnitID: sid, Stage: jobs.StageOne})
	stage1HTML, err := e.runStage1(ctx, htmlPath, unit, sid)
	if err != nil {
		return state, err
	}
	if err := saveState(statesDir, sid, "stage1", stage1HTML); err != nil {
		return state, err
	}
	state.Stage1Completed = true

	emit(Event{Phase: jobs.PhaseExecuting, UnitID: sid, Stage: jobs.StageTwo})
	finalHTML, err := e.runStage2(ctx, htmlPath, unit, sid)
	if err != nil {
		return state, err
	}
	if err := saveState(statesDir, sid, "stage2", finalHTML); err != nil {
		return state, err
	}
	state.Stage2Completed = true

	state.Validated = e.validateUnit(finalHTML, sid)
	return state, nil
}

// runStage1 fills the text content of one section. Up to MaxAttempts
// backend calls are made with the same prompt inputs; a call error or a
// response that is not a complete HTML document counts as a rejected
// attempt. When the budget is exhausted the pre-stage content is kept
// and the run proceeds. Degrade-not-fail is deliberate: a persistently
// broken backend leaves stale sections rather than failing the job, so
// exhaustion is logged loudly instead.
func (e *Engine) runStage1(ctx context.Context, htmlPath string, unit spec.UnitSpec, sid string) (string, error) {
	currentHTML, err := os.ReadFile(htmlPath)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		log.Info().
			Str("component", "engine").
			Str("scope", sid).
			Int("attempt", attempt).
			Int("max_attempts", e.cfg.MaxAttempts).
			Msg("Stage 1: generating text content")

		updated, ok := e.attempt(ctx, stage1Prompt(string(currentHTML), sid, unit.TextDescription), sid)
		if !ok {
			continue
		}

		if err := os.WriteFile(htmlPath, []byte(updated), 0o644); err != nil {
			return "", fmt.Errorf("write document: %w", err)
		}
		return updated, nil
	}

	log.Error().
		Str("component", "engine").
		Str("scope", sid).
		Int("attempts", e.cfg.MaxAttempts).
		Msg("Stage 1 exhausted retry budget, keeping previous content")
	return string(currentHTML), nil
}

// runStage2 adds the interactive content. Same contract as runStage1,
// with one difference: after a rejected attempt the next try re-reads
// the last known-good document from disk instead of compounding on a
// rejected draft.
func (e *Engine) runStage2(ctx context.Context, htmlPath string, unit spec.UnitSpec, sid string) (string, error) {
	currentHTML, err := os.ReadFile(htmlPath)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		log.Info().
			Str("component", "engine").
			Str("scope", sid).
			Int("attempt", attempt).
			Int("max_attempts", e.cfg.MaxAttempts).
			Msg("Stage 2: adding interactive content")

		updated, ok := e.attempt(ctx, stage2Prompt(string(currentHTML), sid, unit.InteractionDescription), sid)
		if !ok {
			// Reload the stage-1 content so the retry does not drift.
			currentHTML, err = os.ReadFile(htmlPath)
			if err != nil {
				return "", fmt.Errorf("reload document: %w", err)
			}
			continue
		}

		if err := os.WriteFile(htmlPath, []byte(updated), 0o644); err != nil {
			return "", fmt.Errorf("write document: %w", err)
		}
		return updated, nil
	}

	log.Error().
		Str("component", "engine").
		Str("scope", sid).
		Int("attempts", e.cfg.MaxAttempts).
		Msg("Stage 2 exhausted retry budget, keeping stage 1 content")
	return string(currentHTML), nil
}

// attempt makes one backend call and accepts the response only if it is
// a complete HTML document.
func (e *Engine) attempt(ctx context.Context, prompt, sid string) (string, bool) {
	raw, err := e.client.Generate(ctx, e.cfg.Model, prompt)
	if err != nil {
		log.Warn().Str("component", "engine").Str("scope", sid).Err(err).Msg("Backend call failed, counting as rejected attempt")
		return "", false
	}

	updated := llm.StripFence(raw)
	if !isCompleteDocument(updated) {
		log.Warn().Str("component", "engine").Str("scope", sid).Msg("Backend returned incomplete document, retrying")
		return "", false
	}
	return updated, true
}

func (e *Engine) validateUnit(content, sid string) bool {
	section, found := extractSection(content, sid)
	if !found {
		log.Warn().Str("component", "engine").Str("scope", sid).Msg("Validation warning: section not found in document")
		return false
	}
	ok, reason := htmlcheck.Validate(section)
	if !ok {
		log.Warn().Str("component", "engine").Str("scope", sid).Str("reason", reason).Msg("Validation warning")
	}
	return ok
}

func (e *Engine) writeMetadata(result spec.GeneratedDocument) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document metadata: %w", err)
	}
	path := filepath.Join(e.cfg.OutputDir, "generated_doc.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write document metadata: %w", err)
	}
	return nil
}

func isCompleteDocument(content string) bool {
	trimmed := strings.TrimSpace(content)
	return strings.HasPrefix(trimmed, "<!DOCTYPE html") && strings.Contains(trimmed, "</html>")
}

// extractSection pulls the <section id="..."> subtree out of the full
// document for validation.
func extractSection(content, sid string) (string, bool) {
	pattern := regexp.MustCompile(`(?s)<section[^>]*id="` + regexp.QuoteMeta(sid) + `"[^>]*>.*?</section>`)
	match := pattern.FindString(content)
	return match, match != ""
}

func statePath(statesDir, sid, stage string) string {
	return filepath.Join(statesDir, fmt.Sprintf("%s_%s.html", sid, stage))
}

func saveState(statesDir, sid, stage, content string) error {
	if err := os.WriteFile(statePath(statesDir, sid, stage), []byte(content), 0o644); err != nil {
		return fmt.Errorf("save %s snapshot for %s: %w", stage, sid, err)
	}
	return nil
}

// loadState returns the snapshot content, or "" when none exists.
func loadState(statesDir, sid, stage string) string {
	data, err := os.ReadFile(statePath(statesDir, sid, stage))
	if err != nil {
		return ""
	}
	return string(data)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
