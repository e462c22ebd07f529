package generation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vividoc-ai/vividoc/pkg/jobs"
	"github.com/vividoc-ai/vividoc/pkg/spec"
)

// scriptedClient scripts backend responses per call.
type scriptedClient struct {
	mu    sync.Mutex
	calls int
	fn    func(call int, prompt string) (string, error)
}

func (c *scriptedClient) Generate(_ context.Context, _, prompt string) (string, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	c.mu.Unlock()
	return c.fn(call, prompt)
}

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func alwaysValid(n int) *scriptedClient {
	return &scriptedClient{fn: func(int, string) (string, error) {
		return validDocument(n), nil
	}}
}

func validDocument(n int) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head><title>t</title></head>\n<body>\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "<section class=\"knowledge-unit\" id=\"ku%d\"><div class=\"text-content\"><p>text</p></div><div class=\"interactive-content\"><div>widget</div></div></section>\n", i)
	}
	b.WriteString("</body>\n</html>")
	return b.String()
}

func twoUnitSpec() spec.DocumentSpec {
	return spec.DocumentSpec{
		Topic: "gravity",
		Units: []spec.UnitSpec{
			{ID: "intro", Summary: "s1", TextDescription: "t1", InteractionDescription: "i1"},
			{ID: "detail", Summary: "s2", TextDescription: "t2", InteractionDescription: "i2"},
		},
	}
}

func TestEngine_Run_TwoUnits(t *testing.T) {
	dir := t.TempDir()
	client := alwaysValid(2)
	engine := NewEngine(EngineConfig{Model: "m", OutputDir: dir}, client)

	result, err := engine.Run(context.Background(), twoUnitSpec(), nil)
	require.NoError(t, err)

	require.Equal(t, "gravity", result.Topic)
	require.Equal(t, filepath.Join(dir, "document.html"), result.HTMLPath)
	require.Len(t, result.Units, 2)
	for _, unit := range result.Units {
		require.True(t, unit.Stage1Completed)
		require.True(t, unit.Stage2Completed)
		require.True(t, unit.Validated)
	}

	// 2 stages per unit, first attempt accepted each time.
	require.Equal(t, 4, client.callCount())

	// Snapshots and metadata persisted for resume and inspection.
	for _, name := range []string{"ku1_stage1.html", "ku1_stage2.html", "ku2_stage1.html", "ku2_stage2.html"} {
		_, err := os.Stat(filepath.Join(dir, "states", name))
		require.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(dir, "generated_doc.json"))
	require.NoError(t, err)
}

func TestEngine_Run_EmitsEventsInOrder(t *testing.T) {
	dir := t.TempDir()
	engine := NewEngine(EngineConfig{Model: "m", OutputDir: dir}, alwaysValid(2))

	var events []Event
	_, err := engine.Run(context.Background(), twoUnitSpec(), func(ev Event) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	expected := []Event{
		{Phase: jobs.PhaseExecuting},
		{Phase: jobs.PhaseExecuting, UnitID: "ku1", Stage: jobs.StageOne},
		{Phase: jobs.PhaseExecuting, UnitID: "ku1", Stage: jobs.StageTwo},
		{Phase: jobs.PhaseExecuting, UnitID: "ku1", Stage: jobs.StageCompleted},
		{Phase: jobs.PhaseExecuting, UnitID: "ku2", Stage: jobs.StageOne},
		{Phase: jobs.PhaseExecuting, UnitID: "ku2", Stage: jobs.StageTwo},
		{Phase: jobs.PhaseExecuting, UnitID: "ku2", Stage: jobs.StageCompleted},
	}
	require.Equal(t, expected, events)
}

func TestEngine_Stage1_RetryExhaustionKeepsPreStageContent(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "document.html")
	original := validDocument(1)
	require.NoError(t, os.WriteFile(htmlPath, []byte(original), 0o644))

	client := &scriptedClient{fn: func(int, string) (string, error) {
		return "not a document", nil
	}}
	engine := NewEngine(EngineConfig{Model: "m", MaxAttempts: 3, OutputDir: dir}, client)

	unit := spec.UnitSpec{ID: "intro", Summary: "s", TextDescription: "t", InteractionDescription: "i"}
	content, err := engine.runStage1(context.Background(), htmlPath, unit, "ku1")
	require.NoError(t, err)

	require.Equal(t, original, content, "pre-stage content must be kept on exhaustion")
	require.Equal(t, 3, client.callCount(), "exactly max_attempts tries")

	onDisk, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	require.Equal(t, original, string(onDisk), "document must not be touched by rejected attempts")
}

func TestEngine_BackendErrorsCountAgainstRetryBudget(t *testing.T) {
	dir := t.TempDir()
	client := &scriptedClient{fn: func(int, string) (string, error) {
		return "", errors.New("backend down")
	}}
	engine := NewEngine(EngineConfig{Model: "m", MaxAttempts: 2, OutputDir: dir}, client)

	result, err := engine.Run(context.Background(), twoUnitSpec(), nil)
	require.NoError(t, err, "backend errors degrade, they do not fail the run")

	// 2 units * 2 stages * 2 attempts.
	require.Equal(t, 8, client.callCount())

	// Degraded-but-proceeding: stage flags are set even on exhaustion.
	for _, unit := range result.Units {
		require.True(t, unit.Stage1Completed)
		require.True(t, unit.Stage2Completed)
	}
}

func TestEngine_Stage2_RejectionFallsBackToStage1Content(t *testing.T) {
	dir := t.TempDir()
	stage1Doc := validDocument(1)

	client := &scriptedClient{fn: func(_ int, prompt string) (string, error) {
		if strings.Contains(prompt, "interactive educational visualizations") {
			return "garbage", nil
		}
		return stage1Doc, nil
	}}
	engine := NewEngine(EngineConfig{Model: "m", MaxAttempts: 2, OutputDir: dir}, client)

	oneUnit := twoUnitSpec()
	oneUnit.Units = oneUnit.Units[:1]

	result, err := engine.Run(context.Background(), oneUnit, nil)
	require.NoError(t, err)

	onDisk, err := os.ReadFile(result.HTMLPath)
	require.NoError(t, err)
	require.Equal(t, stage1Doc, string(onDisk), "stage 2 exhaustion keeps stage 1 output")
}

func TestEngine_Resume_SkipsCompletedUnitsWithoutBackendCalls(t *testing.T) {
	dir := t.TempDir()
	doc := twoUnitSpec()

	first := NewEngine(EngineConfig{Model: "m", OutputDir: dir}, alwaysValid(2))
	firstResult, err := first.Run(context.Background(), doc, nil)
	require.NoError(t, err)

	failing := &scriptedClient{fn: func(int, string) (string, error) {
		return "", errors.New("must not be called")
	}}
	second := NewEngine(EngineConfig{Model: "m", OutputDir: dir, Resume: true}, failing)

	var events []Event
	secondResult, err := second.Run(context.Background(), doc, func(ev Event) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	require.Zero(t, failing.callCount(), "resume must not re-invoke the backend for completed units")
	require.Equal(t, firstResult.Units, secondResult.Units)
	require.Len(t, events, 7, "progress events still flow on resume")
}

func TestEngine_Resume_Stage1SnapshotRunsOnlyStage2(t *testing.T) {
	dir := t.TempDir()
	statesDir := filepath.Join(dir, "states")
	require.NoError(t, os.MkdirAll(statesDir, 0o755))

	// Prior run finished stage 1 only.
	stage1Doc := validDocument(1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "document.html"), []byte(stage1Doc), 0o644))
	require.NoError(t, saveState(statesDir, "ku1", "stage1", stage1Doc))

	client := alwaysValid(1)
	engine := NewEngine(EngineConfig{Model: "m", OutputDir: dir, Resume: true}, client)

	oneUnit := twoUnitSpec()
	oneUnit.Units = oneUnit.Units[:1]

	result, err := engine.Run(context.Background(), oneUnit, nil)
	require.NoError(t, err)

	require.Equal(t, 1, client.callCount(), "only stage 2 should call the backend")
	require.True(t, result.Units[0].Stage1Completed)
	require.True(t, result.Units[0].Stage2Completed)
	require.True(t, result.Units[0].Validated)
}

func TestIsCompleteDocument(t *testing.T) {
	require.True(t, isCompleteDocument("<!DOCTYPE html><html></html>"))
	require.True(t, isCompleteDocument("  \n<!DOCTYPE html>\n<html>\n</html>\n"))
	require.False(t, isCompleteDocument("<html></html>"))
	require.False(t, isCompleteDocument("<!DOCTYPE html><html>"))
	require.False(t, isCompleteDocument(""))
}

func TestExtractSection(t *testing.T) {
	doc := validDocument(2)

	section, found := extractSection(doc, "ku2")
	require.True(t, found)
	require.True(t, strings.HasPrefix(section, "<section"))
	require.Contains(t, section, `id="ku2"`)
	require.True(t, strings.HasSuffix(section, "</section>"))

	_, found = extractSection(doc, "ku9")
	require.False(t, found)
}
