package v1

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vividoc-ai/vividoc/pkg/evaluator"
	"github.com/vividoc-ai/vividoc/pkg/generation"
	"github.com/vividoc-ai/vividoc/pkg/jobs"
	"github.com/vividoc-ai/vividoc/pkg/server/api"
	"github.com/vividoc-ai/vividoc/pkg/spec"
)

// fakeClient serves canned backend responses to the handlers under test.
type fakeClient struct {
	mu       sync.Mutex
	response string
	err      error
}

func (c *fakeClient) Generate(context.Context, string, string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.response, c.err
}

func validHTML(n int) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head><title>t</title></head>\n<body>\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "<section class=\"knowledge-unit\" id=\"ku%d\"><p>x</p></section>\n", i)
	}
	b.WriteString("</body>\n</html>")
	return b.String()
}

func sampleSpec() spec.DocumentSpec {
	return spec.DocumentSpec{
		Topic: "orbital mechanics",
		Units: []spec.UnitSpec{
			{ID: "intro", Summary: "s1", TextDescription: "t1", InteractionDescription: "i1"},
		},
	}
}

func newTestDeps(t *testing.T, client *fakeClient) *api.Deps {
	t.Helper()

	registry := jobs.NewRegistry()
	store, err := spec.NewStore(t.TempDir())
	require.NoError(t, err)

	svc := generation.NewService(
		generation.ServiceConfig{Model: "m", MaxAttempts: 3},
		registry, client, store, evaluator.New(),
	)

	ready := &atomic.Bool{}
	ready.Store(true)

	return &api.Deps{
		Specs:      store,
		Generation: svc,
		Registry:   registry,
		Config:     api.DefaultConfig(),
		Ready:      ready,
	}
}

func doRequest(handler http.HandlerFunc, method, target, body string, pathValues map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for key, value := range pathValues {
		req.SetPathValue(key, value)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func waitForTerminal(t *testing.T, registry *jobs.Registry, jobID string) jobs.Job {
	t.Helper()
	var job jobs.Job
	require.Eventually(t, func() bool {
		j, ok := registry.Get(jobID)
		if !ok {
			return false
		}
		job = j
		return j.Status != jobs.StatusRunning
	}, 10*time.Second, 10*time.Millisecond)
	return job
}
