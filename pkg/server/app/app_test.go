package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vividoc-ai/vividoc/pkg/config"
	"github.com/vividoc-ai/vividoc/pkg/evaluator"
	"github.com/vividoc-ai/vividoc/pkg/generation"
	"github.com/vividoc-ai/vividoc/pkg/jobs"
	"github.com/vividoc-ai/vividoc/pkg/spec"
)

type nopClient struct{}

func (nopClient) Generate(context.Context, string, string) (string, error) {
	return "", nil
}

func newTestDeps(t *testing.T) *Deps {
	t.Helper()

	registry := jobs.NewRegistry()
	store, err := spec.NewStore(t.TempDir())
	require.NoError(t, err)

	svc := generation.NewService(
		generation.ServiceConfig{Model: "m"},
		registry, nopClient{}, store, evaluator.New(),
	)

	return &Deps{
		Specs:      store,
		Generation: svc,
		Registry:   registry,
		Logger:     zerolog.Nop(),
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestNew_RequiresDependencies(t *testing.T) {
	cfg := config.DefaultServerConfig()

	_, err := New(context.Background(), cfg, &Deps{Logger: zerolog.Nop()})
	assert.Error(t, err)
}

func TestNew_BuildsServer(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.Port = 9999

	application, err := New(context.Background(), cfg, newTestDeps(t))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", application.HTTP.Addr)
	assert.False(t, application.Ready.Load(), "Server should not be ready before Run")
}

func TestApp_RunServesAndShutsDownGracefully(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.Port = freePort(t)

	application, err := New(context.Background(), cfg, newTestDeps(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	baseURL := fmt.Sprintf("http://%s", application.HTTP.Addr)
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/healthz")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	resp, err := http.Get(baseURL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
	assert.False(t, application.Ready.Load(), "Ready flag should clear on shutdown")
}
