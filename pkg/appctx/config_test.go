package appctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vividoc-ai/vividoc/pkg/config"
)

func TestWithConfig_RoundTrip(t *testing.T) {
	manager := config.NewManager()
	ctx := WithConfig(context.Background(), manager)

	retrieved, ok := Config(ctx)
	require.True(t, ok)
	assert.Same(t, manager, retrieved)
}

func TestWithConfig_NilContext(t *testing.T) {
	manager := config.NewManager()
	//nolint:staticcheck
	ctx := WithConfig(nil, manager)

	retrieved, ok := Config(ctx)
	require.True(t, ok)
	assert.Same(t, manager, retrieved)
}

func TestConfig_MissingManager(t *testing.T) {
	_, ok := Config(context.Background())
	assert.False(t, ok)

	_, ok = Config(nil)
	assert.False(t, ok)
}
