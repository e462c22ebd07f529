package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_ContainsBuildMetadata(t *testing.T) {
	info := Info()
	assert.Contains(t, info, "ViviDoc")
	assert.Contains(t, info, Version)
	assert.Contains(t, info, Commit)
}

func TestGet_ReturnsCurrentValues(t *testing.T) {
	s := Get()
	assert.Equal(t, Version, s.Version)
	assert.Equal(t, Commit, s.Commit)
	assert.Equal(t, BuildDate, s.BuildDate)
}
