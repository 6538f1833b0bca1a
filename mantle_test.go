package mantle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/mantle/pkg/algorithm"
	"github.com/bft-labs/mantle/pkg/artifact"
	"github.com/bft-labs/mantle/pkg/registry"
)

func TestIsVersionCompatible(t *testing.T) {
	tests := []struct {
		version, min string
		want         bool
	}{
		{"1.0.0", "1.0.0", true},
		{"1.2.0", "1.1.9", true},
		{"2.0.0", "1.9.9", true},
		{"1.0.1", "1.0.2", false},
		{"0.9.0", "1.0.0", false},
		{"1.1.0", "1.2.0", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isVersionCompatible(tt.version, tt.min), "%s >= %s", tt.version, tt.min)
	}
}

func TestModuleVersions(t *testing.T) {
	require.NoError(t, validateModuleVersions())
	assert.Len(t, moduleVersions(), 6)

	err := checkVersions(map[string]moduleVersion{"old": {"1.0.0", "1.1.0"}})
	assert.ErrorContains(t, err, "module old version 1.0.0")
}

func TestNewDefaultRegistry(t *testing.T) {
	ctx := context.Background()
	store := artifact.NewMemoryStore()
	reg, err := NewDefaultRegistry(
		registry.WithHiddenCategories("Testing"),
		registry.WithAlgorithmOptions(algorithm.WithArtifactStore(store)),
	)
	require.NoError(t, err)

	v, err := reg.HighestVersion("Scale")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.NotContains(t, reg.Categories(false), "Testing")

	alg, err := reg.Create("CreateWorkspace", -1)
	require.NoError(t, err)
	require.NoError(t, alg.Initialize())
	require.NoError(t, alg.SetPropertyValue("DataX", "1,2"))
	require.NoError(t, alg.SetPropertyValue("DataY", "3,4"))
	require.NoError(t, alg.SetPropertyValue("OutputWorkspace", "ws"))
	require.NoError(t, alg.Execute(ctx))

	ok, err := store.Exists(ctx, "ws")
	require.NoError(t, err)
	assert.True(t, ok)
}
