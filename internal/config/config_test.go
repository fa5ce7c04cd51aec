package config_test

import (
	"testing"

	"github.com/pierotofy/entwine/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.EndpointMemory, cfg.Endpoint)
	require.Equal(t, uint8(3), cfg.Dimensions)
	require.Equal(t, uint32(6), cfg.NominalChunkDepth)
	require.Equal(t, uint32(8), cfg.ColdDepthBegin)
	require.Equal(t, uint64(4096), cfg.BaseChunkPoints)
	require.Equal(t, 1, cfg.Workers)
}

func TestLoadOverrideFromEnv(t *testing.T) {
	t.Setenv("ENTWINE_ENDPOINT", "azure")
	t.Setenv("ENTWINE_WORKERS", "4")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.EndpointAzure, cfg.Endpoint)
	require.Equal(t, 4, cfg.Workers)
}

func TestStructureBuildsFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	st, err := cfg.Structure()
	require.NoError(t, err)
	require.Equal(t, uint8(3), st.Dimensions)
}
