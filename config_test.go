package kmsig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/kmsig/kmeans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kmsig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultClusters, cfg.Clusters)
	assert.Equal(t, -1, cfg.MaxVectors)
	assert.Equal(t, "random", cfg.Seeding)
	assert.Nil(t, cfg.Seed)

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, kmeans.DefaultConfig(DefaultClusters), ec)
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, `
signatures: s3://bucket/docs.bin
identifiers: docs.ids
assignments: docs.assign.csv
clusters: 32
threads: 8
max_iters: -1
epsilon: 0.001
enforce_num_clusters: true
sa_iters: 5
seeding: dsquared
local_trials: 3
seed: 99
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "s3://bucket/docs.bin", cfg.Signatures)
	assert.Equal(t, "docs.ids", cfg.Identifiers)
	assert.Equal(t, 32, cfg.Clusters)
	assert.Equal(t, 8, cfg.Threads)
	assert.Equal(t, -1, cfg.MaxIters)
	assert.True(t, cfg.EnforceNumClusters)
	require.NotNil(t, cfg.Seed)
	assert.EqualValues(t, 99, *cfg.Seed)

	// Unset keys keep their defaults.
	assert.Equal(t, -1, cfg.MaxVectors)
	assert.Equal(t, DefaultConfig().SAStart, cfg.SAStart)

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, kmeans.SeedDSquared, ec.Seeding)
	assert.Equal(t, 3, ec.LocalTrials)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeFile(t, "clusterz: 3\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(writeFile(t, "clusters: many\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg, err := LoadConfig(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_Validate(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.Validate())

	cfg.Assignments = ""
	require.ErrorIs(t, cfg.Validate(), ErrMissingAssignments)

	cfg = testConfig()
	cfg.Seeding = "bogus"
	require.ErrorIs(t, cfg.Validate(), kmeans.ErrInvalidSeeding)

	cfg = testConfig()
	cfg.Clusters = 0
	require.ErrorIs(t, cfg.Validate(), kmeans.ErrInvalidNumClusters)
}
