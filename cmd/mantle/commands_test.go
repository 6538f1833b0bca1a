package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/mantle/internal/app"
	"github.com/bft-labs/mantle/internal/cliconfig"
)

func TestJobFromArgs(t *testing.T) {
	job, err := jobFromArgs("", []string{"Scale"}, 2, []string{"Factor=3", " InputWorkspace =raw", "Title=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "Scale", job.Algorithm)
	assert.Equal(t, 2, job.Version)
	assert.Equal(t, map[string]any{"Factor": "3", "InputWorkspace": "raw", "Title": "a=b"}, job.Properties)

	_, err = jobFromArgs("", nil, -1, nil)
	assert.ErrorIs(t, err, app.ErrNoAlgorithm)

	_, err = jobFromArgs("", []string{"Scale"}, -1, []string{"Factor"})
	assert.ErrorContains(t, err, "want name=value")
}

func TestJobFromArgs_FileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.toml")
	require.NoError(t, os.WriteFile(path, []byte("algorithm = \"Scale\"\nversion = 1\n[properties]\nFactor = 2.0\n"), 0o644))

	job, err := jobFromArgs(path, nil, -1, []string{"Factor=5"})
	require.NoError(t, err)
	assert.Equal(t, 1, job.Version)
	assert.Equal(t, "5", job.Properties["Factor"])
}

func TestPrintCategories(t *testing.T) {
	state := map[string]bool{"Arithmetic": false, "Testing": true, "Workflow": false}

	var buf bytes.Buffer
	require.NoError(t, printCategories(&buf, state, false))
	assert.Equal(t, "Arithmetic\nWorkflow\n", buf.String())

	buf.Reset()
	require.NoError(t, printCategories(&buf, state, true))
	assert.Equal(t, "Arithmetic\nTesting (hidden)\nWorkflow\n", buf.String())
}

func TestEngine_RunWithMetrics(t *testing.T) {
	cfg := cliconfig.DefaultConfig()
	cfg.MetricsSummary = true
	require.NoError(t, cfg.Validate())

	ctx := context.Background()
	e, err := newEngine(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer e.close(ctx)

	res, err := e.runner.Run(ctx, app.Job{
		Algorithm:  "CreateWorkspace",
		Version:    -1,
		Properties: map[string]any{"DataX": "1", "DataY": "2", "OutputWorkspace": "out"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"out"}, res.Stored)

	var buf bytes.Buffer
	require.NoError(t, printMetrics(&buf, e.promReg))
	assert.Contains(t, buf.String(), "mantle_algorithm_executions_total{algorithm=CreateWorkspace,child=false,outcome=succeeded} 1")
	assert.NotContains(t, keysOf(e.registry.Descriptors(false)), "Fail|1")
}

func keysOf[T interface{ Key() string }](ds []T) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Key())
	}
	return out
}
