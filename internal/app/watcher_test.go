package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runReport struct {
	res Result
	err error
}

func TestWatcher_RerunsOnChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, store, _ := newTestRunner(t)
	path := filepath.Join(t.TempDir(), "job.toml")
	writeJob := func(output string) {
		t.Helper()
		content := "algorithm = \"CreateWorkspace\"\n[properties]\nDataX = \"1\"\nDataY = \"2\"\nOutputWorkspace = \"" + output + "\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	writeJob("first")

	reports := make(chan runReport, 8)
	w := NewWatcher(path, r,
		WithDebounce(20*time.Millisecond),
		WithResultHandler(func(res Result, err error) { reports <- runReport{res, err} }),
	)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	first := waitReport(t, reports)
	require.NoError(t, first.err)
	assert.Equal(t, []string{"first"}, first.res.Stored)

	writeJob("second")
	second := waitReport(t, reports)
	require.NoError(t, second.err)
	assert.Equal(t, []string{"second"}, second.res.Stored)

	names, err := store.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, names)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatcher_ReportsLoadErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, _, _ := newTestRunner(t)
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte("properties: {}\n"), 0o644))

	reports := make(chan runReport, 4)
	w := NewWatcher(path, r, WithResultHandler(func(res Result, err error) { reports <- runReport{res, err} }))
	go func() { _ = w.Run(ctx) }()

	rep := waitReport(t, reports)
	assert.ErrorIs(t, rep.err, ErrNoAlgorithm)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	r, _, _ := newTestRunner(t)
	w := NewWatcher(filepath.Join(t.TempDir(), "nope", "job.toml"), r)
	assert.Error(t, w.Run(context.Background()))
}

func waitReport(t *testing.T, reports <-chan runReport) runReport {
	t.Helper()
	select {
	case rep := <-reports:
		return rep
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a job run")
		return runReport{}
	}
}
