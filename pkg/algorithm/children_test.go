package algorithm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/mantle/pkg/artifact"
	"github.com/bft-labs/mantle/pkg/log"
)

func TestCreateChildAlgorithm(t *testing.T) {
	rec := log.NewRecorder()
	store := artifact.NewMemoryStore()
	em := &recordingEmitter{}
	f := newStubFactory()
	f.add("Child", func() Hooks { return &stubHooks{name: "Child", version: 2} })

	parent := New(&stubHooks{name: "Parent", version: 1},
		WithFactory(f), WithLogger(rec), WithArtifactStore(store), WithEventEmitter(em))
	require.NoError(t, parent.Initialize())

	c, err := parent.CreateChildAlgorithm("Child")
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.True(t, c.IsChild())
	assert.True(t, c.IsInitialized())
	assert.True(t, c.PropagatesOnFailure())
	assert.False(t, parent.PropagatesOnFailure())
	assert.Same(t, store, c.ArtifactStore())
	assert.Equal(t, []*Algorithm{c}, parent.Children())
	assert.Equal(t, []string{"Uninitialized->Initialized"}, em.transitions("Child"))
	assert.False(t, c.IsExecuted(), "children are never executed automatically")

	c.Logger().Info("hello")
	entries := rec.Entries()
	last := entries[len(entries)-1]
	assert.Equal(t, "hello", last.Message)
	assert.Contains(t, last.Fields, log.String("algorithm", "Child"))
	assert.Contains(t, last.Fields, log.Bool("child", true))
}

func TestCreateChildAlgorithm_Errors(t *testing.T) {
	f := newStubFactory()
	parent := New(&stubHooks{name: "Parent", version: 1}, WithFactory(f))

	_, err := parent.CreateChildAlgorithm("")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = parent.CreateChildAlgorithm("Ghost")
	assert.Error(t, err)
	assert.Empty(t, parent.Children())

	orphan := New(&stubHooks{name: "Orphan", version: 1})
	_, err = orphan.CreateChildAlgorithm("Child")
	assert.ErrorIs(t, err, ErrNoFactory)
}

func TestCreateChildAlgorithm_InitFailureIsSwallowed(t *testing.T) {
	rec := log.NewRecorder()
	f := newStubFactory()
	f.add("Broken", func() Hooks {
		return &stubHooks{name: "Broken", version: 1, setUp: func(*Algorithm) error { return errors.New("bad setup") }}
	})
	parent := New(&stubHooks{name: "Parent", version: 1}, WithFactory(f), WithLogger(rec))

	c, err := parent.CreateChildAlgorithm("Broken")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.False(t, c.IsInitialized())
	assert.Len(t, parent.Children(), 1)
	assert.GreaterOrEqual(t, rec.Count(log.LevelError), 1)
}

func TestCreateChildAlgorithm_InitPanic(t *testing.T) {
	f := newStubFactory()
	f.add("Panicky", func() Hooks {
		return &stubHooks{name: "Panicky", version: 1, setUp: func(*Algorithm) error { panic("no memory") }}
	})
	parent := New(&stubHooks{name: "Parent", version: 1}, WithFactory(f))

	c, err := parent.CreateChildAlgorithm("Panicky")
	var uf *UnknownFailure
	require.ErrorAs(t, err, &uf)
	require.NotNil(t, c)
	assert.Equal(t, "Panicky", uf.Algorithm)
	assert.Len(t, parent.Children(), 1)
}

func TestChildrenReturnsCopy(t *testing.T) {
	parent := New(&stubHooks{name: "Parent", version: 1})
	parent.adopt(New(&stubHooks{name: "Child", version: 1}))

	got := parent.Children()
	got[0] = nil
	assert.NotNil(t, parent.Children()[0])
}

func TestChildErrorPropagatesToParent(t *testing.T) {
	childErr := LogicError("negative bin width")
	f := newStubFactory()
	f.add("Child", func() Hooks {
		return &stubHooks{name: "Child", version: 1, run: func(context.Context, *Algorithm) error { return childErr }}
	})

	var fromChild error
	parentHooks := &stubHooks{name: "Parent", version: 1, run: func(ctx context.Context, a *Algorithm) error {
		c, err := a.CreateChildAlgorithm("Child")
		if err != nil {
			return err
		}
		fromChild = c.Execute(ctx)
		return fromChild
	}}

	t.Run("top-level parent swallows", func(t *testing.T) {
		fromChild = nil
		parent := New(parentHooks, WithFactory(f))
		require.NoError(t, parent.Initialize())

		require.NoError(t, parent.Execute(context.Background()))
		assert.True(t, parent.IsExecuted())

		var cerr *ComputationError
		require.ErrorAs(t, fromChild, &cerr)
		assert.True(t, cerr.Propagated)
		assert.Equal(t, "Child", cerr.Algorithm)
		assert.Equal(t, KindLogic, cerr.Kind)
	})

	t.Run("propagating parent returns", func(t *testing.T) {
		parent := New(parentHooks, WithFactory(f), WithPropagateOnFailure(true))
		require.NoError(t, parent.Initialize())

		err := parent.Execute(context.Background())
		var cerr *ComputationError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "Parent", cerr.Algorithm)
		assert.Equal(t, KindLogic, cerr.Kind)
		assert.ErrorIs(t, err, childErr)
	})
}

func TestChildUnknownFailureIsNeverSwallowed(t *testing.T) {
	f := newStubFactory()
	f.add("Crashy", func() Hooks {
		return &stubHooks{name: "Crashy", version: 1, run: func(context.Context, *Algorithm) error { panic("segfault") }}
	})
	parent := New(&stubHooks{name: "Parent", version: 1, run: func(ctx context.Context, a *Algorithm) error {
		c, err := a.CreateChildAlgorithm("Crashy")
		if err != nil {
			return err
		}
		return c.Execute(ctx)
	}}, WithFactory(f))
	require.NoError(t, parent.Initialize())

	err := parent.Execute(context.Background())
	var uf *UnknownFailure
	require.ErrorAs(t, err, &uf)
	assert.Equal(t, "Crashy", uf.Algorithm)
	assert.False(t, parent.IsExecuted())
}

func TestFinalize_ChildrenFirst(t *testing.T) {
	var trail []string
	names := []string{"A", "B", "C"}
	f := newStubFactory()
	for _, name := range names {
		f.add(name, func() Hooks { return &stubHooks{name: name, version: 1, trail: &trail} })
	}
	parent := New(&stubHooks{name: "Parent", version: 1, trail: &trail, run: func(ctx context.Context, a *Algorithm) error {
		for _, name := range names {
			c, err := a.CreateChildAlgorithm(name)
			if err != nil {
				return err
			}
			if err := c.Execute(ctx); err != nil {
				return err
			}
		}
		return nil
	}}, WithFactory(f))

	require.NoError(t, parent.Initialize())
	require.NoError(t, parent.Execute(context.Background()))
	assert.Equal(t, []string{
		"Parent:setup", "Parent:run",
		"A:setup", "A:run",
		"B:setup", "B:run",
		"C:setup", "C:run",
	}, trail)

	children := parent.Children()
	require.Len(t, children, 3)
	for _, c := range children {
		assert.True(t, c.IsExecuted(), c.Name())
		assert.False(t, c.IsFinalized(), c.Name())
	}

	trail = nil
	require.NoError(t, parent.Finalize())
	assert.Equal(t, []string{"A:teardown", "B:teardown", "C:teardown", "Parent:teardown"}, trail)
	assert.Empty(t, parent.Children())
	for _, c := range children {
		assert.True(t, c.IsFinalized(), c.Name())
	}
}

func TestFinalize_SkipsChildrenNotReady(t *testing.T) {
	rec := log.NewRecorder()
	parent := New(&stubHooks{name: "Parent", version: 1}, WithLogger(rec))
	require.NoError(t, parent.Initialize())

	uninit := New(&stubHooks{name: "Uninit", version: 1})
	done := New(&stubHooks{name: "Done", version: 1})
	require.NoError(t, done.Initialize())
	require.NoError(t, done.Finalize())
	parent.adopt(uninit)
	parent.adopt(done)

	require.NoError(t, parent.Finalize())
	assert.Equal(t, 2, rec.Count(log.LevelWarn))
	assert.Empty(t, parent.Children())
}

func TestFinalize_ChildrenClearedOnFailure(t *testing.T) {
	tests := []struct {
		name        string
		tearDown    func(*Algorithm) error
		wantUnknown bool
	}{
		{
			name:     "recognized error",
			tearDown: func(*Algorithm) error { return errors.New("handle leaked") },
		},
		{
			name:        "panic",
			tearDown:    func(*Algorithm) error { panic("double free") },
			wantUnknown: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := log.NewRecorder()
			parentHooks := &stubHooks{name: "Parent", version: 1}
			parent := New(parentHooks, WithLogger(rec))
			require.NoError(t, parent.Initialize())
			child := New(&stubHooks{name: "Child", version: 1, tearDown: tt.tearDown})
			parent.adopt(child)
			require.NoError(t, child.Initialize())

			err := parent.Finalize()
			require.Error(t, err)
			assert.Empty(t, parent.Children())
			assert.False(t, parent.IsFinalized())
			assert.Equal(t, 0, parentHooks.tearDownCalls)

			var uf *UnknownFailure
			assert.Equal(t, tt.wantUnknown, errors.As(err, &uf))
			if tt.wantUnknown {
				// Reported by the child and again by the parent.
				assert.Equal(t, 2, rec.Count(log.LevelFatal))
			}
		})
	}
}
