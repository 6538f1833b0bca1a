package registry_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/mantle/pkg/algorithm"
	"github.com/bft-labs/mantle/pkg/artifact"
	"github.com/bft-labs/mantle/pkg/registry"
)

type fakeAlg struct {
	name     string
	version  int
	category string
	run      func(ctx context.Context, a *algorithm.Algorithm) error
}

func (f *fakeAlg) Name() string                        { return f.name }
func (f *fakeAlg) Version() int                        { return f.version }
func (f *fakeAlg) Category() string                    { return f.category }
func (f *fakeAlg) SetUp(*algorithm.Algorithm) error    { return nil }
func (f *fakeAlg) TearDown(*algorithm.Algorithm) error { return nil }

func (f *fakeAlg) Run(ctx context.Context, a *algorithm.Algorithm) error {
	if f.run != nil {
		return f.run(ctx, a)
	}
	return nil
}

func ctor(name string, version int, category string) registry.Constructor {
	return func() algorithm.Hooks {
		return &fakeAlg{name: name, version: version, category: category}
	}
}

func TestSubscribeAndCreate(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Subscribe(ctor("Scale", 1, "Arithmetic")))
	require.NoError(t, reg.Subscribe(ctor("Scale", 2, "Arithmetic")))

	a, err := reg.Create("Scale", -1)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Version())
	assert.False(t, a.IsInitialized())

	a, err = reg.Create("Scale", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Version())

	b, err := reg.Create("Scale", 1)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.NotSame(t, a.Hooks(), b.Hooks())
	assert.NotEqual(t, a.ID(), b.ID())

	v, err := reg.HighestVersion("Scale")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestSubscribe_Errors(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Subscribe(ctor("Scale", 1, "Arithmetic")))

	err := reg.Subscribe(ctor("Scale", 1, "Other"))
	assert.ErrorIs(t, err, registry.ErrAlreadyRegistered)

	assert.ErrorIs(t, reg.Subscribe(ctor("", 1, "Arithmetic")), registry.ErrEmptyName)
	assert.ErrorIs(t, reg.Subscribe(nil), registry.ErrNilConstructor)
	assert.ErrorIs(t, reg.Subscribe(func() algorithm.Hooks { return nil }), registry.ErrNilConstructor)

	require.NoError(t, reg.Subscribe(ctor("Scale", 1, "Other"), registry.WithReplace()))
	assert.Equal(t, []string{"Other"}, reg.Categories(true))
}

func TestSubscribe_LowerVersionKeepsHighest(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Subscribe(ctor("Rebin", 3, "Transforms")))
	require.NoError(t, reg.Subscribe(ctor("Rebin", 1, "Transforms")))

	a, err := reg.Create("Rebin", -1)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Version())
}

func TestCreate_NotFound(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Subscribe(ctor("Scale", 1, "Arithmetic")))

	_, err := reg.Create("Ghost", -1)
	assert.ErrorIs(t, err, registry.ErrNotFound)

	_, err = reg.Create("Scale", 7)
	assert.ErrorIs(t, err, registry.ErrNotFound)

	_, err = reg.HighestVersion("Ghost")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestExists(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Subscribe(ctor("Scale", 2, "Arithmetic")))

	tests := []struct {
		name    string
		version int
		want    bool
	}{
		{"Scale", -1, true},
		{"Scale", 2, true},
		{"Scale", 1, false},
		{"Ghost", -1, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.name, tt.version), func(t *testing.T) {
			assert.Equal(t, tt.want, reg.Exists(tt.name, tt.version))
		})
	}
}

func TestUnsubscribe(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Subscribe(ctor("Scale", 1, "Arithmetic")))
	require.NoError(t, reg.Subscribe(ctor("Scale", 2, "Arithmetic")))

	require.NoError(t, reg.Unsubscribe("Scale", 2))
	a, err := reg.Create("Scale", -1)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Version())

	require.NoError(t, reg.Unsubscribe("Scale", 1))
	assert.False(t, reg.Exists("Scale", -1))
	assert.ErrorIs(t, reg.Unsubscribe("Scale", 1), registry.ErrNotFound)
}

func TestKeys_OrderedByNameThenVersion(t *testing.T) {
	reg := registry.New()
	for _, v := range []int{10, 1, 2} {
		require.NoError(t, reg.Subscribe(ctor("Scale", v, "Arithmetic")))
	}
	require.NoError(t, reg.Subscribe(ctor("ScaleChain", 1, "Workflow")))
	require.NoError(t, reg.Subscribe(ctor("CreateWorkspace", 1, "Utility")))

	assert.Equal(t, []string{
		"CreateWorkspace|1",
		"Scale|1",
		"Scale|2",
		"Scale|10",
		"ScaleChain|1",
	}, reg.Keys(true))
}

func TestKeysAndDecodeName(t *testing.T) {
	reg := registry.New(registry.WithHiddenCategories("Testing"))
	require.NoError(t, reg.Subscribe(ctor("Scale", 1, "Arithmetic")))
	require.NoError(t, reg.Subscribe(ctor("Scale", 2, "Arithmetic")))
	require.NoError(t, reg.Subscribe(ctor("Fail", 1, "Testing")))

	assert.Equal(t, []string{"Scale|1", "Scale|2"}, reg.Keys(false))
	assert.Equal(t, []string{"Fail|1", "Scale|1", "Scale|2"}, reg.Keys(true))

	name, version, err := registry.DecodeName("Scale|2")
	require.NoError(t, err)
	assert.Equal(t, "Scale", name)
	assert.Equal(t, 2, version)

	for _, bad := range []string{"Scale", "|2", "Scale|two", ""} {
		_, _, err := registry.DecodeName(bad)
		assert.ErrorIs(t, err, registry.ErrInvalidKey, bad)
	}
}

func TestDescriptorsAndCategories(t *testing.T) {
	reg := registry.New(registry.WithHiddenCategories("Testing"))
	require.NoError(t, reg.Subscribe(ctor("Scale", 2, "Arithmetic")))
	require.NoError(t, reg.Subscribe(ctor("Scale", 1, "Arithmetic")))
	require.NoError(t, reg.Subscribe(ctor("CreateWorkspace", 1, `Utility\Workspaces`)))
	require.NoError(t, reg.Subscribe(ctor("Fail", 1, "Testing")))
	require.NoError(t, reg.Subscribe(ctor("Inspect", 1, "Testing; Diagnostics")))

	got := reg.Descriptors(false)
	assert.Equal(t, []registry.Descriptor{
		{Name: "Scale", Version: 1, Category: "Arithmetic"},
		{Name: "Scale", Version: 2, Category: "Arithmetic"},
		{Name: "Inspect", Version: 1, Category: "Diagnostics"},
		{Name: "CreateWorkspace", Version: 1, Category: `Utility\Workspaces`},
	}, got)
	assert.Equal(t, "Scale|1", got[0].Key())

	assert.Len(t, reg.Descriptors(true), 6)
	assert.Equal(t, []string{"Arithmetic", "Diagnostics", `Utility\Workspaces`}, reg.Categories(false))
	assert.Equal(t, []string{"Arithmetic", "Diagnostics", "Testing", `Utility\Workspaces`}, reg.Categories(true))
	assert.Equal(t, map[string]bool{
		"Arithmetic":         false,
		"Diagnostics":        false,
		"Testing":            true,
		`Utility\Workspaces`: false,
	}, reg.CategoriesWithState())

	// Inspect is only partly hidden, so it stays listed.
	assert.Contains(t, reg.Keys(false), "Inspect|1")
	assert.NotContains(t, reg.Keys(false), "Fail|1")

	_, err := reg.Create("Fail", -1)
	assert.NoError(t, err, "hidden algorithms can still be created")
}

func TestCreate_AppliesAlgorithmOptionsAndFactory(t *testing.T) {
	store := artifact.NewMemoryStore()
	reg := registry.New(registry.WithAlgorithmOptions(algorithm.WithArtifactStore(store)))
	require.NoError(t, reg.Subscribe(ctor("Child", 1, "Testing")))

	var child *algorithm.Algorithm
	require.NoError(t, reg.Subscribe(func() algorithm.Hooks {
		return &fakeAlg{name: "Parent", version: 1, category: "Workflow", run: func(ctx context.Context, a *algorithm.Algorithm) error {
			c, err := a.CreateChildAlgorithm("Child")
			child = c
			return err
		}}
	}))

	parent, err := reg.Create("Parent", -1)
	require.NoError(t, err)
	assert.Same(t, store, parent.ArtifactStore())

	require.NoError(t, parent.Initialize())
	require.NoError(t, parent.Execute(context.Background()))
	require.NotNil(t, child)
	assert.True(t, child.IsChild())
	assert.True(t, child.IsInitialized())
	assert.Same(t, store, child.ArtifactStore())
}

func TestConcurrentAccess(t *testing.T) {
	reg := registry.New()
	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			_ = reg.Subscribe(ctor("Scale", v, "Arithmetic"))
			_, _ = reg.Create("Scale", -1)
			_ = reg.Keys(true)
		}(i)
	}
	wg.Wait()

	v, err := reg.HighestVersion("Scale")
	require.NoError(t, err)
	assert.Equal(t, 20, v)
	assert.Len(t, reg.Keys(true), 20)
}
