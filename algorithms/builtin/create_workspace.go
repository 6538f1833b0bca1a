package builtin

import (
	"context"

	"github.com/bft-labs/mantle/pkg/algorithm"
	"github.com/bft-labs/mantle/pkg/artifact"
	"github.com/bft-labs/mantle/pkg/property"
)

// CreateWorkspace builds a workspace from literal X and Y values.
type CreateWorkspace struct{}

func (CreateWorkspace) Name() string     { return "CreateWorkspace" }
func (CreateWorkspace) Version() int     { return 1 }
func (CreateWorkspace) Category() string { return `Utility\Workspaces` }

func (CreateWorkspace) SetUp(a *algorithm.Algorithm) error {
	props := []property.Property{
		property.NewFloatList("DataX", nil,
			property.WithValidator[[]float64](property.NonEmpty[float64]{}),
			property.WithDoc[[]float64]("X values, comma separated")),
		property.NewFloatList("DataY", nil,
			property.WithValidator[[]float64](property.NonEmpty[float64]{}),
			property.WithDoc[[]float64]("Y values, comma separated")),
		property.NewString("Title", "", property.WithDoc[string]("Workspace title")),
	}
	for _, p := range props {
		if err := a.Declare(p); err != nil {
			return err
		}
	}
	_, err := a.DeclareWorkspace("OutputWorkspace", property.Output,
		property.WorkspaceDoc("Name of the created workspace"))
	return err
}

func (CreateWorkspace) Run(_ context.Context, a *algorithm.Algorithm) error {
	x, err := property.Get[[]float64](a.Properties(), "DataX")
	if err != nil {
		return err
	}
	y, err := property.Get[[]float64](a.Properties(), "DataY")
	if err != nil {
		return err
	}
	if len(x) != len(y) {
		return algorithm.LogicError("DataX has %d values but DataY has %d", len(x), len(y))
	}
	title, err := property.Get[string](a.Properties(), "Title")
	if err != nil {
		return err
	}

	return a.SetWorkspace("OutputWorkspace", artifact.NewWorkspace(title, x, y))
}

func (CreateWorkspace) TearDown(*algorithm.Algorithm) error { return nil }
