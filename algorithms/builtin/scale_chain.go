package builtin

import (
	"context"
	"fmt"

	"github.com/bft-labs/mantle/pkg/algorithm"
	"github.com/bft-labs/mantle/pkg/artifact"
	"github.com/bft-labs/mantle/pkg/log"
	"github.com/bft-labs/mantle/pkg/property"
)

// MaxRepeat is the largest number of Scale passes ScaleChain accepts.
const MaxRepeat = 10

// ScaleChain creates a workspace and scales it Repeat times using child
// algorithms. Intermediate workspaces are handed from child to child
// without touching the artifact store; only the final result is stored.
type ScaleChain struct{}

func (ScaleChain) Name() string     { return "ScaleChain" }
func (ScaleChain) Version() int     { return 1 }
func (ScaleChain) Category() string { return "Workflow" }

func (ScaleChain) SetUp(a *algorithm.Algorithm) error {
	props := []property.Property{
		property.NewFloatList("DataX", nil, property.WithValidator[[]float64](property.NonEmpty[float64]{})),
		property.NewFloatList("DataY", nil, property.WithValidator[[]float64](property.NonEmpty[float64]{})),
		property.NewString("Title", ""),
		property.NewFloat("Factor", 1),
		property.NewInt("Repeat", 1,
			property.WithValidator[int](property.Between(1, MaxRepeat)),
			property.WithDoc[int]("Number of Scale passes")),
	}
	for _, p := range props {
		if err := a.Declare(p); err != nil {
			return err
		}
	}
	_, err := a.DeclareWorkspace("OutputWorkspace", property.Output)
	return err
}

func (ScaleChain) Run(ctx context.Context, a *algorithm.Algorithm) error {
	m := a.Properties()
	x, err := property.Get[[]float64](m, "DataX")
	if err != nil {
		return err
	}
	y, err := property.Get[[]float64](m, "DataY")
	if err != nil {
		return err
	}
	title, err := property.Get[string](m, "Title")
	if err != nil {
		return err
	}
	factor, err := property.Get[float64](m, "Factor")
	if err != nil {
		return err
	}
	repeat, err := property.Get[int](m, "Repeat")
	if err != nil {
		return err
	}

	create, err := initializedChild(a, "CreateWorkspace")
	if err != nil {
		return err
	}
	cm := create.Properties()
	if err := property.Set(cm, "DataX", x); err != nil {
		return err
	}
	if err := property.Set(cm, "DataY", y); err != nil {
		return err
	}
	if err := property.Set(cm, "Title", title); err != nil {
		return err
	}
	if err := create.SetPropertyValue("OutputWorkspace", "__chain_input"); err != nil {
		return err
	}
	if err := create.Execute(ctx); err != nil {
		return err
	}
	ws, err := create.Workspace("OutputWorkspace")
	if err != nil {
		return err
	}

	for i := 0; i < repeat; i++ {
		ws, err = scalePass(ctx, a, ws, factor, i)
		if err != nil {
			return err
		}
	}

	a.Logger().Debug("scale chain complete", log.Int("passes", repeat), log.Int("children", len(a.Children())))
	return a.SetWorkspace("OutputWorkspace", ws)
}

func (ScaleChain) TearDown(*algorithm.Algorithm) error { return nil }

func scalePass(ctx context.Context, a *algorithm.Algorithm, in *artifact.Workspace, factor float64, pass int) (*artifact.Workspace, error) {
	scale, err := initializedChild(a, "Scale")
	if err != nil {
		return nil, err
	}
	if err := scale.SetWorkspace("InputWorkspace", in); err != nil {
		return nil, err
	}
	if err := property.Set(scale.Properties(), "Factor", factor); err != nil {
		return nil, err
	}
	if err := scale.SetPropertyValue("OutputWorkspace", fmt.Sprintf("__chain_pass_%d", pass)); err != nil {
		return nil, err
	}
	if err := scale.Execute(ctx); err != nil {
		return nil, err
	}
	return scale.Workspace("OutputWorkspace")
}

// initializedChild creates a child and fails when it did not initialize.
func initializedChild(a *algorithm.Algorithm, name string) (*algorithm.Algorithm, error) {
	c, err := a.CreateChildAlgorithm(name)
	if err != nil {
		return nil, err
	}
	if !c.IsInitialized() {
		return nil, fmt.Errorf("child algorithm %s failed to initialize", name)
	}
	return c, nil
}
