package builtin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bft-labs/mantle/pkg/algorithm"
	"github.com/bft-labs/mantle/pkg/property"
)

// Scale operations.
const (
	OperationMultiply = "Multiply"
	OperationAdd      = "Add"
)

// ScaleV1 multiplies every Y value of a workspace by Factor.
type ScaleV1 struct{}

func (ScaleV1) Name() string     { return "Scale" }
func (ScaleV1) Version() int     { return 1 }
func (ScaleV1) Category() string { return "Arithmetic" }

func (ScaleV1) SetUp(a *algorithm.Algorithm) error { return declareScale(a, false) }

func (ScaleV1) Run(_ context.Context, a *algorithm.Algorithm) error {
	return runScale(a, OperationMultiply)
}

func (ScaleV1) TearDown(*algorithm.Algorithm) error { return nil }

// Scale multiplies or offsets every Y value of a workspace by Factor.
type Scale struct{}

func (Scale) Name() string     { return "Scale" }
func (Scale) Version() int     { return 2 }
func (Scale) Category() string { return "Arithmetic" }

func (Scale) SetUp(a *algorithm.Algorithm) error { return declareScale(a, true) }

func (Scale) Run(_ context.Context, a *algorithm.Algorithm) error {
	op, err := property.Get[string](a.Properties(), "Operation")
	if err != nil {
		return err
	}
	return runScale(a, op)
}

func (Scale) TearDown(*algorithm.Algorithm) error { return nil }

func declareScale(a *algorithm.Algorithm, withOperation bool) error {
	if _, err := a.DeclareWorkspace("InputWorkspace", property.Input,
		property.WorkspaceDoc("Workspace to scale")); err != nil {
		return err
	}
	if err := a.Declare(property.NewFloat("Factor", 1, property.WithDoc[float64]("Scale factor"))); err != nil {
		return err
	}
	if withOperation {
		op := property.NewString("Operation", OperationMultiply,
			property.WithValidator[string](property.OneOf[string]{Allowed: []string{OperationMultiply, OperationAdd}}),
			property.WithDoc[string]("Multiply or Add"))
		if err := a.Declare(op); err != nil {
			return err
		}
	}
	_, err := a.DeclareWorkspace("OutputWorkspace", property.Output,
		property.WorkspaceDoc("Name of the scaled workspace"))
	return err
}

func runScale(a *algorithm.Algorithm, op string) error {
	in, err := a.Workspace("InputWorkspace")
	if err != nil {
		return err
	}
	factor, err := property.Get[float64](a.Properties(), "Factor")
	if err != nil {
		return err
	}

	out := in.Clone()
	for i := range out.Y {
		switch op {
		case OperationMultiply:
			out.Y[i] *= factor
		case OperationAdd:
			out.Y[i] += factor
		default:
			return fmt.Errorf("unsupported operation %q", op)
		}
	}
	out.SetMeta("scale.operation", op)
	out.SetMeta("scale.factor", strconv.FormatFloat(factor, 'g', -1, 64))
	return a.SetWorkspace("OutputWorkspace", out)
}
