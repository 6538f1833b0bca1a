package builtin

import (
	"context"
	"errors"

	"github.com/bft-labs/mantle/pkg/algorithm"
	"github.com/bft-labs/mantle/pkg/property"
)

// Fail modes.
const (
	ModeNone    = "none"
	ModeRuntime = "runtime"
	ModeLogic   = "logic"
	ModePanic   = "panic"
)

// ErrRequestedFailure is returned by Fail in runtime mode.
var ErrRequestedFailure = errors.New("failure requested")

// Fail fails in the way selected by Mode.
type Fail struct{}

func (Fail) Name() string     { return "Fail" }
func (Fail) Version() int     { return 1 }
func (Fail) Category() string { return "Testing" }

func (Fail) SetUp(a *algorithm.Algorithm) error {
	return a.Declare(property.NewString("Mode", ModeNone,
		property.WithValidator[string](property.OneOf[string]{
			Allowed: []string{ModeNone, ModeRuntime, ModeLogic, ModePanic},
		}),
		property.WithDoc[string]("none, runtime, logic or panic")))
}

func (Fail) Run(_ context.Context, a *algorithm.Algorithm) error {
	mode, err := property.Get[string](a.Properties(), "Mode")
	if err != nil {
		return err
	}
	switch mode {
	case ModeRuntime:
		return ErrRequestedFailure
	case ModeLogic:
		return algorithm.LogicError("requested logic failure")
	case ModePanic:
		panic("requested panic")
	}
	return nil
}

func (Fail) TearDown(*algorithm.Algorithm) error { return nil }
