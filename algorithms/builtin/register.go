package builtin

import (
	"fmt"

	"github.com/bft-labs/mantle/pkg/algorithm"
	"github.com/bft-labs/mantle/pkg/registry"
)

// Constructors returns a constructor for every builtin algorithm.
func Constructors() []registry.Constructor {
	return []registry.Constructor{
		func() algorithm.Hooks { return CreateWorkspace{} },
		func() algorithm.Hooks { return ScaleV1{} },
		func() algorithm.Hooks { return Scale{} },
		func() algorithm.Hooks { return ScaleChain{} },
		func() algorithm.Hooks { return Fail{} },
	}
}

// Register subscribes every builtin algorithm to reg.
func Register(reg *registry.Registry) error {
	for _, ctor := range Constructors() {
		if err := reg.Subscribe(ctor); err != nil {
			return fmt.Errorf("register builtin: %w", err)
		}
	}
	return nil
}
