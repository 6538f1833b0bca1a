package algorithm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bft-labs/mantle/pkg/log"
)

// CreateChildAlgorithm creates the highest registered version of name as a
// child and initializes it.
//
// A child that fails to initialize with a recognized error is still
// returned and owned; check IsInitialized. An unknown failure during
// initialization is returned together with the child.
func (a *Algorithm) CreateChildAlgorithm(name string) (*Algorithm, error) {
	return a.CreateChildAlgorithmVersion(name, -1)
}

// CreateChildAlgorithmVersion is CreateChildAlgorithm for a specific
// version. A version of -1 selects the highest.
func (a *Algorithm) CreateChildAlgorithmVersion(name string, version int) (*Algorithm, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if a.env.factory == nil {
		return nil, fmt.Errorf("create child %s: %w", name, ErrNoFactory)
	}

	c, err := a.env.factory.Create(name, version)
	if err != nil {
		a.Logger().Error("unable to create child algorithm", log.String("child", name), log.Err(err))
		return nil, fmt.Errorf("create child %s: %w", name, err)
	}
	a.adopt(c)

	if err := c.Initialize(); err != nil {
		var uf *UnknownFailure
		if errors.As(err, &uf) {
			return c, err
		}
		a.Logger().Error("unable to initialise child algorithm", log.String("child", name), log.Err(err))
	}
	return c, nil
}

// adopt makes c a child of a: c inherits the environment and is appended
// to the owned children.
func (a *Algorithm) adopt(c *Algorithm) {
	c.env = a.env
	c.child = true
	a.children = append(a.children, c)
}

// Children returns the owned children in creation order.
func (a *Algorithm) Children() []*Algorithm {
	cp := make([]*Algorithm, len(a.children))
	copy(cp, a.children)
	return cp
}

func (a *Algorithm) releaseChildren() {
	a.children = nil
}
