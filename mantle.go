// Package mantle is the entry point of the algorithm engine.
//
// It re-exports the types most callers need and builds registries
// preloaded with the built-in algorithms:
//
//	reg, err := mantle.NewDefaultRegistry()
//	if err != nil {
//		return err
//	}
//	alg, err := reg.Create("Scale", -1)
//
// The lifecycle itself lives in pkg/algorithm, property handling in
// pkg/property and workspace storage in pkg/artifact.
package mantle

import (
	"fmt"

	"github.com/bft-labs/mantle/algorithms/builtin"
	"github.com/bft-labs/mantle/pkg/algorithm"
	"github.com/bft-labs/mantle/pkg/artifact"
	"github.com/bft-labs/mantle/pkg/log"
	"github.com/bft-labs/mantle/pkg/metrics"
	"github.com/bft-labs/mantle/pkg/property"
	"github.com/bft-labs/mantle/pkg/registry"
)

// Algorithm is an algorithm instance driven through its lifecycle.
type Algorithm = algorithm.Algorithm

// Hooks is implemented by every concrete algorithm.
type Hooks = algorithm.Hooks

// Registry maps algorithm names and versions to constructors.
type Registry = registry.Registry

// Workspace is a named data set exchanged between algorithms.
type Workspace = artifact.Workspace

// Store holds workspaces by name.
type Store = artifact.Store

// Logger is the structured logger used throughout the engine.
type Logger = log.Logger

// NewRegistry returns an empty registry after checking that the engine
// modules are compatible with each other.
func NewRegistry(opts ...registry.Option) (*Registry, error) {
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}
	return registry.New(opts...), nil
}

// NewDefaultRegistry returns a registry with the built-in algorithms
// subscribed.
func NewDefaultRegistry(opts ...registry.Option) (*Registry, error) {
	reg, err := NewRegistry(opts...)
	if err != nil {
		return nil, err
	}
	if err := builtin.Register(reg); err != nil {
		return nil, fmt.Errorf("register built-in algorithms: %w", err)
	}
	return reg, nil
}

type moduleVersion struct {
	version    string
	minVersion string
}

func moduleVersions() map[string]moduleVersion {
	return map[string]moduleVersion{
		"algorithm": {algorithm.Version, algorithm.MinCompatibleVersion},
		"artifact":  {artifact.Version, artifact.MinCompatibleVersion},
		"log":       {log.Version, log.MinCompatibleVersion},
		"metrics":   {metrics.Version, metrics.MinCompatibleVersion},
		"property":  {property.Version, property.MinCompatibleVersion},
		"registry":  {registry.Version, registry.MinCompatibleVersion},
	}
}

// validateModuleVersions returns an error if any module version is below
// its minimum compatible version.
func validateModuleVersions() error {
	return checkVersions(moduleVersions())
}

func checkVersions(modules map[string]moduleVersion) error {
	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}
	return nil
}

// isVersionCompatible reports whether version >= minVersion.
// Both are expected in "major.minor.patch" form.
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
