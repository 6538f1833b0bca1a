// Package registry provides a versioned catalogue of algorithms.
//
// Algorithms are registered by constructor. The constructor is called once
// at registration to read the name, version and category, and again for
// every [Registry.Create]. Several versions of the same name may coexist;
// a requested version of -1 selects the highest.
//
//	reg := registry.New(registry.WithHiddenCategories("Testing"))
//	if err := reg.Subscribe(func() algorithm.Hooks { return &Scale{} }); err != nil {
//	    return err
//	}
//	alg, err := reg.Create("Scale", -1)
//
// A Registry is safe for concurrent use and implements [algorithm.Factory],
// so algorithms it creates can create their own children through it.
//
// # Categories
//
// A category string may name several categories separated by ";". Hidden
// categories are excluded from listings unless explicitly requested; an
// algorithm is hidden when every one of its categories is hidden. Hidden
// algorithms can still be created.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package registry
