// Package algorithm provides the lifecycle and composition engine shared by
// every unit of computation.
//
// An [Algorithm] wraps a [Hooks] implementation and drives it through a
// strict lifecycle:
//
//	Uninitialized -> Initialized -> Executed -> Finalized
//
// [Algorithm.Initialize] runs the SetUp hook once. [Algorithm.Execute]
// validates every property, runs the Run hook and, for top-level
// algorithms, publishes the output workspace to the artifact store.
// [Algorithm.Finalize] finalizes children first, then runs TearDown, then
// releases the children.
//
// # Usage
//
//	alg, err := reg.Create("Scale", -1)
//	if err != nil {
//	    return err
//	}
//	if err := alg.Initialize(); err != nil {
//	    return err
//	}
//	_ = alg.SetPropertyValue("InputWorkspace", "run_1234")
//	_ = alg.SetPropertyValue("Factor", "2")
//	_ = alg.SetPropertyValue("OutputWorkspace", "scaled")
//	if err := alg.Execute(ctx); err != nil {
//	    return err
//	}
//	defer alg.Finalize()
//
// # Child Algorithms
//
// A Run hook composes work by creating children with
// [Algorithm.CreateChildAlgorithm] and executing them explicitly. Children
// are initialized on creation, never store their outputs, and return their
// computation errors to the parent. Children are never executed
// automatically.
//
// # Error Handling
//
// Errors returned by hooks are recognized computation errors. A top-level
// algorithm logs and swallows them; a child (or any algorithm with
// propagation enabled) returns them as [*ComputationError]. Panics and
// errors marked with [Unclassified] become [*UnknownFailure], which is
// always logged at fatal severity and always returned.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package algorithm
