// Package builtin provides the reference algorithms shipped with mantle.
//
//	CreateWorkspace v1  Utility\Workspaces  builds a workspace from X and Y values
//	Scale v1            Arithmetic          multiplies Y by a factor
//	Scale v2            Arithmetic          multiplies or offsets Y by a factor
//	ScaleChain v1       Workflow            CreateWorkspace followed by Repeat Scale passes
//	Fail v1             Testing             fails on demand
//
// Call [Register] to add them to a registry.
package builtin
