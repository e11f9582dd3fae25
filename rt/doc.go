// Package rt implements the objkit object runtime.
//
// This package contains:
//   - The process-wide class table mapping runtime ids to class descriptors
//   - The common instance header embedded by every runtime-managed type
//   - Atomic retain/release reference counting with synchronous destruction
//   - Goroutine-confined, nestable autorelease pools
//   - Generic dispatch (equality, hashing, description, copy) with fallbacks
//   - Weak references and live-instance accounting
//
// A type joins the runtime by embedding Header as its first field and
// registering a Class describing its optional behaviour:
//
//	type Box struct {
//		rt.Header
//		n int
//	}
//
//	var boxID = rt.Register(&rt.Class{Name: "Box"})
//
//	b := rt.New[Box](boxID, rt.Mutable)
//	defer rt.Release(b)
//
// Contract violations (releasing a destroyed instance, mutating an immutable
// one, autoreleasing without a pool) panic with a *ContractViolation.
package rt
