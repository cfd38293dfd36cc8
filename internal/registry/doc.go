// Package registry maps primitive-operation names and aliases to their
// compiled contracts and numeric kernels, and dispatches invocations
// through precondition check, kernel execution, and postcondition check.
//
// Kernel dispatch is a capability map, not a class hierarchy: a new
// primitive is added by registering a definition+kernel pair. The
// registry itself knows no arithmetic.
//
// Loaded definitions are immutable, so lookups and contract evaluation
// are read-only and safe to run in parallel across invocations without
// locking. Load and reload swap a whole immutable snapshot atomically:
// in-flight invocations keep the snapshot they resolved against, new
// invocations see the new set, and there is no partial-catalog
// visibility.
package registry
