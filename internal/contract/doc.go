// Package contract compiles the assertion templates attached to a catalog
// definition into executable predicate checks, and evaluates them against
// bound tensors before and after kernel dispatch.
//
// Assertion templates are a tiny embedded DSL, not a general expression
// language: a template is `{slot}_<predicate>` or `{slotA}_<predicate>_{slotB}`,
// and the predicate part is matched against a fixed table keyed by the
// placeholder-stripped template shape. The table is the single extension
// point; there is no user-extensible scripting.
//
// Compilation happens once at definition load time. Unknown predicates and
// placeholders that reference undeclared slots are load errors, never
// deferred to invocation.
package contract
