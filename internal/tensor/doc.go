// Package tensor provides the runtime representation of a typed, shaped
// numeric value as it appears in graphbook catalog entries.
//
// A tensor is constructed from nested numeric data (the decoded form of a
// JSON or YAML payload) plus a declared data type. The shape is derived by
// measuring the nesting; it is never declared independently of the payload.
// Ragged nesting is rejected at construction time with MalformedTensorError,
// before any contract predicate runs.
//
// Shape equality is exact, element-wise tuple equality including rank. No
// broadcasting is modeled here - the catalog's shape predicates are exact.
package tensor
