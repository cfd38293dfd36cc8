// Package catalog defines the graphbook primitive-operation entry format
// and loads entries from JSON or YAML files.
//
// Loading is a three-step pipeline per entry: decode, vet the decoded
// structure against an embedded CUE schema, then compile and validate the
// entry Go-side (slot uniqueness, assertion compilation, example binding).
// Load errors are coded and collected per entry - one bad entry never
// blocks the rest of the catalog.
//
// Definitions are immutable once loaded; the registry owns them for its
// lifetime and replaces them wholesale on reload.
package catalog
