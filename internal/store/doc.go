// Package store provides a durable SQLite log of invocation outcomes
// and conformance runs.
//
// The engine core never depends on this package: the registry records
// through an interface, and the CLI decides whether a database is
// attached at all. The log is an audit trail, not a source of truth -
// losing it changes nothing about dispatch behavior.
package store
