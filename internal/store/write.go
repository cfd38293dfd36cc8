package store

import (
	"context"
	"fmt"

	"github.com/Inesh-volunteer/graphbook/internal/registry"
)

// RecordInvocation appends one invocation outcome to the log.
// Idempotent: re-recording the same invocation ID is a no-op, so a
// retried caller cannot double-count.
//
// Store implements registry.Recorder, so it can be attached directly
// via registry.WithRecorder.
func (s *Store) RecordInvocation(ctx context.Context, rec registry.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO invocations (id, operation, definition_hash, status, detail)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.Operation, rec.DefinitionHash, rec.Status, rec.Detail)
	if err != nil {
		return fmt.Errorf("record invocation %s: %w", rec.ID, err)
	}
	return nil
}

// ConformanceRun is one logged example replay.
type ConformanceRun struct {
	ID           string
	Operation    string
	ExampleIndex int
	Pass         bool
	Detail       string
}

// RecordConformance appends one example replay outcome to the log.
// Idempotent by run ID.
func (s *Store) RecordConformance(ctx context.Context, run ConformanceRun) error {
	pass := 0
	if run.Pass {
		pass = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO conformance_runs (id, operation, example_index, pass, detail)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Operation, run.ExampleIndex, pass, run.Detail)
	if err != nil {
		return fmt.Errorf("record conformance run %s: %w", run.ID, err)
	}
	return nil
}
