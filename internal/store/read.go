package store

import (
	"context"
	"fmt"

	"github.com/Inesh-volunteer/graphbook/internal/registry"
)

// InvocationRow is one logged invocation with its assigned sequence.
type InvocationRow struct {
	Seq    int64
	Record registry.Record
}

// ReadInvocations returns the logged invocations for one operation in
// sequence order. An empty operation name returns the whole log.
func (s *Store) ReadInvocations(ctx context.Context, operation string) ([]InvocationRow, error) {
	query := `
		SELECT seq, id, operation, definition_hash, status, detail
		FROM invocations
	`
	var args []any
	if operation != "" {
		query += " WHERE operation = ?"
		args = append(args, operation)
	}
	query += " ORDER BY seq"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read invocations: %w", err)
	}
	defer rows.Close()

	var out []InvocationRow
	for rows.Next() {
		var row InvocationRow
		if err := rows.Scan(&row.Seq, &row.Record.ID, &row.Record.Operation,
			&row.Record.DefinitionHash, &row.Record.Status, &row.Record.Detail); err != nil {
			return nil, fmt.Errorf("scan invocation row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ReadConformanceRuns returns the logged conformance runs for one
// operation in sequence order. An empty operation name returns all runs.
func (s *Store) ReadConformanceRuns(ctx context.Context, operation string) ([]ConformanceRun, error) {
	query := `
		SELECT id, operation, example_index, pass, detail
		FROM conformance_runs
	`
	var args []any
	if operation != "" {
		query += " WHERE operation = ?"
		args = append(args, operation)
	}
	query += " ORDER BY seq"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read conformance runs: %w", err)
	}
	defer rows.Close()

	var out []ConformanceRun
	for rows.Next() {
		var run ConformanceRun
		var pass int
		if err := rows.Scan(&run.ID, &run.Operation, &run.ExampleIndex, &pass, &run.Detail); err != nil {
			return nil, fmt.Errorf("scan conformance row: %w", err)
		}
		run.Pass = pass != 0
		out = append(out, run)
	}
	return out, rows.Err()
}
