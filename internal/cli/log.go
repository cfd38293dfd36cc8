package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Inesh-volunteer/graphbook/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	DBPath      string
	Operation   string
	Conformance bool
}

// LogEntry is one logged invocation.
type LogEntry struct {
	Seq            int64  `json:"seq"`
	ID             string `json:"id"`
	Operation      string `json:"operation"`
	DefinitionHash string `json:"definition_hash"`
	Status         string `json:"status"`
	Detail         string `json:"detail,omitempty"`
}

// LogRun is one logged conformance replay.
type LogRun struct {
	ID           string `json:"id"`
	Operation    string `json:"operation"`
	ExampleIndex int    `json:"example_index"`
	Pass         bool   `json:"pass"`
	Detail       string `json:"detail,omitempty"`
}

// LogResult holds the entries read from the database.
type LogResult struct {
	Invocations []LogEntry `json:"invocations,omitempty"`
	Runs        []LogRun   `json:"conformance_runs,omitempty"`
	Total       int        `json:"total"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show logged invocations and conformance runs",
		Long: `Read the invocation log written by invoke and test runs that were
given a --db path. Entries are shown in the order they were recorded.

Examples:
  graphbook log --db runs.db
  graphbook log --db runs.db --operation element_wise_add
  graphbook log --db runs.db --conformance --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Operation, "operation", "", "only show entries for this operation")
	cmd.Flags().BoolVar(&opts.Conformance, "conformance", false, "show conformance runs instead of invocations")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(opts.DBPath); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer st.Close()

	var result LogResult
	if opts.Conformance {
		runs, err := st.ReadConformanceRuns(cmd.Context(), opts.Operation)
		if err != nil {
			return WrapExitError(ExitCommandError, "read conformance runs", err)
		}
		for _, run := range runs {
			result.Runs = append(result.Runs, LogRun{
				ID:           run.ID,
				Operation:    run.Operation,
				ExampleIndex: run.ExampleIndex,
				Pass:         run.Pass,
				Detail:       run.Detail,
			})
		}
		result.Total = len(result.Runs)
	} else {
		rows, err := st.ReadInvocations(cmd.Context(), opts.Operation)
		if err != nil {
			return WrapExitError(ExitCommandError, "read invocations", err)
		}
		for _, row := range rows {
			result.Invocations = append(result.Invocations, LogEntry{
				Seq:            row.Seq,
				ID:             row.Record.ID,
				Operation:      row.Record.Operation,
				DefinitionHash: row.Record.DefinitionHash,
				Status:         row.Record.Status,
				Detail:         row.Record.Detail,
			})
		}
		result.Total = len(result.Invocations)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	printLogResult(formatter, result)
	return nil
}

func printLogResult(formatter *OutputFormatter, result LogResult) {
	for _, run := range result.Runs {
		status := "✓"
		if !run.Pass {
			status = "✗"
		}
		fmt.Fprintf(formatter.Writer, "%s %s example %d\n", status, run.Operation, run.ExampleIndex)
		if run.Detail != "" {
			fmt.Fprintf(formatter.Writer, "     %s\n", run.Detail)
		}
	}
	for _, e := range result.Invocations {
		fmt.Fprintf(formatter.Writer, "%d  %-8s %s  %s\n", e.Seq, e.Status, e.Operation, e.ID)
		if e.Detail != "" {
			fmt.Fprintf(formatter.Writer, "     %s\n", e.Detail)
		}
	}
	fmt.Fprintf(formatter.Writer, "\n%d total\n", result.Total)
}
