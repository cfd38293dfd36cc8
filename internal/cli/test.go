package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Inesh-volunteer/graphbook/internal/conformance"
	"github.com/Inesh-volunteer/graphbook/internal/store"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	CatalogDir string
	NoBuiltins bool
	DBPath     string
	AbsTol     float64
	RelTol     float64
}

// TestResult holds the overall conformance outcome.
type TestResult struct {
	Results []conformance.ExampleResult `json:"results"`
	Passed  int                         `json:"passed"`
	Failed  int                         `json:"failed"`
	Total   int                         `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Replay bundled examples through the dispatcher",
		Long: `Run every bundled example of every registered operation through the
full contract path and compare outputs within float tolerance.

Exit codes:
  0 - All examples passed
  1 - One or more examples failed
  2 - Command error (invalid paths, unloadable catalog, etc.)

Examples:
  graphbook test
  graphbook test --catalog ./catalog
  graphbook test --catalog ./catalog --db runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConformance(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CatalogDir, "catalog", "", "directory of extra catalog entries")
	cmd.Flags().BoolVar(&opts.NoBuiltins, "no-builtins", false, "skip the embedded builtin catalog")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database to log runs to")
	cmd.Flags().Float64Var(&opts.AbsTol, "abs-tol", conformance.DefaultTolerance.Abs, "absolute float tolerance")
	cmd.Flags().Float64Var(&opts.RelTol, "rel-tol", conformance.DefaultTolerance.Rel, "relative float tolerance")

	return cmd
}

func runConformance(opts *TestOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	eng, err := buildEngine(EngineOptions{
		CatalogDir: opts.CatalogDir,
		NoBuiltins: opts.NoBuiltins,
		DBPath:     opts.DBPath,
	}, formatter)
	if err != nil {
		return err
	}
	defer eng.Close()

	tol := conformance.Tolerance{Abs: opts.AbsTol, Rel: opts.RelTol}
	report := conformance.RunCatalog(cmd.Context(), eng.Registry, eng.Definitions, tol)

	if eng.Store != nil {
		recordReport(opts, eng.Store, report, formatter, cmd)
	}

	result := TestResult{
		Results: report.Results,
		Failed:  report.Failures(),
		Total:   len(report.Results),
	}
	result.Passed = result.Total - result.Failed

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		printTestResult(formatter, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d example(s) failed", result.Failed, result.Total))
	}
	return nil
}

// recordReport logs each example outcome; a store failure is reported
// but never changes the conformance verdict.
func recordReport(opts *TestOptions, st *store.Store, report *conformance.Report, formatter *OutputFormatter, cmd *cobra.Command) {
	for _, res := range report.Results {
		detail := res.Error
		if detail == "" && len(res.Mismatches) > 0 {
			detail = fmt.Sprintf("%d mismatch(es)", len(res.Mismatches))
		}
		run := store.ConformanceRun{
			ID:           fmt.Sprintf("%s/%d", res.Definition, res.Index),
			Operation:    res.Definition,
			ExampleIndex: res.Index,
			Pass:         res.Pass,
			Detail:       detail,
		}
		if err := st.RecordConformance(cmd.Context(), run); err != nil {
			formatter.VerboseLog("record conformance run %s: %v", run.ID, err)
		}
	}
}

func printTestResult(formatter *OutputFormatter, result TestResult) {
	for _, res := range result.Results {
		status := "✓"
		if !res.Pass {
			status = "✗"
		}
		fmt.Fprintf(formatter.Writer, "%s %s example %d\n", status, res.Definition, res.Index)
		if res.Error != "" {
			fmt.Fprintf(formatter.Writer, "     %s\n", res.Error)
		}
		for _, m := range res.Mismatches {
			fmt.Fprintf(formatter.Writer, "     %s[%d]: expected %s, got %s\n", m.Slot, m.Index, m.Expected, m.Actual)
		}
	}
	fmt.Fprintf(formatter.Writer, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
}
