package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Inesh-volunteer/graphbook/internal/catalog"
)

// ValidationIssue is one reported catalog problem.
type ValidationIssue struct {
	Code    string `json:"code"`
	File    string `json:"file,omitempty"`
	Entry   string `json:"entry,omitempty"`
	Message string `json:"message"`
}

// ValidationResult holds validation results for a catalog directory.
type ValidationResult struct {
	Valid       bool              `json:"valid"`
	Files       int               `json:"files"`
	Definitions int               `json:"definitions"`
	Issues      []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog-dir>",
		Short: "Validate catalog entries without loading a registry",
		Long: `Validate catalog entry files without building a registry.

Performs decode, schema, slot, assertion, and example checks on every
entry in the directory, reporting all problems rather than stopping at
the first. Faster than a full test run for authoring feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, catalogDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	result, loadErrs := catalog.LoadDir(catalogDir, catalog.LoadModeCollectAll)
	if result == nil {
		// Directory-level failure: nothing was loadable at all.
		if len(loadErrs) > 0 {
			return outputValidateError(formatter, loadErrs[0])
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("no catalog found in %s", catalogDir))
	}

	formatter.VerboseLog("Found %d catalog file(s) in %s", result.FileCount, catalogDir)

	out := ValidationResult{
		Valid:       len(loadErrs) == 0,
		Files:       result.FileCount,
		Definitions: len(result.Definitions),
	}
	for _, err := range loadErrs {
		out.Issues = append(out.Issues, issueFrom(err))
	}

	if !out.Valid {
		if opts.Format == "json" {
			if err := formatter.Success(out); err != nil {
				return err
			}
		} else {
			for _, issue := range out.Issues {
				where := issue.File
				if issue.Entry != "" {
					where = fmt.Sprintf("%s (%s)", where, issue.Entry)
				}
				fmt.Fprintf(formatter.Writer, "  [%s] %s: %s\n", issue.Code, where, issue.Message)
			}
			fmt.Fprintf(formatter.Writer, "✗ %d problem(s) in %d file(s)\n", len(out.Issues), out.Files)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation problem(s)", len(out.Issues)))
	}

	if opts.Format == "json" {
		return formatter.Success(out)
	}
	fmt.Fprintf(formatter.Writer, "✓ %d definition(s) valid in %d file(s)\n", out.Definitions, out.Files)
	return nil
}

// issueFrom flattens a load error into the reportable issue shape.
func issueFrom(err error) ValidationIssue {
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		return ValidationIssue{
			Code:    loadErr.Code,
			File:    loadErr.File,
			Entry:   loadErr.Entry,
			Message: loadErr.Message,
		}
	}
	return ValidationIssue{Code: catalog.ErrCodeGeneric, Message: err.Error()}
}

func outputValidateError(formatter *OutputFormatter, err error) error {
	issue := issueFrom(err)
	if formatErr := formatter.Error(issue.Code, issue.Message, nil); formatErr != nil {
		return formatErr
	}
	return NewExitError(ExitCommandError, issue.Message)
}
