package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Inesh-volunteer/graphbook/internal/catalog"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	CatalogDir string
	NoBuiltins bool
}

// OperationSummary is one registered operation in list output.
type OperationSummary struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Inputs      []string `json:"inputs"`
	Outputs     []string `json:"outputs"`
	Assertions  int      `json:"assertions"`
	Examples    int      `json:"examples"`
	Fingerprint string   `json:"fingerprint"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered operations",
		Long: `List the operations the engine would serve: the builtin catalog
plus any entries from --catalog, with their slots, alias sets, and
definition fingerprints.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CatalogDir, "catalog", "", "directory of extra catalog entries")
	cmd.Flags().BoolVar(&opts.NoBuiltins, "no-builtins", false, "skip the embedded builtin catalog")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	eng, err := buildEngine(EngineOptions{CatalogDir: opts.CatalogDir, NoBuiltins: opts.NoBuiltins}, formatter)
	if err != nil {
		return err
	}
	defer eng.Close()

	var summaries []OperationSummary
	for _, op := range eng.Registry.Operations() {
		summaries = append(summaries, OperationSummary{
			Name:        op.Def.Name,
			Aliases:     op.Def.Aliases,
			Inputs:      catalog.SlotNames(op.Def.Inputs),
			Outputs:     catalog.SlotNames(op.Def.Outputs),
			Assertions:  len(op.Def.Assertions),
			Examples:    len(op.Def.Examples),
			Fingerprint: op.Fingerprint,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No operations registered.")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(formatter.Writer, "%s(%s) -> (%s)\n",
			s.Name, strings.Join(s.Inputs, ", "), strings.Join(s.Outputs, ", "))
		if len(s.Aliases) > 0 {
			fmt.Fprintf(formatter.Writer, "  aliases: %s\n", strings.Join(s.Aliases, ", "))
		}
		fmt.Fprintf(formatter.Writer, "  assertions: %d  examples: %d  fingerprint: %s\n",
			s.Assertions, s.Examples, s.Fingerprint[:12])
	}
	return nil
}
