package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Inesh-volunteer/graphbook/internal/catalog"
	"github.com/Inesh-volunteer/graphbook/internal/contract"
	"github.com/Inesh-volunteer/graphbook/internal/registry"
	"github.com/Inesh-volunteer/graphbook/internal/tensor"
)

// InvokeOptions holds flags for the invoke command.
type InvokeOptions struct {
	*RootOptions
	Inputs     string
	CatalogDir string
	NoBuiltins bool
	DBPath     string
}

// invokeInput is one slot binding in --inputs. Type defaults to
// DECIMAL when the value is given as a bare payload.
type invokeInput struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// invokeOutput is one produced output slot.
type invokeOutput struct {
	Type  string `json:"type"`
	Shape []int  `json:"shape"`
	Data  any    `json:"data"`
}

// NewInvokeCommand creates the invoke command.
func NewInvokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoke <operation>",
		Short: "Invoke an operation through the contract path",
		Long: `Invoke an operation by name or alias.

Inputs are bound by slot name, preconditions are checked, the kernel
runs, and postconditions are checked before any output is returned.
A violated assertion rejects the invocation with exit code 1.

Examples:
  graphbook invoke element_wise_exponentiate --inputs '{"base": 3.0, "exponent": 3.0}'
  graphbook invoke pow --inputs '{"base": {"type": "DECIMAL", "data": [[1.0,2.0],[3.0,4.0]]}, "exponent": {"type": "DECIMAL", "data": [[2.0,2.0],[2.0,2.0]]}}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Inputs, "inputs", "{}", "input tensors as a JSON object keyed by slot name")
	cmd.Flags().StringVar(&opts.CatalogDir, "catalog", "", "directory of extra catalog entries")
	cmd.Flags().BoolVar(&opts.NoBuiltins, "no-builtins", false, "skip the embedded builtin catalog")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database to log the invocation to")

	return cmd
}

func runInvoke(opts *InvokeOptions, operation string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	inputs, err := parseInputs(opts.Inputs)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --inputs", err)
	}

	eng, buildErr := buildEngine(EngineOptions{
		CatalogDir: opts.CatalogDir,
		NoBuiltins: opts.NoBuiltins,
		DBPath:     opts.DBPath,
	}, formatter)
	if buildErr != nil {
		return buildErr
	}
	defer eng.Close()

	outputs, invokeErr := eng.Registry.Invoke(cmd.Context(), operation, inputs)
	if invokeErr != nil {
		return outputInvokeError(formatter, invokeErr)
	}

	rendered := make(map[string]invokeOutput, len(outputs))
	for slot, t := range outputs {
		rendered[slot] = invokeOutput{
			Type:  string(t.DataType()),
			Shape: t.Shape(),
			Data:  t.Payload(),
		}
	}

	if opts.Format == "json" {
		return formatter.Success(rendered)
	}
	if op, ok := eng.Registry.Resolve(operation); ok {
		printOutputs(formatter.Writer, op.Def.Outputs, rendered)
	}
	return nil
}

// printOutputs writes one line per output slot in declaration order.
func printOutputs(w io.Writer, slots []catalog.Slot, rendered map[string]invokeOutput) {
	for _, slot := range slots {
		out, ok := rendered[slot.Name]
		if !ok {
			continue
		}
		data, _ := json.Marshal(out.Data)
		fmt.Fprintf(w, "%s (%s %v): %s\n", slot.Name, out.Type, out.Shape, data)
	}
}

// parseInputs decodes the --inputs JSON object into named tensors.
// Each value is either a bare numeric payload (treated as DECIMAL) or
// an object with explicit "type" and "data" fields.
func parseInputs(raw string) (map[string]tensor.Tensor, error) {
	var values map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode JSON object: %w", err)
	}

	inputs := make(map[string]tensor.Tensor, len(values))
	for slot, rawValue := range values {
		in := invokeInput{Type: string(tensor.Decimal)}
		if len(rawValue) > 0 && rawValue[0] == '{' {
			if err := json.Unmarshal(rawValue, &in); err != nil {
				return nil, fmt.Errorf("slot %q: %w", slot, err)
			}
		} else {
			if err := json.Unmarshal(rawValue, &in.Data); err != nil {
				return nil, fmt.Errorf("slot %q: %w", slot, err)
			}
		}

		dtype, err := tensor.ParseDataType(in.Type)
		if err != nil {
			return nil, fmt.Errorf("slot %q: %w", slot, err)
		}
		t, err := tensor.FromJSON(dtype, in.Data)
		if err != nil {
			return nil, fmt.Errorf("slot %q: %w", slot, err)
		}
		inputs[slot] = t
	}
	return inputs, nil
}

// outputInvokeError maps a dispatch failure to the right exit code:
// contract violations and binding problems are check failures (1),
// anything else is a command error (2).
func outputInvokeError(formatter *OutputFormatter, err error) error {
	var violation *contract.Violation
	if errors.As(err, &violation) {
		if formatErr := formatter.Error("contract_violation", violation.Error(), violation); formatErr != nil {
			return formatErr
		}
		return WrapExitError(ExitFailure, "invocation rejected", err)
	}

	var binding *registry.BindingError
	if errors.As(err, &binding) {
		if formatErr := formatter.Error("binding_error", binding.Error(), nil); formatErr != nil {
			return formatErr
		}
		return WrapExitError(ExitFailure, "invocation rejected", err)
	}

	var unknown *registry.UnknownOperationError
	if errors.As(err, &unknown) {
		if formatErr := formatter.Error("unknown_operation", unknown.Error(), nil); formatErr != nil {
			return formatErr
		}
		return WrapExitError(ExitCommandError, "unknown operation", err)
	}

	if formatErr := formatter.Error("invoke_error", err.Error(), nil); formatErr != nil {
		return formatErr
	}
	return WrapExitError(ExitCommandError, "invocation failed", err)
}
