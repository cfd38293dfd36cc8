package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Inesh-volunteer/graphbook/internal/catalog"
	"github.com/Inesh-volunteer/graphbook/internal/tensor"
)

func TestParseInputs(t *testing.T) {
	t.Run("bare payloads default to decimal", func(t *testing.T) {
		inputs, err := parseInputs(`{"base": 3.0, "exponent": [[1.0, 2.0]]}`)
		require.NoError(t, err)
		require.Len(t, inputs, 2)

		assert.Equal(t, tensor.Decimal, inputs["base"].DataType())
		assert.Equal(t, 0, inputs["base"].Rank())
		assert.Equal(t, []int{1, 2}, inputs["exponent"].Shape())
	})

	t.Run("explicit type and data", func(t *testing.T) {
		inputs, err := parseInputs(`{"flag": {"type": "BOOLEAN", "data": [true, false]}}`)
		require.NoError(t, err)

		assert.Equal(t, tensor.Boolean, inputs["flag"].DataType())
		assert.Equal(t, []float64{1, 0}, inputs["flag"].Data())
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := parseInputs(`[1, 2, 3]`)
		require.Error(t, err)
	})

	t.Run("bad data type", func(t *testing.T) {
		_, err := parseInputs(`{"x": {"type": "TEXT", "data": 1}}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `slot "x"`)
	})

	t.Run("ragged payload", func(t *testing.T) {
		_, err := parseInputs(`{"x": [[1.0, 2.0], [3.0]]}`)
		require.Error(t, err)
	})
}

func TestInvokeCommandScalar(t *testing.T) {
	out, err := execute(t, "invoke", "element_wise_exponentiate",
		"--inputs", `{"base": 3.0, "exponent": 3.0}`,
		"--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	result, ok := data["exponentiation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 27.0, result["data"])
	assert.Equal(t, "DECIMAL", result["type"])
}

func TestInvokeCommandViaAlias(t *testing.T) {
	out, err := execute(t, "invoke", "pow",
		"--inputs", `{"base": [[2.0, 3.0]], "exponent": [[2.0, 2.0]]}`,
		"--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestInvokeCommandContractViolation(t *testing.T) {
	out, err := execute(t, "invoke", "element_wise_add",
		"--inputs", `{"summand_a": [1.0, 2.0], "summand_b": [1.0, 2.0, 3.0]}`,
		"--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "contract_violation", resp.Error.Code)
}

func TestPrintOutputsDeclarationOrder(t *testing.T) {
	slots := []catalog.Slot{{Name: "quotient"}, {Name: "remainder"}}
	rendered := map[string]invokeOutput{
		"remainder": {Type: "DECIMAL", Shape: []int{}, Data: 1.0},
		"quotient":  {Type: "DECIMAL", Shape: []int{}, Data: 3.0},
	}

	var buf bytes.Buffer
	printOutputs(&buf, slots, rendered)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "quotient "))
	assert.True(t, strings.HasPrefix(lines[1], "remainder "))
}

func TestInvokeCommandUnknownOperation(t *testing.T) {
	_, err := execute(t, "invoke", "matrix_multiply", "--inputs", `{}`)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInvokeCommandBadInputsJSON(t *testing.T) {
	_, err := execute(t, "invoke", "pow", "--inputs", `{not json`)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
