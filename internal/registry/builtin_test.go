package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Inesh-volunteer/graphbook/internal/tensor"
)

func TestBuiltinsParse(t *testing.T) {
	defs, kernels, err := Builtins()
	require.NoError(t, err)
	require.Len(t, defs, 4)

	for _, def := range defs {
		assert.Contains(t, kernels, def.Name, "every builtin entry needs a kernel")
		assert.NotEmpty(t, def.Assertions)
		assert.NotEmpty(t, def.Examples, "builtin entries ship conformance examples")
	}
}

func TestLogicalAndKernel(t *testing.T) {
	kernels := BuiltinKernels()

	a, err := tensor.New(tensor.Boolean, []int{4}, []float64{1, 1, 0, 0})
	require.NoError(t, err)
	b, err := tensor.New(tensor.Boolean, []int{4}, []float64{1, 0, 1, 0})
	require.NoError(t, err)

	out, err := kernels["logical_and"](context.Background(), []tensor.Tensor{a, b})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, tensor.Boolean, out[0].DataType())
	assert.Equal(t, []float64{1, 0, 0, 0}, out[0].Data())
}

func TestElementWiseKernelArity(t *testing.T) {
	kernels := BuiltinKernels()

	_, err := kernels["element_wise_add"](context.Background(), []tensor.Tensor{
		tensor.Scalar(tensor.Decimal, 1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 2 inputs")
}

func TestElementWiseKernelElementCountMismatch(t *testing.T) {
	kernels := BuiltinKernels()

	a, err := tensor.New(tensor.Decimal, []int{3}, []float64{1, 2, 3})
	require.NoError(t, err)
	b, err := tensor.New(tensor.Decimal, []int{2}, []float64{4, 5})
	require.NoError(t, err)

	_, err = kernels["element_wise_add"](context.Background(), []tensor.Tensor{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "equal element counts")
}
