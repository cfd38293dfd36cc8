package registry

import (
	"context"
	"fmt"
	"math"

	"github.com/Inesh-volunteer/graphbook/internal/tensor"
)

// BuiltinKernels returns the kernel capability map for the embedded
// catalog entries. Keys are primary definition names.
func BuiltinKernels() map[string]Kernel {
	return map[string]Kernel{
		"element_wise_exponentiate": elementWise(tensor.Decimal, math.Pow),
		"element_wise_add":          elementWise(tensor.Decimal, func(a, b float64) float64 { return a + b }),
		"element_wise_multiply":     elementWise(tensor.Decimal, func(a, b float64) float64 { return a * b }),
		"logical_and": elementWise(tensor.Boolean, func(a, b float64) float64 {
			if a != 0 && b != 0 {
				return 1
			}
			return 0
		}),
	}
}

// elementWise builds a binary element-wise kernel producing one output
// tensor of the given type with the shape of the first input.
//
// Shape equality of the inputs is normally the contract validator's
// concern, but assertions are optional per entry, so the kernel still
// guards the element counts it pairs up rather than trusting that a
// shape predicate ran.
func elementWise(out tensor.DataType, f func(a, b float64) float64) Kernel {
	return func(ctx context.Context, inputs []tensor.Tensor) ([]tensor.Tensor, error) {
		if len(inputs) != 2 {
			return nil, fmt.Errorf("element-wise kernel expects 2 inputs, got %d", len(inputs))
		}
		a, b := inputs[0].Data(), inputs[1].Data()
		if len(a) != len(b) {
			return nil, fmt.Errorf("element-wise kernel expects equal element counts, got %d and %d", len(a), len(b))
		}
		res := make([]float64, len(a))
		for i := range a {
			res[i] = f(a[i], b[i])
		}
		t, err := tensor.New(out, inputs[0].Shape(), res)
		if err != nil {
			return nil, err
		}
		return []tensor.Tensor{t}, nil
	}
}
