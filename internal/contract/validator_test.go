package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Inesh-volunteer/graphbook/internal/tensor"
)

// exponentiateAssertions cover all three predicate kinds over the
// exponentiate slot layout.
var exponentiateAssertions = []string{
	"{base}_data_type_is_decimal",
	"{exponent}_data_type_is_decimal",
	"{base}_shape_is_the_same_as_{exponent}",
	"{exponentiation}_shape_is_the_same_as_{base}",
	"{exponentiation}_data_type_is_the_same_as_{base}",
}

func compileExponentiate(t *testing.T) *Contract {
	t.Helper()
	c, err := Compile(exponentiateAssertions, []string{"base", "exponent"}, []string{"exponentiation"})
	require.NoError(t, err)
	return c
}

func TestCompileSplitsPreAndPost(t *testing.T) {
	c := compileExponentiate(t)

	require.Len(t, c.Pre, 3)
	require.Len(t, c.Post, 2)

	// Declaration order is preserved within each phase.
	assert.Equal(t, "{base}_data_type_is_decimal", c.Pre[0].Template)
	assert.Equal(t, "{exponent}_data_type_is_decimal", c.Pre[1].Template)
	assert.Equal(t, "{base}_shape_is_the_same_as_{exponent}", c.Pre[2].Template)
	assert.Equal(t, "{exponentiation}_shape_is_the_same_as_{base}", c.Post[0].Template)
	assert.Equal(t, "{exponentiation}_data_type_is_the_same_as_{base}", c.Post[1].Template)
}

func TestCompileRejectsBadAssertion(t *testing.T) {
	_, err := Compile([]string{"{base}_is_positive"}, []string{"base"}, nil)

	var unknown *UnknownPredicateError
	require.ErrorAs(t, err, &unknown)
}

func TestCheckPrePasses(t *testing.T) {
	c := compileExponentiate(t)

	m, err := tensor.New(tensor.Decimal, []int{2, 3}, make([]float64, 6))
	require.NoError(t, err)

	assert.NoError(t, c.CheckPre(Bindings{"base": m, "exponent": m}))
}

func TestCheckPreShapeMismatch(t *testing.T) {
	c := compileExponentiate(t)

	base, err := tensor.New(tensor.Decimal, []int{2, 3}, make([]float64, 6))
	require.NoError(t, err)
	exponent, err := tensor.New(tensor.Decimal, []int{3, 2}, make([]float64, 6))
	require.NoError(t, err)

	violationErr := c.CheckPre(Bindings{"base": base, "exponent": exponent})

	var v *Violation
	require.ErrorAs(t, violationErr, &v)
	assert.Equal(t, "{base}_shape_is_the_same_as_{exponent}", v.Assertion)
	assert.Equal(t, KindShapeSame, v.Kind)
	assert.Contains(t, v.Expected, "[3 2]")
	assert.Contains(t, v.Actual, "[2 3]")
}

func TestCheckPreFailFast(t *testing.T) {
	c := compileExponentiate(t)

	// Both the type and shape predicates fail; only the first declared
	// failure is reported.
	base := tensor.Scalar(tensor.Integer, 2)
	exponent, err := tensor.New(tensor.Decimal, []int{2}, []float64{1, 2})
	require.NoError(t, err)

	violationErr := c.CheckPre(Bindings{"base": base, "exponent": exponent})

	var v *Violation
	require.ErrorAs(t, violationErr, &v)
	assert.Equal(t, "{base}_data_type_is_decimal", v.Assertion)
}

func TestCheckPostTypeMismatch(t *testing.T) {
	c := compileExponentiate(t)

	base := tensor.Scalar(tensor.Decimal, 3)
	result := tensor.Scalar(tensor.Integer, 27)

	violationErr := c.CheckPost(Bindings{"base": base, "exponent": base, "exponentiation": result})

	var v *Violation
	require.ErrorAs(t, violationErr, &v)
	assert.Equal(t, KindDataTypeSame, v.Kind)
	assert.Equal(t, "INTEGER", v.Actual)
}

func TestCheckPostPasses(t *testing.T) {
	c := compileExponentiate(t)

	base := tensor.Scalar(tensor.Decimal, 3)
	assert.NoError(t, c.CheckPost(Bindings{"base": base, "exponent": base, "exponentiation": tensor.Scalar(tensor.Decimal, 27)}))
}

func TestCheckUnboundSlotIsInternalError(t *testing.T) {
	c := compileExponentiate(t)

	err := c.CheckPre(Bindings{"base": tensor.Scalar(tensor.Decimal, 1)})
	require.Error(t, err)

	var v *Violation
	assert.False(t, errors.As(err, &v), "missing binding is not a contract violation")
}
