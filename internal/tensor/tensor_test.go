package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected DataType
		wantErr  bool
	}{
		{"uppercase decimal", "DECIMAL", Decimal, false},
		{"lowercase decimal", "decimal", Decimal, false},
		{"uppercase integer", "INTEGER", Integer, false},
		{"lowercase boolean", "boolean", Boolean, false},
		{"unknown type", "TEXT", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := ParseDataType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dt)
		})
	}
}

func TestNewShapeDataMismatch(t *testing.T) {
	_, err := New(Decimal, []int{2, 3}, []float64{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data length mismatch")
}

func TestNewNegativeDimension(t *testing.T) {
	_, err := New(Decimal, []int{-1}, nil)
	require.Error(t, err)
}

func TestScalar(t *testing.T) {
	s := Scalar(Decimal, 3.0)
	assert.Equal(t, 0, s.Rank())
	assert.Empty(t, s.Shape())
	assert.Equal(t, 1, s.Len())

	v, err := s.At()
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestFromJSONScalar(t *testing.T) {
	got, err := FromJSON(Decimal, 3.0)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Rank())
	assert.Equal(t, []float64{3.0}, got.Data())
}

func TestFromJSONMatrix(t *testing.T) {
	payload := []any{
		[]any{10.8, 30.0, 5.5},
		[]any{9.4, 3.0, 2.5},
	}
	got, err := FromJSON(Decimal, payload)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, got.Shape())
	assert.Equal(t, []float64{10.8, 30.0, 5.5, 9.4, 3.0, 2.5}, got.Data())

	v, err := got.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}

func TestFromJSONRagged(t *testing.T) {
	payload := []any{
		[]any{1.0, 2.0, 3.0},
		[]any{4.0, 5.0},
	}
	_, err := FromJSON(Decimal, payload)
	require.Error(t, err)

	var malformed *MalformedTensorError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "[1]", malformed.Path)
	assert.Contains(t, malformed.Message, "ragged")
}

func TestFromJSONMixedDepth(t *testing.T) {
	payload := []any{
		[]any{1.0, 2.0},
		3.0,
	}
	_, err := FromJSON(Decimal, payload)

	var malformed *MalformedTensorError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "[1]", malformed.Path)
}

func TestFromJSONTypeEnforcement(t *testing.T) {
	t.Run("integer rejects fractional", func(t *testing.T) {
		_, err := FromJSON(Integer, []any{1.0, 2.5})
		var malformed *MalformedTensorError
		require.ErrorAs(t, err, &malformed)
		assert.Contains(t, malformed.Message, "fractional")
	})

	t.Run("integer accepts whole floats", func(t *testing.T) {
		got, err := FromJSON(Integer, []any{1.0, 2.0})
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2}, got.Data())
	})

	t.Run("integer accepts yaml ints", func(t *testing.T) {
		got, err := FromJSON(Integer, []any{1, 2})
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2}, got.Data())
	})

	t.Run("boolean rejects numbers", func(t *testing.T) {
		_, err := FromJSON(Boolean, []any{true, 1.0})
		var malformed *MalformedTensorError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "[1]", malformed.Path)
	})

	t.Run("decimal rejects strings", func(t *testing.T) {
		_, err := FromJSON(Decimal, []any{"not a number"})
		require.Error(t, err)
	})
}

func TestFromJSONEmptyList(t *testing.T) {
	got, err := FromJSON(Decimal, []any{})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, got.Shape())
	assert.Equal(t, 0, got.Len())
}

func TestImmutability(t *testing.T) {
	data := []float64{1, 2, 3}
	shape := []int{3}
	tn, err := New(Decimal, shape, data)
	require.NoError(t, err)

	// Mutating the construction slices must not affect the tensor.
	data[0] = 99
	shape[0] = 99
	assert.Equal(t, []float64{1, 2, 3}, tn.Data())
	assert.Equal(t, []int{3}, tn.Shape())

	// Mutating accessor results must not affect the tensor either.
	tn.Data()[1] = 99
	tn.Shape()[0] = 99
	assert.Equal(t, []float64{1, 2, 3}, tn.Data())
	assert.Equal(t, []int{3}, tn.Shape())
}

func TestShapeEquals(t *testing.T) {
	a, _ := New(Decimal, []int{2, 3}, make([]float64, 6))
	b, _ := New(Integer, []int{2, 3}, make([]float64, 6))
	c, _ := New(Decimal, []int{3, 2}, make([]float64, 6))
	d, _ := New(Decimal, []int{6}, make([]float64, 6))
	scalar := Scalar(Decimal, 1)

	assert.True(t, a.ShapeEquals(b))
	assert.False(t, a.ShapeEquals(c), "transposed shape must not match")
	assert.False(t, a.ShapeEquals(d), "same element count is not shape equality")
	assert.False(t, a.ShapeEquals(scalar))
	assert.True(t, scalar.ShapeEquals(Scalar(Boolean, 0)))
}

func TestDataTypeEquals(t *testing.T) {
	a := Scalar(Decimal, 1)
	b := Scalar(Decimal, 2)
	c := Scalar(Integer, 1)

	assert.True(t, a.DataTypeEquals(b))
	assert.False(t, a.DataTypeEquals(c))
}

func TestAtBounds(t *testing.T) {
	tn, _ := New(Decimal, []int{2, 2}, []float64{1, 2, 3, 4})

	_, err := tn.At(2, 0)
	require.Error(t, err)

	_, err = tn.At(0)
	require.Error(t, err, "index rank must match tensor rank")
}

func TestPayloadRoundTrip(t *testing.T) {
	t.Run("decimal matrix", func(t *testing.T) {
		tn, _ := New(Decimal, []int{2, 2}, []float64{1.5, 2.5, 3.5, 4.5})
		assert.Equal(t, []any{[]any{1.5, 2.5}, []any{3.5, 4.5}}, tn.Payload())
	})

	t.Run("integer leaves render as int64", func(t *testing.T) {
		tn, _ := New(Integer, []int{2}, []float64{1, 2})
		assert.Equal(t, []any{int64(1), int64(2)}, tn.Payload())
	})

	t.Run("boolean leaves render as bool", func(t *testing.T) {
		tn, _ := New(Boolean, []int{2}, []float64{1, 0})
		assert.Equal(t, []any{true, false}, tn.Payload())
	})

	t.Run("scalar renders bare", func(t *testing.T) {
		assert.Equal(t, 27.0, Scalar(Decimal, 27).Payload())
	})
}
