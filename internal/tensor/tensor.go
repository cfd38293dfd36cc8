package tensor

import (
	"fmt"
	"math"
	"strings"
)

// DataType identifies the declared element type of a tensor.
//
// The payload is stored uniformly as float64 regardless of the declared
// type (BOOLEAN as 0/1); the declared type drives contract checks and
// JSON rendering. Nothing is ever auto-cast between types.
type DataType string

const (
	// Decimal is a floating-point element type.
	Decimal DataType = "DECIMAL"

	// Integer is a whole-number element type.
	Integer DataType = "INTEGER"

	// Boolean is a truth-value element type, stored as 0 or 1.
	Boolean DataType = "BOOLEAN"
)

// ValidDataTypes defines the allowed data type names.
var ValidDataTypes = map[DataType]bool{
	Decimal: true,
	Integer: true,
	Boolean: true,
}

// ParseDataType converts a catalog type string into a DataType.
// Matching is case-insensitive because assertion templates spell types
// in lowercase ("decimal") while entry payloads use uppercase ("DECIMAL").
func ParseDataType(s string) (DataType, error) {
	dt := DataType(strings.ToUpper(s))
	if !ValidDataTypes[dt] {
		return "", fmt.Errorf("unsupported data type %q", s)
	}
	return dt, nil
}

// MalformedTensorError reports ragged or non-numeric nested payload data.
// It is raised at construction time, before any contract predicate runs.
type MalformedTensorError struct {
	// Path locates the offending element, e.g. "[1][2]".
	Path string

	// Message describes what was wrong at that position.
	Message string
}

// Error implements the error interface.
func (e *MalformedTensorError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed tensor: %s", e.Message)
	}
	return fmt.Sprintf("malformed tensor at %s: %s", e.Path, e.Message)
}

// Tensor is an immutable typed, shaped numeric value.
//
// The zero value is not usable; construct via New, Scalar, or FromJSON.
// Accessors return copies so callers cannot mutate a tensor after
// construction, which is what makes pass-by-value semantics across the
// validator/dispatcher boundary hold.
type Tensor struct {
	dtype DataType
	shape []int
	data  []float64
}

// New creates a tensor from an explicit shape and flat row-major data.
// The element count of data must equal the product of the shape dims.
func New(dtype DataType, shape []int, data []float64) (Tensor, error) {
	if !ValidDataTypes[dtype] {
		return Tensor{}, fmt.Errorf("unsupported data type %q", dtype)
	}
	n := 1
	for i, dim := range shape {
		if dim < 0 {
			return Tensor{}, fmt.Errorf("shape[%d] = %d: dimensions must be non-negative", i, dim)
		}
		n *= dim
	}
	if len(data) != n {
		return Tensor{}, fmt.Errorf("data length mismatch: got %d elements, expected %d for shape %v", len(data), n, shape)
	}
	shapeCopy := make([]int, len(shape))
	copy(shapeCopy, shape)
	dataCopy := make([]float64, len(data))
	copy(dataCopy, data)
	return Tensor{dtype: dtype, shape: shapeCopy, data: dataCopy}, nil
}

// Scalar creates a rank-0 tensor holding a single value.
func Scalar(dtype DataType, v float64) Tensor {
	t, _ := New(dtype, nil, []float64{v})
	return t
}

// FromJSON constructs a tensor from decoded JSON or YAML payload data.
//
// The shape is derived by measuring the nesting depth and per-level
// lengths. Ragged nesting, mixed nesting depths, and element values that
// do not fit the declared type produce MalformedTensorError.
func FromJSON(dtype DataType, payload any) (Tensor, error) {
	if !ValidDataTypes[dtype] {
		return Tensor{}, fmt.Errorf("unsupported data type %q", dtype)
	}

	shape := measureShape(payload)

	var data []float64
	if err := flatten(dtype, payload, "", shape, 0, &data); err != nil {
		return Tensor{}, err
	}

	return Tensor{dtype: dtype, shape: shape, data: data}, nil
}

// measureShape derives the shape from the first element at each nesting
// level. Sibling consistency is enforced later by flatten, which walks
// every element.
func measureShape(payload any) []int {
	var shape []int
	cur := payload
	for {
		list, ok := asList(cur)
		if !ok {
			return shape
		}
		shape = append(shape, len(list))
		if len(list) == 0 {
			return shape
		}
		cur = list[0]
	}
}

// flatten appends every leaf value to out in row-major order, verifying
// that each sub-list matches the measured shape exactly.
func flatten(dtype DataType, payload any, path string, shape []int, depth int, out *[]float64) error {
	list, ok := asList(payload)
	if !ok {
		if depth != len(shape) {
			return &MalformedTensorError{Path: path, Message: fmt.Sprintf("expected nesting of depth %d, found value at depth %d", len(shape), depth)}
		}
		v, err := leafValue(dtype, payload)
		if err != nil {
			return &MalformedTensorError{Path: path, Message: err.Error()}
		}
		*out = append(*out, v)
		return nil
	}

	if depth >= len(shape) {
		return &MalformedTensorError{Path: path, Message: fmt.Sprintf("nesting deeper than measured rank %d", len(shape))}
	}
	if len(list) != shape[depth] {
		return &MalformedTensorError{Path: path, Message: fmt.Sprintf("ragged nesting: got %d elements, expected %d", len(list), shape[depth])}
	}
	for i, elem := range list {
		if err := flatten(dtype, elem, fmt.Sprintf("%s[%d]", path, i), shape, depth+1, out); err != nil {
			return err
		}
	}
	return nil
}

// asList normalizes the list forms produced by encoding/json and yaml.v3.
func asList(v any) ([]any, bool) {
	list, ok := v.([]any)
	return list, ok
}

// leafValue converts a decoded scalar into the float64 payload form.
// JSON decodes numbers as float64; YAML decodes whole numbers as int.
func leafValue(dtype DataType, v any) (float64, error) {
	switch dtype {
	case Boolean:
		b, ok := v.(bool)
		if !ok {
			return 0, fmt.Errorf("expected boolean element, got %T", v)
		}
		if b {
			return 1, nil
		}
		return 0, nil

	case Integer:
		f, ok := numericValue(v)
		if !ok {
			return 0, fmt.Errorf("expected integer element, got %T", v)
		}
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("expected integer element, got fractional value %v", f)
		}
		return f, nil

	case Decimal:
		f, ok := numericValue(v)
		if !ok {
			return 0, fmt.Errorf("expected decimal element, got %T", v)
		}
		return f, nil

	default:
		return 0, fmt.Errorf("unsupported data type %q", dtype)
	}
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// DataType returns the declared element type.
func (t Tensor) DataType() DataType {
	return t.dtype
}

// Shape returns a copy of the shape. Rank is len(Shape());
// an empty shape denotes a scalar.
func (t Tensor) Shape() []int {
	out := make([]int, len(t.shape))
	copy(out, t.shape)
	return out
}

// Rank returns the number of dimensions.
func (t Tensor) Rank() int {
	return len(t.shape)
}

// Len returns the total element count.
func (t Tensor) Len() int {
	return len(t.data)
}

// Data returns a copy of the flat row-major payload.
func (t Tensor) Data() []float64 {
	out := make([]float64, len(t.data))
	copy(out, t.data)
	return out
}

// At returns the element at the given multi-index.
// A scalar is addressed with no indices.
func (t Tensor) At(indices ...int) (float64, error) {
	if len(indices) != len(t.shape) {
		return 0, fmt.Errorf("index rank mismatch: got %d indices for rank %d tensor", len(indices), len(t.shape))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			return 0, fmt.Errorf("index %d out of range for dimension %d (size %d)", idx, i, t.shape[i])
		}
		offset = offset*t.shape[i] + idx
	}
	return t.data[offset], nil
}

// ShapeEquals reports exact element-wise shape equality, including rank.
// A scalar (empty shape) matches only another scalar.
func (t Tensor) ShapeEquals(o Tensor) bool {
	if len(t.shape) != len(o.shape) {
		return false
	}
	for i := range t.shape {
		if t.shape[i] != o.shape[i] {
			return false
		}
	}
	return true
}

// DataTypeEquals reports whether both tensors declare the same type.
func (t Tensor) DataTypeEquals(o Tensor) bool {
	return t.dtype == o.dtype
}

// Payload renders the tensor back into nested form: float64 leaves for
// DECIMAL, int64 leaves for INTEGER, bool leaves for BOOLEAN.
func (t Tensor) Payload() any {
	pos := 0
	return t.render(0, &pos)
}

func (t Tensor) render(depth int, pos *int) any {
	if depth == len(t.shape) {
		v := t.data[*pos]
		*pos++
		switch t.dtype {
		case Integer:
			return int64(v)
		case Boolean:
			return v != 0
		default:
			return v
		}
	}
	out := make([]any, t.shape[depth])
	for i := range out {
		out[i] = t.render(depth+1, pos)
	}
	return out
}

// String renders a compact human-readable form for diagnostics.
func (t Tensor) String() string {
	return fmt.Sprintf("%s%v %v", t.dtype, t.shape, t.Payload())
}
