package contract

import (
	"fmt"

	"github.com/Inesh-volunteer/graphbook/internal/tensor"
)

// Contract holds the compiled assertions of one definition, split into
// preconditions (referencing input slots only) and postconditions
// (referencing at least one output slot). Declaration order is preserved
// within each phase so violations are reported deterministically.
type Contract struct {
	// Pre holds assertions evaluated before kernel dispatch.
	Pre []Predicate

	// Post holds assertions evaluated after kernel dispatch, before
	// the result is returned to the caller.
	Post []Predicate
}

// Violation reports the first failing predicate of a validation phase.
// Validation is fail-fast: downstream dispatch depends on precondition
// satisfaction, so collecting further violations would check tensors the
// contract has already rejected.
type Violation struct {
	// Assertion is the original template string that failed.
	Assertion string `json:"assertion"`

	// Kind is the failing predicate's table kind.
	Kind Kind `json:"kind"`

	// Slots lists the slot names the predicate was bound to.
	Slots []string `json:"slots"`

	// Expected describes the required relation or value.
	Expected string `json:"expected"`

	// Actual describes what the bound tensors provided.
	Actual string `json:"actual"`
}

// Error implements the error interface.
func (v *Violation) Error() string {
	return fmt.Sprintf("contract violation: %s: expected %s, got %s", v.Assertion, v.Expected, v.Actual)
}

// Bindings maps slot names to bound tensors for one invocation.
type Bindings map[string]tensor.Tensor

// Compile turns a definition's assertion templates into a Contract.
//
// Every placeholder must resolve to a declared input or output slot and
// every template must match the predicate table; both failures surface
// here, at load time. The returned error is the first compile failure,
// matching the loader's per-entry error handling.
func Compile(assertions []string, inputs, outputs []string) (*Contract, error) {
	declared := make(map[string]bool, len(inputs)+len(outputs))
	for _, name := range inputs {
		declared[name] = true
	}
	outputSet := make(map[string]bool, len(outputs))
	for _, name := range outputs {
		declared[name] = true
		outputSet[name] = true
	}

	c := &Contract{}
	for _, template := range assertions {
		pred, err := CompileTemplate(template, declared)
		if err != nil {
			return nil, err
		}
		if pred.References(outputSet) {
			c.Post = append(c.Post, pred)
		} else {
			c.Pre = append(c.Pre, pred)
		}
	}
	return c, nil
}

// CheckPre evaluates all preconditions against the input bindings.
// Returns the first Violation encountered, or nil.
func (c *Contract) CheckPre(bindings Bindings) error {
	return check(c.Pre, bindings)
}

// CheckPost evaluates all postconditions against the full bindings
// (inputs plus kernel outputs). Returns the first Violation, or nil.
func (c *Contract) CheckPost(bindings Bindings) error {
	return check(c.Post, bindings)
}

func check(preds []Predicate, bindings Bindings) error {
	for _, pred := range preds {
		if err := pred.eval(bindings); err != nil {
			return err
		}
	}
	return nil
}

// eval runs one compiled predicate against the current bindings.
func (p Predicate) eval(bindings Bindings) error {
	ts := make([]tensor.Tensor, len(p.Slots))
	for i, slot := range p.Slots {
		t, ok := bindings[slot]
		if !ok {
			// Slot binding is the dispatcher's job; a missing slot at
			// evaluation time is an internal invariant break.
			return fmt.Errorf("predicate %q: slot %q is not bound", p.Template, slot)
		}
		ts[i] = t
	}

	switch p.Kind {
	case KindDataTypeIs:
		if string(ts[0].DataType()) != p.Literal {
			return &Violation{
				Assertion: p.Template,
				Kind:      p.Kind,
				Slots:     p.Slots,
				Expected:  fmt.Sprintf("%s data type %s", p.Slots[0], p.Literal),
				Actual:    string(ts[0].DataType()),
			}
		}
		return nil

	case KindShapeSame:
		if !ts[0].ShapeEquals(ts[1]) {
			return &Violation{
				Assertion: p.Template,
				Kind:      p.Kind,
				Slots:     p.Slots,
				Expected:  fmt.Sprintf("%s shape %v", p.Slots[1], ts[1].Shape()),
				Actual:    fmt.Sprintf("%v", ts[0].Shape()),
			}
		}
		return nil

	case KindDataTypeSame:
		if !ts[0].DataTypeEquals(ts[1]) {
			return &Violation{
				Assertion: p.Template,
				Kind:      p.Kind,
				Slots:     p.Slots,
				Expected:  fmt.Sprintf("%s data type %s", p.Slots[1], ts[1].DataType()),
				Actual:    string(ts[0].DataType()),
			}
		}
		return nil

	default:
		return fmt.Errorf("predicate %q: unknown kind %q", p.Template, p.Kind)
	}
}
