package catalog

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TypePrimitiveOperation is the only entry type this engine serves.
// Composite operation graphs are out of scope for the contract core.
const TypePrimitiveOperation = "PRIMITIVE_OPERATION"

// Definition is one catalog entry: a named, contract-bearing numeric
// transformation with bundled conformance examples.
type Definition struct {
	Name          string    `json:"name" yaml:"name"`
	PrimitiveName string    `json:"primitive_name,omitempty" yaml:"primitive_name,omitempty"`
	Aliases       []string  `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Type          string    `json:"type" yaml:"type"`
	Inputs        []Slot    `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs       []Slot    `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Assertions    []string  `json:"assertions,omitempty" yaml:"assertions,omitempty"`
	Description   []string  `json:"description,omitempty" yaml:"description,omitempty"`
	Examples      []Example `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Slot is a named input or output parameter of a primitive operation.
//
// Catalog files spell slots either as a bare string ("base") or as an
// object with a traceability tag ({"name": "base", "primitive_name":
// "base"}); both decode into the same struct.
type Slot struct {
	Name          string `json:"name" yaml:"name"`
	PrimitiveName string `json:"primitive_name,omitempty" yaml:"primitive_name,omitempty"`
}

// UnmarshalJSON accepts both the bare-string and object slot forms.
func (s *Slot) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*s = Slot{Name: name}
		return nil
	}
	type slotObject Slot // avoid recursing into this method
	var obj slotObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*s = Slot(obj)
	return nil
}

// UnmarshalYAML accepts both the bare-string and object slot forms.
func (s *Slot) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}
		*s = Slot{Name: name}
		return nil
	}
	type slotObject Slot
	var obj slotObject
	if err := node.Decode(&obj); err != nil {
		return err
	}
	*s = Slot(obj)
	return nil
}

// MarshalJSON renders the object form so round-tripped entries keep the
// traceability tag when present.
func (s Slot) MarshalJSON() ([]byte, error) {
	if s.PrimitiveName == "" {
		return json.Marshal(s.Name)
	}
	type slotObject Slot
	return json.Marshal(slotObject(s))
}

// Example is a bundled input/output pair used only for conformance
// testing; it is never mutated.
type Example struct {
	Inputs  []ExampleValue `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs []ExampleValue `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// ExampleValue binds example data to an input or output slot by name.
// Shape is declared on outputs only and is cross-checked against the
// dispatcher's actual output shape during conformance runs.
type ExampleValue struct {
	Name          string `json:"name" yaml:"name"`
	PrimitiveName string `json:"primitive_name,omitempty" yaml:"primitive_name,omitempty"`
	Data          any    `json:"data" yaml:"data"`
	Type          string `json:"type" yaml:"type"`
	Shape         []int  `json:"shape,omitempty" yaml:"shape,omitempty"`
}

// SlotNames returns the names of a slot list in declaration order.
func SlotNames(slots []Slot) []string {
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = s.Name
	}
	return names
}

// String renders a short identifier for logs and error messages.
func (d *Definition) String() string {
	return fmt.Sprintf("%s (%d in, %d out, %d assertions, %d examples)",
		d.Name, len(d.Inputs), len(d.Outputs), len(d.Assertions), len(d.Examples))
}
