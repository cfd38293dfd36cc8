package contract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Inesh-volunteer/graphbook/internal/tensor"
)

// Kind identifies a predicate in the fixed table.
type Kind string

const (
	// KindDataTypeIs checks one slot's declared type against a literal
	// type name. Template shape: {a}_data_type_is_<type>.
	KindDataTypeIs Kind = "data_type_is"

	// KindShapeSame checks two slots for exact element-wise shape
	// equality. Template shape: {a}_shape_is_the_same_as_{b}.
	KindShapeSame Kind = "shape_is_the_same_as"

	// KindDataTypeSame checks two slots for equal declared types.
	// Template shape: {a}_data_type_is_the_same_as_{b}.
	KindDataTypeSame Kind = "data_type_is_the_same_as"
)

// Predicate is a compiled assertion: a table kind bound to one or two
// slot names plus an optional literal argument. Predicates are compiled
// once at load time and stored, never re-parsed per call.
type Predicate struct {
	// Template is the original assertion string, kept for diagnostics.
	Template string `json:"template"`

	// Kind selects the evaluation rule.
	Kind Kind `json:"kind"`

	// Slots lists the referenced slot names in template order (1 or 2).
	Slots []string `json:"slots"`

	// Literal is the literal argument for parameterized predicates
	// (the type name for KindDataTypeIs), empty otherwise.
	Literal string `json:"literal,omitempty"`
}

// UnknownPredicateError reports an assertion template whose
// placeholder-stripped shape matches no entry in the predicate table.
type UnknownPredicateError struct {
	Template   string
	Normalized string
}

// Error implements the error interface.
func (e *UnknownPredicateError) Error() string {
	return fmt.Sprintf("unknown predicate in assertion %q (normalized form %q)", e.Template, e.Normalized)
}

// UnboundSlotError reports a placeholder referencing a slot name that is
// not declared by the definition's inputs or outputs.
type UnboundSlotError struct {
	Template string
	Slot     string
}

// Error implements the error interface.
func (e *UnboundSlotError) Error() string {
	return fmt.Sprintf("assertion %q references undeclared slot %q", e.Template, e.Slot)
}

// placeholderPattern matches {slot} placeholders in assertion templates.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

const (
	dataTypeIsPrefix  = "data_type_is_"
	shapeSameInfix    = "shape_is_the_same_as"
	dataTypeSameInfix = "data_type_is_the_same_as"
)

// CompileTemplate parses one assertion template into a Predicate,
// checking every placeholder against the declared slot set.
func CompileTemplate(template string, declared map[string]bool) (Predicate, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(template, -1)
	normalized := placeholderPattern.ReplaceAllString(template, "*")

	var slots []string
	for _, m := range matches {
		slots = append(slots, template[m[2]:m[3]])
	}
	for _, slot := range slots {
		if !declared[slot] {
			return Predicate{}, &UnboundSlotError{Template: template, Slot: slot}
		}
	}

	switch len(matches) {
	case 1:
		// {a}_<predicate>: placeholder must open the template.
		if matches[0][0] != 0 {
			return Predicate{}, &UnknownPredicateError{Template: template, Normalized: normalized}
		}
		rest := template[matches[0][1]:]
		pred, ok := strings.CutPrefix(rest, "_")
		if !ok {
			return Predicate{}, &UnknownPredicateError{Template: template, Normalized: normalized}
		}
		typeName, ok := strings.CutPrefix(pred, dataTypeIsPrefix)
		if !ok {
			return Predicate{}, &UnknownPredicateError{Template: template, Normalized: normalized}
		}
		dt, err := tensor.ParseDataType(typeName)
		if err != nil {
			return Predicate{}, &UnknownPredicateError{Template: template, Normalized: normalized}
		}
		return Predicate{Template: template, Kind: KindDataTypeIs, Slots: slots, Literal: string(dt)}, nil

	case 2:
		// {a}_<predicate>_{b}: placeholders must bracket the template.
		if matches[0][0] != 0 || matches[1][1] != len(template) {
			return Predicate{}, &UnknownPredicateError{Template: template, Normalized: normalized}
		}
		mid := template[matches[0][1]:matches[1][0]]
		mid = strings.TrimPrefix(strings.TrimSuffix(mid, "_"), "_")
		switch mid {
		case shapeSameInfix:
			return Predicate{Template: template, Kind: KindShapeSame, Slots: slots}, nil
		case dataTypeSameInfix:
			return Predicate{Template: template, Kind: KindDataTypeSame, Slots: slots}, nil
		default:
			return Predicate{}, &UnknownPredicateError{Template: template, Normalized: normalized}
		}

	default:
		return Predicate{}, &UnknownPredicateError{Template: template, Normalized: normalized}
	}
}

// References reports whether the predicate mentions any of the given
// slot names. Used to split assertions into pre- and postconditions.
func (p Predicate) References(names map[string]bool) bool {
	for _, slot := range p.Slots {
		if names[slot] {
			return true
		}
	}
	return false
}
