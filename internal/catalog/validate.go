package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Inesh-volunteer/graphbook/internal/contract"
	"github.com/Inesh-volunteer/graphbook/internal/tensor"
)

// Load and validation error codes (E0xx file-level, E1xx entry-level).
const (
	ErrCodeGeneric      = "E001" // generic/unknown error
	ErrCodeScanError    = "E002" // directory scan error
	ErrCodeNoFiles      = "E003" // no catalog files found
	ErrCodeNotFound     = "E005" // path not found
	ErrCodeParseFailed  = "E010" // JSON/YAML decode failed
	ErrCodeSchemaReject = "E011" // CUE schema vetting failed

	ErrCodeMissingName      = "E101" // name is required
	ErrCodeWrongType        = "E102" // type constant mismatch
	ErrCodeDuplicateSlot    = "E103" // duplicate or empty slot name
	ErrCodeAliasCollision   = "E104" // alias collides with name or another alias
	ErrCodeUnknownPredicate = "E105" // assertion matches no predicate
	ErrCodeUnboundSlot      = "E106" // assertion references undeclared slot
	ErrCodeExampleSlot      = "E107" // example value bound to unknown slot
	ErrCodeExampleData      = "E108" // example payload is malformed
	ErrCodeExampleType      = "E109" // example declares unsupported data type
)

// LoadError is a coded definition-load error. Load-time errors are fatal
// for the entry they name and are collected per entry; they never abort
// the rest of the catalog.
type LoadError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Entry   string `json:"entry,omitempty"`
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	switch {
	case e.File != "" && e.Entry != "":
		return fmt.Sprintf("[%s] %s (%s): %s", e.Code, e.Entry, e.File, e.Message)
	case e.File != "":
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.File, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// Validate checks one decoded definition against the entry-level rules.
// Returns all errors found (does not fail-fast), so a validate command
// can report every defect of an entry at once.
func Validate(def *Definition) []LoadError {
	var errs []LoadError

	if strings.TrimSpace(def.Name) == "" {
		errs = append(errs, LoadError{
			Code:    ErrCodeMissingName,
			Message: "name is required and must be non-empty",
			Entry:   def.Name,
		})
	}

	if def.Type != TypePrimitiveOperation {
		errs = append(errs, LoadError{
			Code:    ErrCodeWrongType,
			Message: fmt.Sprintf("type must be %q, got %q", TypePrimitiveOperation, def.Type),
			Entry:   def.Name,
		})
	}

	// Slot names must be unique across the union of inputs and outputs:
	// assertions reference slots by bare name.
	declared := make(map[string]bool, len(def.Inputs)+len(def.Outputs))
	for _, slot := range append(append([]Slot{}, def.Inputs...), def.Outputs...) {
		if strings.TrimSpace(slot.Name) == "" {
			errs = append(errs, LoadError{
				Code:    ErrCodeDuplicateSlot,
				Message: "slot name must be non-empty",
				Entry:   def.Name,
			})
			continue
		}
		if declared[slot.Name] {
			errs = append(errs, LoadError{
				Code:    ErrCodeDuplicateSlot,
				Message: fmt.Sprintf("duplicate slot name %q", slot.Name),
				Entry:   def.Name,
			})
		}
		declared[slot.Name] = true
	}

	// Aliases must not collide with the entry's own name or each other.
	// Cross-entry collisions are the registry's load-time concern.
	seenAliases := map[string]bool{def.Name: true}
	for _, alias := range def.Aliases {
		if seenAliases[alias] {
			errs = append(errs, LoadError{
				Code:    ErrCodeAliasCollision,
				Message: fmt.Sprintf("alias %q collides with the entry name or another alias", alias),
				Entry:   def.Name,
			})
		}
		seenAliases[alias] = true
	}

	errs = append(errs, validateAssertions(def, declared)...)
	errs = append(errs, validateExamples(def, declared)...)

	return errs
}

// validateAssertions compiles every assertion template, mapping compiler
// failures to coded load errors.
func validateAssertions(def *Definition, declared map[string]bool) []LoadError {
	var errs []LoadError
	for _, template := range def.Assertions {
		_, err := contract.CompileTemplate(template, declared)
		if err == nil {
			continue
		}
		var unbound *contract.UnboundSlotError
		if errors.As(err, &unbound) {
			errs = append(errs, LoadError{
				Code:    ErrCodeUnboundSlot,
				Message: err.Error(),
				Entry:   def.Name,
			})
			continue
		}
		errs = append(errs, LoadError{
			Code:    ErrCodeUnknownPredicate,
			Message: err.Error(),
			Entry:   def.Name,
		})
	}
	return errs
}

// validateExamples checks that every example value binds to a declared
// slot, declares a supported data type, and carries well-formed payload
// data. Ragged payloads are rejected here, before any predicate runs.
func validateExamples(def *Definition, declared map[string]bool) []LoadError {
	var errs []LoadError
	for i, example := range def.Examples {
		values := append(append([]ExampleValue{}, example.Inputs...), example.Outputs...)
		for _, val := range values {
			if !declared[val.Name] {
				errs = append(errs, LoadError{
					Code:    ErrCodeExampleSlot,
					Message: fmt.Sprintf("examples[%d] binds unknown slot %q", i, val.Name),
					Entry:   def.Name,
				})
				continue
			}
			dt, err := tensor.ParseDataType(val.Type)
			if err != nil {
				errs = append(errs, LoadError{
					Code:    ErrCodeExampleType,
					Message: fmt.Sprintf("examples[%d] slot %q: %v", i, val.Name, err),
					Entry:   def.Name,
				})
				continue
			}
			if _, err := tensor.FromJSON(dt, val.Data); err != nil {
				errs = append(errs, LoadError{
					Code:    ErrCodeExampleData,
					Message: fmt.Sprintf("examples[%d] slot %q: %v", i, val.Name, err),
					Entry:   def.Name,
				})
			}
		}
	}
	return errs
}
