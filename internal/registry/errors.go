package registry

import "fmt"

// UnknownOperationError reports an invocation naming no loaded
// operation or alias.
type UnknownOperationError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Name)
}

// DuplicateOperationNameError reports a name or alias that is already
// taken by another definition in the same load. The offending entry is
// rejected; the entry that registered the key first is kept.
type DuplicateOperationNameError struct {
	Key      string // the colliding name or alias
	Existing string // definition that already owns the key
	Entry    string // definition being rejected
}

// Error implements the error interface.
func (e *DuplicateOperationNameError) Error() string {
	return fmt.Sprintf("definition %q: key %q already registered by %q", e.Entry, e.Key, e.Existing)
}

// MissingKernelError reports a definition loaded without a registered
// kernel function.
type MissingKernelError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingKernelError) Error() string {
	return fmt.Sprintf("definition %q has no registered kernel", e.Name)
}

// BindingError reports input bindings that do not match the declared
// input slots, or kernel output that does not match the declared output
// slots. It aborts the invocation before (or instead of) returning a
// partial result.
type BindingError struct {
	Operation string
	Slot      string
	Reason    string
}

// Error implements the error interface.
func (e *BindingError) Error() string {
	if e.Slot != "" {
		return fmt.Sprintf("operation %q: slot %q: %s", e.Operation, e.Slot, e.Reason)
	}
	return fmt.Sprintf("operation %q: %s", e.Operation, e.Reason)
}
