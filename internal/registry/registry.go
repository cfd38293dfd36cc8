package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Inesh-volunteer/graphbook/internal/catalog"
	"github.com/Inesh-volunteer/graphbook/internal/contract"
	"github.com/Inesh-volunteer/graphbook/internal/tensor"
)

// Kernel is the numeric function implementing an operation's actual
// computation. It receives the bound input tensors in the order the
// definition declares inputs and must return tensors in the order
// outputs are declared. Kernels must be pure: inputs are passed by value
// semantics and must never be mutated.
type Kernel func(ctx context.Context, inputs []tensor.Tensor) ([]tensor.Tensor, error)

// Operation is one loaded definition with its compiled contract and
// registered kernel. Immutable after load.
type Operation struct {
	Def         catalog.Definition
	Contract    *contract.Contract
	Kernel      Kernel
	Fingerprint string
}

// snapshot is one immutable generation of the registry index.
type snapshot struct {
	byKey map[string]*Operation // primary name and every alias
	ops   []*Operation          // declaration order
}

func emptySnapshot() *snapshot {
	return &snapshot{byKey: map[string]*Operation{}}
}

// IDGenerator produces unique invocation IDs for the record log.
// Implemented by UUIDv7Generator (production) and the testutil fixed
// generator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 invocation IDs.
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Record describes one invocation outcome for the optional log.
type Record struct {
	ID             string
	Operation      string
	DefinitionHash string
	Status         string // "ok", "rejected", or "error"
	Detail         string
}

// Recorder receives invocation records. The registry treats recording
// as best-effort: a recorder failure is logged, never surfaced to the
// caller, so the log cannot change invocation semantics.
type Recorder interface {
	RecordInvocation(ctx context.Context, rec Record) error
}

// Registry owns the loaded operation definitions for its lifetime and
// routes invocations to kernels.
type Registry struct {
	current  atomic.Pointer[snapshot]
	idGen    IDGenerator
	recorder Recorder
}

// Option configures a Registry.
type Option func(*Registry)

// WithRecorder attaches an invocation recorder.
func WithRecorder(rec Recorder) Option {
	return func(r *Registry) {
		r.recorder = rec
	}
}

// WithIDGenerator replaces the UUIDv7 generator, used by tests that
// need deterministic invocation IDs.
func WithIDGenerator(gen IDGenerator) Option {
	return func(r *Registry) {
		r.idGen = gen
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{idGen: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(r)
	}
	r.current.Store(emptySnapshot())
	return r
}

// Load builds a new snapshot from the given definitions and kernel map
// and swaps it in atomically.
//
// Errors are collected per entry: a definition with a duplicate key, a
// missing kernel, or a contract that fails to compile is skipped and
// reported, and the remaining entries still load. Loading the same
// catalog twice yields identical dispatch behavior - the snapshot is
// replaced, never appended to.
func (r *Registry) Load(defs []catalog.Definition, kernels map[string]Kernel) []error {
	snap := emptySnapshot()
	var errs []error

	for _, def := range defs {
		op, err := compile(def, kernels)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		keys := append([]string{def.Name}, def.Aliases...)
		if dup := findDuplicate(snap, keys, def.Name); dup != nil {
			errs = append(errs, dup)
			continue
		}
		for _, key := range keys {
			snap.byKey[key] = op
		}
		snap.ops = append(snap.ops, op)
	}

	r.current.Store(snap)
	slog.Info("catalog loaded", "operations", len(snap.ops), "keys", len(snap.byKey), "errors", len(errs))
	return errs
}

// compile turns a definition into a loadable Operation.
func compile(def catalog.Definition, kernels map[string]Kernel) (*Operation, error) {
	kernel, ok := kernels[def.Name]
	if !ok {
		return nil, &MissingKernelError{Name: def.Name}
	}

	c, err := contract.Compile(def.Assertions, catalog.SlotNames(def.Inputs), catalog.SlotNames(def.Outputs))
	if err != nil {
		return nil, fmt.Errorf("definition %q: %w", def.Name, err)
	}

	hash, err := catalog.Fingerprint(&def)
	if err != nil {
		return nil, fmt.Errorf("definition %q: %w", def.Name, err)
	}

	return &Operation{Def: def, Contract: c, Kernel: kernel, Fingerprint: hash}, nil
}

// findDuplicate checks every key of an entry against the snapshot being
// built; the whole entry is rejected on the first collision so a half
// registered alias set can never exist.
func findDuplicate(snap *snapshot, keys []string, entry string) error {
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if existing, ok := snap.byKey[key]; ok {
			return &DuplicateOperationNameError{Key: key, Existing: existing.Def.Name, Entry: entry}
		}
		if seen[key] {
			return &DuplicateOperationNameError{Key: key, Existing: entry, Entry: entry}
		}
		seen[key] = true
	}
	return nil
}

// Resolve looks up an operation by primary name or alias.
func (r *Registry) Resolve(nameOrAlias string) (*Operation, bool) {
	op, ok := r.current.Load().byKey[nameOrAlias]
	return op, ok
}

// Operations returns the loaded operations in declaration order.
func (r *Registry) Operations() []*Operation {
	snap := r.current.Load()
	out := make([]*Operation, len(snap.ops))
	copy(out, snap.ops)
	return out
}

// Invoke routes one invocation through the full contract path:
// resolve, bind inputs, preconditions, kernel, postconditions.
//
// On any failure the invocation is rejected with a typed error and no
// partial result is returned. The snapshot is read once, so a reload
// during the call cannot produce mixed-generation behavior.
func (r *Registry) Invoke(ctx context.Context, nameOrAlias string, inputs map[string]tensor.Tensor) (map[string]tensor.Tensor, error) {
	op, ok := r.current.Load().byKey[nameOrAlias]
	if !ok {
		return nil, &UnknownOperationError{Name: nameOrAlias}
	}

	id := r.idGen.Generate()
	slog.Debug("invoking operation", "id", id, "operation", op.Def.Name, "resolved_via", nameOrAlias)

	result, err := r.dispatch(ctx, op, inputs)
	r.record(ctx, id, op, err)
	if err != nil {
		return nil, err
	}

	slog.Info("invocation completed", "id", id, "operation", op.Def.Name)
	return result, nil
}

// dispatch performs the validate/execute/validate sequence for one
// resolved operation.
func (r *Registry) dispatch(ctx context.Context, op *Operation, inputs map[string]tensor.Tensor) (map[string]tensor.Tensor, error) {
	def := &op.Def

	// Bind inputs by slot name; order for the kernel is declaration
	// order, not caller order.
	bindings := make(contract.Bindings, len(def.Inputs)+len(def.Outputs))
	ordered := make([]tensor.Tensor, len(def.Inputs))
	for i, slot := range def.Inputs {
		t, ok := inputs[slot.Name]
		if !ok {
			return nil, &BindingError{Operation: def.Name, Slot: slot.Name, Reason: "required input not bound"}
		}
		bindings[slot.Name] = t
		ordered[i] = t
	}
	for name := range inputs {
		if _, ok := bindings[name]; !ok {
			return nil, &BindingError{Operation: def.Name, Slot: name, Reason: "not a declared input slot"}
		}
	}

	// Preconditions must hold before the kernel runs.
	if err := op.Contract.CheckPre(bindings); err != nil {
		return nil, err
	}

	outputs, err := op.Kernel(ctx, ordered)
	if err != nil {
		return nil, fmt.Errorf("kernel %q: %w", def.Name, err)
	}
	if len(outputs) != len(def.Outputs) {
		return nil, &BindingError{
			Operation: def.Name,
			Reason:    fmt.Sprintf("kernel returned %d outputs, definition declares %d", len(outputs), len(def.Outputs)),
		}
	}

	result := make(map[string]tensor.Tensor, len(def.Outputs))
	for i, slot := range def.Outputs {
		bindings[slot.Name] = outputs[i]
		result[slot.Name] = outputs[i]
	}

	// Postconditions must hold before the result reaches the caller.
	if err := op.Contract.CheckPost(bindings); err != nil {
		return nil, err
	}

	return result, nil
}

// record writes the invocation outcome to the optional recorder.
func (r *Registry) record(ctx context.Context, id string, op *Operation, invokeErr error) {
	if r.recorder == nil {
		return
	}

	rec := Record{
		ID:             id,
		Operation:      op.Def.Name,
		DefinitionHash: op.Fingerprint,
		Status:         "ok",
	}
	if invokeErr != nil {
		rec.Status = statusFor(invokeErr)
		rec.Detail = invokeErr.Error()
	}

	if err := r.recorder.RecordInvocation(ctx, rec); err != nil {
		// Log and continue: the record log must never change
		// invocation semantics.
		slog.Error("invocation record failed", "id", id, "operation", op.Def.Name, "error", err)
	}
}

// statusFor distinguishes contract rejections from engine faults.
// Uses errors.As to handle wrapped errors.
func statusFor(err error) string {
	var violation *contract.Violation
	var binding *BindingError
	if errors.As(err, &violation) || errors.As(err, &binding) {
		return "rejected"
	}
	return "error"
}
