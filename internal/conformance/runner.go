// Package conformance replays the examples bundled inside catalog
// definitions through the dispatcher and diff-checks the outputs.
//
// This is the self-test contract every catalog entry must satisfy: an
// example's inputs go through the exact invocation path callers use
// (preconditions, kernel, postconditions), and the produced tensors must
// match the example's declared outputs within a floating-point
// tolerance, since example outputs are decimal literals subject to
// representation error.
//
// Examples are independent, so a runner may fan out across them; each
// replay binds its own tensors and shares nothing mutable.
package conformance

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Inesh-volunteer/graphbook/internal/catalog"
	"github.com/Inesh-volunteer/graphbook/internal/registry"
	"github.com/Inesh-volunteer/graphbook/internal/tensor"
)

// Tolerance defines acceptable numeric drift between a dispatcher output
// and the example's declared output.
type Tolerance struct {
	Abs float64
	Rel float64
}

// DefaultTolerance absorbs decimal-literal representation error without
// masking real kernel defects.
var DefaultTolerance = Tolerance{Abs: 1e-9, Rel: 1e-9}

// Close reports whether actual is within tolerance of expected.
func (t Tolerance) Close(actual, expected float64) bool {
	return math.Abs(actual-expected) <= t.Abs+t.Rel*math.Abs(expected)
}

// Mismatch names one difference between a produced output and the
// example's declared output. Index is the flat element offset, or -1
// for tensor-level differences (shape, data type, missing slot).
type Mismatch struct {
	Slot     string `json:"slot"`
	Index    int    `json:"index"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// ExampleResult is the outcome of replaying one bundled example.
type ExampleResult struct {
	Definition string     `json:"definition"`
	Index      int        `json:"index"`
	Pass       bool       `json:"pass"`
	Error      string     `json:"error,omitempty"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// Report aggregates example results over one or more definitions.
type Report struct {
	Results []ExampleResult `json:"results"`
}

// Pass reports whether every example passed.
func (r *Report) Pass() bool {
	for _, res := range r.Results {
		if !res.Pass {
			return false
		}
	}
	return true
}

// Failures returns the number of failed examples.
func (r *Report) Failures() int {
	n := 0
	for _, res := range r.Results {
		if !res.Pass {
			n++
		}
	}
	return n
}

// RunExamples replays every bundled example of one definition through
// the dispatcher and returns a per-example pass/fail result. The
// definition must already be loaded in the registry.
func RunExamples(ctx context.Context, reg *registry.Registry, def *catalog.Definition, tol Tolerance) []ExampleResult {
	results := make([]ExampleResult, 0, len(def.Examples))
	for i, example := range def.Examples {
		res := runExample(ctx, reg, def, i, &example, tol)
		if !res.Pass {
			slog.Debug("conformance example failed",
				"definition", def.Name,
				"example", i,
				"error", res.Error,
				"mismatches", len(res.Mismatches),
			)
		}
		results = append(results, res)
	}
	return results
}

// RunCatalog replays the examples of every definition in order.
func RunCatalog(ctx context.Context, reg *registry.Registry, defs []catalog.Definition, tol Tolerance) *Report {
	report := &Report{}
	for i := range defs {
		report.Results = append(report.Results, RunExamples(ctx, reg, &defs[i], tol)...)
	}
	slog.Info("conformance run finished", "examples", len(report.Results), "failures", report.Failures())
	return report
}

func runExample(ctx context.Context, reg *registry.Registry, def *catalog.Definition, index int, example *catalog.Example, tol Tolerance) ExampleResult {
	res := ExampleResult{Definition: def.Name, Index: index, Pass: true}

	inputs := make(map[string]tensor.Tensor, len(example.Inputs))
	for _, ev := range example.Inputs {
		t, err := exampleTensor(&ev)
		if err != nil {
			res.Pass = false
			res.Error = fmt.Sprintf("input %q: %v", ev.Name, err)
			return res
		}
		inputs[ev.Name] = t
	}

	actual, err := reg.Invoke(ctx, def.Name, inputs)
	if err != nil {
		res.Pass = false
		res.Error = err.Error()
		return res
	}

	// Match outputs by slot name; examples may list slots in any order.
	for _, ev := range example.Outputs {
		expected, err := exampleTensor(&ev)
		if err != nil {
			res.Pass = false
			res.Error = fmt.Sprintf("output %q: %v", ev.Name, err)
			return res
		}
		got, ok := actual[ev.Name]
		if !ok {
			res.Pass = false
			res.Mismatches = append(res.Mismatches, Mismatch{
				Slot: ev.Name, Index: -1,
				Expected: "output tensor", Actual: "no tensor bound",
			})
			continue
		}
		res.Mismatches = append(res.Mismatches, diff(ev.Name, got, expected, ev.Shape, tol)...)
	}

	res.Pass = res.Pass && len(res.Mismatches) == 0
	return res
}

func exampleTensor(ev *catalog.ExampleValue) (tensor.Tensor, error) {
	dt, err := tensor.ParseDataType(ev.Type)
	if err != nil {
		return tensor.Tensor{}, err
	}
	return tensor.FromJSON(dt, ev.Data)
}

// diff deep-compares one produced output against the example's declared
// output: declared type, derived shape, the example's explicit shape
// field when present, then every element within tolerance.
func diff(slot string, got, expected tensor.Tensor, declaredShape []int, tol Tolerance) []Mismatch {
	var mismatches []Mismatch

	if !got.DataTypeEquals(expected) {
		mismatches = append(mismatches, Mismatch{
			Slot: slot, Index: -1,
			Expected: fmt.Sprintf("data type %s", expected.DataType()),
			Actual:   string(got.DataType()),
		})
	}

	if !got.ShapeEquals(expected) {
		mismatches = append(mismatches, Mismatch{
			Slot: slot, Index: -1,
			Expected: fmt.Sprintf("shape %v", expected.Shape()),
			Actual:   fmt.Sprintf("shape %v", got.Shape()),
		})
		return mismatches
	}

	if declaredShape != nil && !sameShape(got.Shape(), declaredShape) {
		mismatches = append(mismatches, Mismatch{
			Slot: slot, Index: -1,
			Expected: fmt.Sprintf("declared shape %v", declaredShape),
			Actual:   fmt.Sprintf("shape %v", got.Shape()),
		})
		return mismatches
	}

	gotData, expData := got.Data(), expected.Data()
	for i := range expData {
		if !tol.Close(gotData[i], expData[i]) {
			mismatches = append(mismatches, Mismatch{
				Slot: slot, Index: i,
				Expected: fmt.Sprintf("%v", expData[i]),
				Actual:   fmt.Sprintf("%v", gotData[i]),
			})
		}
	}

	return mismatches
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
