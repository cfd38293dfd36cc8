package conformance

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden compares a report against a golden file in
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/conformance -update
//
// Reports are deterministic for a fixed catalog: results follow
// definition declaration order and example order, so the golden file is
// a stable record of expected conformance behavior.
func AssertGolden(t *testing.T, name string, report *Report) {
	t.Helper()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
