package registry

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/Inesh-volunteer/graphbook/internal/catalog"
)

//go:embed builtin/*.json
var builtinFS embed.FS

// Builtins returns the catalog entries and kernels shipped with the
// engine. The embedded entries go through the same parse/vet/validate
// pipeline as user catalogs; a failure here is a packaging defect, so
// it surfaces as a single error rather than a per-entry collection.
func Builtins() ([]catalog.Definition, map[string]Kernel, error) {
	entries, err := fs.Glob(builtinFS, "builtin/*.json")
	if err != nil {
		return nil, nil, fmt.Errorf("glob builtin catalog: %w", err)
	}

	var defs []catalog.Definition
	for _, path := range entries {
		data, err := builtinFS.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read builtin entry %s: %w", path, err)
		}
		def, errs := catalog.Parse(data, path)
		if len(errs) > 0 {
			return nil, nil, fmt.Errorf("builtin entry %s: %w", path, errs[0])
		}
		defs = append(defs, *def)
	}

	return defs, BuiltinKernels(), nil
}
