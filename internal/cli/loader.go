package cli

import (
	"fmt"

	"github.com/Inesh-volunteer/graphbook/internal/catalog"
	"github.com/Inesh-volunteer/graphbook/internal/registry"
	"github.com/Inesh-volunteer/graphbook/internal/store"
)

// EngineOptions selects which definitions a command loads.
type EngineOptions struct {
	CatalogDir string // optional directory of extra catalog entries
	NoBuiltins bool   // skip the embedded builtin catalog
	DBPath     string // optional SQLite invocation log
}

// Engine bundles a loaded registry with its definitions and optional
// store, ready for a command to use.
type Engine struct {
	Registry    *registry.Registry
	Definitions []catalog.Definition
	Store       *store.Store
}

// Close releases the engine's store, if one was opened.
func (e *Engine) Close() error {
	if e.Store == nil {
		return nil
	}
	return e.Store.Close()
}

// buildEngine assembles a registry from the builtin catalog plus an
// optional on-disk catalog directory. Catalog entries bind kernels by
// name; an entry renaming a builtin can bind its kernel through
// primitive_name.
func buildEngine(opts EngineOptions, formatter *OutputFormatter) (*Engine, error) {
	var defs []catalog.Definition
	kernels := registry.BuiltinKernels()

	if !opts.NoBuiltins {
		builtins, _, err := registry.Builtins()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "load builtin catalog", err)
		}
		defs = append(defs, builtins...)
	}

	if opts.CatalogDir != "" {
		result, errs := catalog.LoadDir(opts.CatalogDir, catalog.LoadModeFailFast)
		if result == nil {
			// Directory-level failure: bad path, unreadable, empty.
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("load catalog %s", opts.CatalogDir), errs[0])
		}
		if len(errs) > 0 {
			return nil, WrapExitError(ExitFailure, fmt.Sprintf("load catalog %s", opts.CatalogDir), errs[0])
		}
		defs = append(defs, result.Definitions...)
		formatter.VerboseLog("Loaded %d definition(s) from %d file(s) in %s",
			len(result.Definitions), result.FileCount, opts.CatalogDir)

		// A renamed entry executes the builtin kernel it descends from.
		for i := range result.Definitions {
			def := &result.Definitions[i]
			if _, ok := kernels[def.Name]; ok {
				continue
			}
			if k, ok := kernels[def.PrimitiveName]; ok {
				kernels[def.Name] = k
			}
		}
	}

	eng := &Engine{Registry: nil, Definitions: defs}

	if opts.DBPath != "" {
		st, err := store.Open(opts.DBPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("open database %s", opts.DBPath), err)
		}
		eng.Store = st
		eng.Registry = registry.New(registry.WithRecorder(st))
	} else {
		eng.Registry = registry.New()
	}

	if errs := eng.Registry.Load(defs, kernels); len(errs) > 0 {
		eng.Close()
		return nil, WrapExitError(ExitFailure, "load registry", errs[0])
	}

	return eng, nil
}
