package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// LoadMode controls how errors are handled during catalog loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the definitions loaded from a directory.
type LoadResult struct {
	Definitions []Definition
	FileCount   int // number of catalog files found
}

// schemaValue compiles the embedded CUE schema once per process.
var schemaValue = sync.OnceValues(func() (cue.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile embedded schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#Definition"))
	if err := def.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("lookup #Definition: %w", err)
	}
	return def, nil
})

// LoadDir loads catalog entries (.json and .yaml/.yml files) from a
// directory tree.
//
// Each file is decoded, vetted against the embedded CUE schema, and then
// validated Go-side. With LoadModeCollectAll, every error is gathered and
// a bad entry is skipped without blocking the rest of the catalog; with
// LoadModeFailFast the first error returns immediately.
func LoadDir(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := FindCatalogFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no catalog files found in %s", dir)}}
	}

	result := &LoadResult{FileCount: len(files)}
	var errs []error

	for _, path := range files {
		def, fileErrs := LoadFile(path)
		if len(fileErrs) > 0 {
			errs = append(errs, fileErrs...)
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		slog.Debug("catalog entry loaded", "file", path, "name", def.Name, "examples", len(def.Examples))
		result.Definitions = append(result.Definitions, *def)
	}

	return result, errs
}

// LoadFile loads and validates a single catalog entry file.
// All errors found in the entry are returned together.
func LoadFile(path string) (*Definition, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, File: path, Message: err.Error()}}
	}
	return Parse(data, path)
}

// Parse decodes, schema-vets, and validates one catalog entry.
// The filename's extension selects the decoder; anything that is not
// YAML is treated as JSON.
func Parse(data []byte, path string) (*Definition, []error) {
	var def Definition
	var raw any

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true) // reject unknown fields (catches typos)
		if err := dec.Decode(&def); err != nil {
			return nil, []error{&LoadError{Code: ErrCodeParseFailed, File: path, Message: fmt.Sprintf("decode YAML: %v", err)}}
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, []error{&LoadError{Code: ErrCodeParseFailed, File: path, Message: fmt.Sprintf("decode YAML: %v", err)}}
		}
	default:
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, []error{&LoadError{Code: ErrCodeParseFailed, File: path, Message: fmt.Sprintf("decode JSON: %v", err)}}
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, []error{&LoadError{Code: ErrCodeParseFailed, File: path, Message: fmt.Sprintf("decode JSON: %v", err)}}
		}
	}

	if err := vetSchema(raw); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeSchemaReject, File: path, Entry: def.Name, Message: err.Error()}}
	}

	if verrs := Validate(&def); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i := range verrs {
			verrs[i].File = path
			e := verrs[i]
			errs[i] = &e
		}
		return nil, errs
	}

	return &def, nil
}

// vetSchema unifies a decoded entry with the embedded CUE #Definition
// schema and reports the first constraint failure.
func vetSchema(raw any) error {
	schema, err := schemaValue()
	if err != nil {
		return err
	}

	// YAML decodes objects as map[string]any already; re-encode through
	// JSON so CUE sees plain data either way.
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("re-encode entry: %w", err)
	}

	ctx := schema.Context()
	entry := ctx.CompileBytes(data, cue.Filename("entry.json"))
	if err := entry.Err(); err != nil {
		return fmt.Errorf("compile entry: %w", err)
	}

	unified := schema.Unify(entry)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		msgs := cueerrors.Errors(err)
		if len(msgs) > 0 {
			return fmt.Errorf("schema violation: %s", msgs[0].Error())
		}
		return fmt.Errorf("schema violation: %v", err)
	}
	return nil
}

// FindCatalogFiles walks the directory and returns all catalog file
// paths in lexical order.
func FindCatalogFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".json", ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
